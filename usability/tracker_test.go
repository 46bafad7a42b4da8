package usability

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type collectedSignal struct {
	op     string
	signal Signal
}

// signalCollector keeps every delivered signal in call order.
type signalCollector struct {
	events []collectedSignal
}

func (c *signalCollector) StartSpan(s Signal) {
	c.events = append(c.events, collectedSignal{"start", s})
}

func (c *signalCollector) EndSpan(s Signal) {
	c.events = append(c.events, collectedSignal{"end", s})
}

func (c *signalCollector) Mark(s Signal) {
	c.events = append(c.events, collectedSignal{"mark", s})
}

var _ = Describe("Tracker", func() {
	var (
		tracker   *Tracker
		collector *signalCollector
	)

	BeforeEach(func() {
		tracker = NewTracker("TestTracker")
		collector = &signalCollector{}
		CollectSignals(tracker, collector)
	})

	It("should panic when created without a name", func() {
		Expect(func() {
			NewTracker("")
		}).Should(Panic())
	})

	It("should start a visit span when entering a view", func() {
		tracker.EnterView("Home")

		Expect(collector.events).To(HaveLen(1))
		Expect(collector.events[0].op).To(Equal("start"))
		Expect(collector.events[0].signal.Kind).To(Equal(KindView))
		Expect(collector.events[0].signal.What).To(Equal("Home"))
		Expect(collector.events[0].signal.Where).To(Equal("TestTracker"))
		Expect(tracker.CurrentView()).To(Equal("Home"))
	})

	It("should end the open visit before starting the next one", func() {
		tracker.EnterView("Home")
		tracker.EnterView("Settings")

		Expect(collector.events).To(HaveLen(3))
		Expect(collector.events[1].op).To(Equal("end"))
		Expect(collector.events[1].signal.ID).
			To(Equal(collector.events[0].signal.ID))
		Expect(collector.events[2].op).To(Equal("start"))
		Expect(collector.events[2].signal.What).To(Equal("Settings"))
		Expect(tracker.CurrentView()).To(Equal("Settings"))
	})

	It("should treat an empty view name as a no-op", func() {
		tracker.EnterView("Home")
		tracker.EnterView("")

		Expect(collector.events).To(HaveLen(1))
		Expect(tracker.CurrentView()).To(Equal("Home"))
	})

	It("should emit nothing when disabled", func() {
		tracker.SetEnabled(false)

		tracker.EnterView("Home")
		tracker.AppActivate()
		tracker.AppDeactivate()

		Expect(collector.events).To(BeEmpty())
	})

	It("should open a session span on the first activation", func() {
		tracker.AppActivate()

		Expect(collector.events).To(HaveLen(2))
		Expect(collector.events[0].op).To(Equal("mark"))
		Expect(collector.events[0].signal.Kind).To(Equal(KindLifecycle))
		Expect(collector.events[0].signal.What).To(Equal("activate"))
		Expect(collector.events[1].op).To(Equal("start"))
		Expect(collector.events[1].signal.Kind).To(Equal(KindSession))
	})

	It("should not open a second session while one is in progress", func() {
		tracker.AppActivate()
		tracker.AppActivate()

		starts := 0
		for _, e := range collector.events {
			if e.op == "start" {
				starts++
			}
		}
		Expect(starts).To(Equal(1))
	})

	It("should close the visit and the session on deactivation", func() {
		tracker.AppActivate()
		tracker.EnterView("Home")
		collector.events = nil

		tracker.AppDeactivate()

		Expect(collector.events).To(HaveLen(3))
		Expect(collector.events[0].op).To(Equal("mark"))
		Expect(collector.events[0].signal.What).To(Equal("deactivate"))
		Expect(collector.events[1].op).To(Equal("end"))
		Expect(collector.events[2].op).To(Equal("end"))
		Expect(tracker.CurrentView()).To(Equal(""))
	})

	It("should parent visit spans to the session span", func() {
		tracker.AppActivate()
		sessionID := collector.events[1].signal.ID

		tracker.EnterView("Home")

		visit := collector.events[2].signal
		Expect(visit.ParentID).To(Equal(sessionID))
	})

	It("should disable signal emission when the dialog is declined", func() {
		tracker.DialogDismissed(DialogChoiceDecline)

		Expect(tracker.Enabled()).To(BeFalse())

		lastEvent := collector.events[len(collector.events)-1]
		Expect(lastEvent.op).To(Equal("mark"))
		Expect(lastEvent.signal.Kind).To(Equal(KindDialog))
		Expect(lastEvent.signal.What).To(Equal("0"))

		tracker.EnterView("Home")
		Expect(collector.events).To(HaveLen(1))
	})

	It("should enable signal emission for any other dialog choice", func() {
		tracker.SetEnabled(false)

		tracker.DialogDismissed(1)

		Expect(tracker.Enabled()).To(BeTrue())
		Expect(collector.events).To(HaveLen(1))
		Expect(collector.events[0].signal.Kind).To(Equal(KindDialog))
		Expect(collector.events[0].signal.What).To(Equal("1"))
	})

	It("should refuse to register the same recorder twice", func() {
		Expect(func() {
			CollectSignals(tracker, collector)
		}).Should(Panic())
	})
})
