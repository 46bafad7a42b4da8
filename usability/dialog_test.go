package usability

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingDelegate struct {
	choices []int
}

func (d *recordingDelegate) DialogDismissed(choiceIndex int) {
	d.choices = append(d.choices, choiceIndex)
}

var _ = Describe("Dialog", func() {
	var (
		dialog   *Dialog
		delegate *recordingDelegate
	)

	BeforeEach(func() {
		dialog = NewDialog("Allow usage tracking?", "No", "Yes")
		delegate = &recordingDelegate{}
	})

	It("should panic when created without buttons", func() {
		Expect(func() {
			NewDialog("Allow usage tracking?")
		}).Should(Panic())
	})

	It("should report the chosen button to the delegate", func() {
		dialog.Show(delegate)
		dialog.Dismiss(1)

		Expect(delegate.choices).To(Equal([]int{1}))
		Expect(dialog.Visible()).To(BeFalse())
	})

	It("should release the delegate on dismissal", func() {
		dialog.Show(delegate)
		dialog.Dismiss(0)

		Expect(func() {
			dialog.Dismiss(0)
		}).Should(Panic())
	})

	It("should allow showing again after dismissal", func() {
		dialog.Show(delegate)
		dialog.Dismiss(0)

		dialog.Show(delegate)
		dialog.Dismiss(1)

		Expect(delegate.choices).To(Equal([]int{0, 1}))
	})

	It("should panic when shown twice", func() {
		dialog.Show(delegate)

		Expect(func() {
			dialog.Show(delegate)
		}).Should(Panic())
	})

	It("should panic when shown without a delegate", func() {
		Expect(func() {
			dialog.Show(nil)
		}).Should(Panic())
	})

	It("should panic when the choice is out of range", func() {
		dialog.Show(delegate)

		Expect(func() {
			dialog.Dismiss(2)
		}).Should(Panic())
	})

	It("should drive a tracker's consent state as its delegate", func() {
		tracker := NewTracker("DialogTracker")

		dialog.Show(tracker)
		dialog.Dismiss(DialogChoiceDecline)
		Expect(tracker.Enabled()).To(BeFalse())

		dialog.Show(tracker)
		dialog.Dismiss(1)
		Expect(tracker.Enabled()).To(BeTrue())
	})
})
