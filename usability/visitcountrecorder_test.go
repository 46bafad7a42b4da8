package usability

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VisitCountRecorder", func() {
	var r *VisitCountRecorder

	BeforeEach(func() {
		r = NewVisitCountRecorder(AllSignals)
	})

	It("should count visits per view", func() {
		r.StartSpan(Signal{ID: "1", Kind: KindView, What: "Home"})
		r.StartSpan(Signal{ID: "2", Kind: KindView, What: "Settings"})
		r.StartSpan(Signal{ID: "3", Kind: KindView, What: "Home"})

		Expect(r.VisitCount("Home")).To(Equal(uint64(2)))
		Expect(r.VisitCount("Settings")).To(Equal(uint64(1)))
		Expect(r.VisitCount("About")).To(Equal(uint64(0)))
	})

	It("should keep view names in first-visit order", func() {
		r.StartSpan(Signal{ID: "1", Kind: KindView, What: "Settings"})
		r.StartSpan(Signal{ID: "2", Kind: KindView, What: "Home"})
		r.StartSpan(Signal{ID: "3", Kind: KindView, What: "Settings"})

		Expect(r.ViewNames()).To(Equal([]string{"Settings", "Home"}))
	})

	It("should not count session spans as visits", func() {
		r.StartSpan(Signal{ID: "1", Kind: KindSession, What: "foreground"})

		Expect(r.ViewNames()).To(BeEmpty())
	})

	It("should count marks by what", func() {
		r.Mark(Signal{ID: "1", Kind: KindLifecycle, What: "activate"})
		r.Mark(Signal{ID: "2", Kind: KindLifecycle, What: "deactivate"})
		r.Mark(Signal{ID: "3", Kind: KindLifecycle, What: "activate"})

		Expect(r.MarkCount("activate")).To(Equal(uint64(2)))
		Expect(r.MarkCount("deactivate")).To(Equal(uint64(1)))
	})
})
