package usability

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("AverageTimeRecorder", func() {
	var (
		mockCtrl   *gomock.Controller
		timeTeller *MockTimeTeller
		r          *AverageTimeRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)

		r = NewAverageTimeRecorder(timeTeller, ViewFilter("Home"))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should average the duration of the matching visits", func() {
		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(1))
		r.StartSpan(Signal{ID: "1", Kind: KindView, What: "Home"})
		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(2))
		r.EndSpan(Signal{ID: "1"})

		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(3))
		r.StartSpan(Signal{ID: "2", Kind: KindView, What: "Home"})
		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(6))
		r.EndSpan(Signal{ID: "2"})

		Expect(r.AverageTime()).To(Equal(TimeInSec(2.0)))
		Expect(r.TotalCount()).To(Equal(uint64(2)))
	})

	It("should skip visits to other views", func() {
		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(1))
		r.StartSpan(Signal{ID: "1", Kind: KindView, What: "Settings"})
		timeTeller.EXPECT().CurrentTime().Return(TimeInSec(9))
		r.EndSpan(Signal{ID: "1"})

		Expect(r.AverageTime()).To(Equal(TimeInSec(0.0)))
		Expect(r.TotalCount()).To(Equal(uint64(0)))
	})
})
