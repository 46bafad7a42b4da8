package usability

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
		domain.EXPECT().NumHooks().Return(1).AnyTimes()
		domain.EXPECT().InvokeHook(gomock.Any()).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic if ID is not given", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartSpan("", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should panic if domain is nil", func() {
		Expect(func() {
			StartSpan("id", "123", nil, "kind", "what", nil)
		}).Should(PanicWith("domain must not be nil"))
	})

	It("should panic if domain is nil for a span end", func() {
		Expect(func() {
			EndSpan("id", nil)
		}).Should(PanicWith("domain must not be nil"))
	})

	It("should panic if domain is nil for a mark", func() {
		Expect(func() {
			Mark("id", "123", nil, "kind", "what", nil)
		}).Should(PanicWith("domain must not be nil"))
	})

	It("should panic if domain's name is empty", func() {
		domain.EXPECT().Name().Return("").AnyTimes()
		Expect(func() {
			StartSpan("id", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should panic if kind is empty", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartSpan("id", "123", domain, "", "what", nil)
		}).Should(Panic())
	})

	It("should panic if what is empty", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartSpan("id", "123", domain, "kind", "", nil)
		}).Should(Panic())
	})

	It("should panic if a mark has no ID", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			Mark("", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should not invoke hooks when none are registered", func() {
		quietDomain := NewMockNamedHookable(mockCtrl)
		quietDomain.EXPECT().NumHooks().Return(0).AnyTimes()

		StartSpan("id", "123", quietDomain, "kind", "what", nil)
		EndSpan("id", quietDomain)
		Mark("id", "123", quietDomain, "kind", "what", nil)
	})
})
