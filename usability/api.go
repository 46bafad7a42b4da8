// Package usability records coarse usability signals (view visits,
// foreground sessions, consent-dialog outcomes) and delivers them to
// pluggable recorders through hooks.
package usability

import (
	"github.com/usablab/usetrack/hooking"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	Named
	hooking.Hookable
	InvokeHook(hooking.HookCtx)
}

// Named is an object that has a name.
type Named interface {
	Name() string
}

// A list of hook poses for the hooks to apply to
var (
	HookPosSpanStart = &hooking.HookPos{Name: "HookPosSpanStart"}
	HookPosSpanEnd   = &hooking.HookPos{Name: "HookPosSpanEnd"}
	HookPosMark      = &hooking.HookPos{Name: "HookPosMark"}
)

// StartSpan notifies the hooks that hook to the domain about the start of a
// span-shaped signal (a view visit or a foreground session).
func StartSpan(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail any,
) {
	domainMustNotBeNil(domain)

	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, kind, what)
	domainMustHaveName(domain)

	signal := Signal{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
		Detail:   detail,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   signal,
		Pos:    HookPosSpanStart,
	}
	domain.InvokeHook(ctx)
}

// EndSpan notifies the hooks about the end of a span.
func EndSpan(
	id string,
	domain NamedHookable,
) {
	domainMustNotBeNil(domain)

	if domain.NumHooks() == 0 {
		return
	}

	signal := Signal{
		ID: id,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   signal,
		Pos:    HookPosSpanEnd,
	}
	domain.InvokeHook(ctx)
}

// Mark notifies the hooks about an instantaneous signal, such as a lifecycle
// transition or a dialog choice.
func Mark(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail any,
) {
	domainMustNotBeNil(domain)

	if domain.NumHooks() == 0 {
		return
	}

	allRequiredFieldsMustBeNotEmpty(id, kind, what)
	domainMustHaveName(domain)

	signal := Signal{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Where:    domain.Name(),
		Detail:   detail,
	}
	ctx := hooking.HookCtx{
		Domain: domain,
		Item:   signal,
		Pos:    HookPosMark,
	}
	domain.InvokeHook(ctx)
}

func domainMustNotBeNil(domain NamedHookable) {
	if domain == nil {
		panic("domain must not be nil")
	}
}

func allRequiredFieldsMustBeNotEmpty(
	id string,
	kind string,
	what string,
) {
	if id == "" {
		panic("id must not be empty")
	}

	if kind == "" {
		panic("kind must not be empty")
	}

	if what == "" {
		panic("what must not be empty")
	}
}

func domainMustHaveName(domain NamedHookable) {
	if domain.Name() == "" {
		panic("domain must have a name")
	}
}
