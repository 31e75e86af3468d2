// Package dispatch applies classified actions to live destinations,
// deferring an action while its target destination mounts and registers
// its command surface.
package dispatch

import (
	"errors"

	"voxnav/internal/intent"
)

// ListCommands is the capability surface a live list destination exposes.
// Distinct from FormCommands on purpose: the two registry shapes are not
// polymorphic and must never receive each other's actions.
type ListCommands interface {
	Apply(op intent.ListOp, field, value string) error
	Snapshot() map[string]string
}

// FormCommands is the capability surface a live form destination exposes.
type FormCommands interface {
	FillField(name, value string) bool
	FillMany(entries []intent.FieldEntry) int
	SelectSubject(text string) bool
	Submit() error
	Snapshot() map[string]string
}

// Navigator is the rendering layer's navigation entry point. The
// controller triggers it at most once per turn.
type Navigator interface {
	NavigateTo(id string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(id string)

// NavigateTo implements Navigator.
func (f NavigatorFunc) NavigateTo(id string) { f(id) }

var (
	// ErrNoRegistry means the target destination is live but exposed no
	// command registry of any kind.
	ErrNoRegistry = errors.New("no command registry for destination")

	// ErrWrongRegistryKind means the destination's registry shape does not
	// match the action kind (list action against a form registry or vice
	// versa).
	ErrWrongRegistryKind = errors.New("registry kind does not match action")

	// ErrRegistryTimeout means the target's registry never appeared within
	// the grace period; the action was dropped, not retried.
	ErrRegistryTimeout = errors.New("destination registry did not become available")

	// ErrPendingInvalidated means navigation landed on a different
	// destination than the pending action's target.
	ErrPendingInvalidated = errors.New("pending action invalidated by navigation")

	// ErrUnknownIntent is reported for no-match actions.
	ErrUnknownIntent = errors.New("could not determine intent")
)

// Result is the terminal outcome of one dispatched turn. For deferred
// actions only Deferred is set on the immediate return; the terminal
// Result arrives later through the controller's result callback.
type Result struct {
	TurnID   string
	Action   intent.Action
	Applied  bool
	Deferred bool

	// Field accounting for form mutations: how many of the requested
	// entries were actually written.
	AppliedFields   int
	RequestedFields int

	Err error
}
