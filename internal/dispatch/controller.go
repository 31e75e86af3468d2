package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voxnav/internal/form"
	"voxnav/internal/intent"
)

// DefaultGracePeriod bounds how long a deferred action waits for its
// destination's registry after navigation is triggered. Readiness is
// signaled by the mount notification itself; the grace period is only the
// safety timeout for a mount that never completes.
const DefaultGracePeriod = 2 * time.Second

const (
	defaultListDestination = "products"
	defaultFormDestination = "contact"
)

type pendingAction struct {
	turnID string
	action intent.Action
	target string
}

// Controller owns the registry map and the pending-action lifecycle.
//
// Per turn: Idle -> Classifying (caller) -> Applying or AwaitingDestination
// -> Idle. At most one pending action exists; a newer one replaces it
// (last-submitted-wins), and navigation to a different destination than
// the pending target invalidates it.
type Controller struct {
	log       *zap.Logger
	navigator Navigator
	listDest  string
	formDest  string
	grace     time.Duration
	onResult  func(Result)

	mu         sync.Mutex
	active     string
	lists      map[string]ListCommands
	forms      map[string]FormCommands
	pending    *pendingAction
	graceTimer *time.Timer
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithGracePeriod overrides the registry-availability timeout.
func WithGracePeriod(d time.Duration) ControllerOption {
	return func(c *Controller) { c.grace = d }
}

// WithListDestination sets the destination implied by list mutations.
func WithListDestination(id string) ControllerOption {
	return func(c *Controller) { c.listDest = id }
}

// WithFormDestination sets the destination implied by form mutations.
func WithFormDestination(id string) ControllerOption {
	return func(c *Controller) { c.formDest = id }
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(log *zap.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// WithResultFunc receives the terminal Result of every turn, including
// deferred ones. Called outside the controller lock.
func WithResultFunc(fn func(Result)) ControllerOption {
	return func(c *Controller) { c.onResult = fn }
}

// NewController builds a dispatch controller around a navigator.
func NewController(navigator Navigator, opts ...ControllerOption) *Controller {
	c := &Controller{
		log:       zap.NewNop(),
		navigator: navigator,
		listDest:  defaultListDestination,
		formDest:  defaultFormDestination,
		grace:     DefaultGracePeriod,
		lists:     make(map[string]ListCommands),
		forms:     make(map[string]FormCommands),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns the currently active destination id.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// MountList records that a list destination finished mounting and
// published its command registry. Presence of the registry is the ready
// signal for a pending action targeting this destination.
func (c *Controller) MountList(id string, reg ListCommands) {
	c.mount(id, func() { c.lists[id] = reg })
}

// MountForm records that a form destination finished mounting and
// published its command registry.
func (c *Controller) MountForm(id string, reg FormCommands) {
	c.mount(id, func() { c.forms[id] = reg })
}

// SetActive records navigation onto a destination that publishes no
// command registry.
func (c *Controller) SetActive(id string) {
	c.mount(id, nil)
}

// Unmount removes a destination's registries. Absence is a normal state,
// not an error.
func (c *Controller) Unmount(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, id)
	delete(c.forms, id)
}

func (c *Controller) mount(id string, register func()) {
	c.mu.Lock()
	c.active = id
	if register != nil {
		register()
	}

	p := c.pending
	if p == nil {
		c.mu.Unlock()
		return
	}

	if p.target != id {
		// The user is no longer heading toward the pending target.
		c.clearPendingLocked()
		c.mu.Unlock()
		c.report(Result{TurnID: p.turnID, Action: p.action, Err: ErrPendingInvalidated})
		c.log.Info("pending action invalidated",
			zap.String("target", p.target),
			zap.String("mounted", id))
		return
	}

	if !c.registryPresentLocked(p.action.Kind, id) {
		if c.otherKindPresentLocked(p.action.Kind, id) {
			// The destination registered, but with the wrong registry
			// shape. That will not change within the grace period.
			c.clearPendingLocked()
			c.mu.Unlock()
			c.report(Result{TurnID: p.turnID, Action: p.action, Err: ErrWrongRegistryKind})
			return
		}
		// Destination is active but its registry has not registered yet;
		// keep waiting within the grace period.
		c.mu.Unlock()
		return
	}

	res := c.applyLocked(p.action, p.turnID)
	c.clearPendingLocked()
	c.mu.Unlock()
	c.report(res)
}

// Dispatch applies one classified action. Navigation and immediately
// applicable mutations resolve synchronously; a mutation whose target is
// not live is held as the pending action, navigation is triggered exactly
// once, and the terminal result arrives via the result callback.
func (c *Controller) Dispatch(action intent.Action) Result {
	turnID := uuid.NewString()

	c.mu.Lock()

	// A new utterance always cancels an unconsumed pending action.
	if c.pending != nil {
		old := c.pending
		c.clearPendingLocked()
		c.log.Info("pending action replaced",
			zap.String("old_turn", old.turnID),
			zap.String("new_turn", turnID))
	}

	switch action.Kind {
	case intent.KindNone:
		c.mu.Unlock()
		res := Result{TurnID: turnID, Action: action, Err: ErrUnknownIntent}
		c.report(res)
		return res

	case intent.KindNavigation:
		target := ""
		if action.Destination != nil {
			target = action.Destination.ID
		}
		needNav := target != "" && target != c.active
		c.mu.Unlock()
		if needNav {
			c.navigator.NavigateTo(target)
		}
		res := Result{TurnID: turnID, Action: action, Applied: true}
		c.report(res)
		return res
	}

	// Target resolution happens exactly once, here, per action kind.
	target := c.targetFor(action.Kind)

	if target == c.active && c.registryPresentLocked(action.Kind, target) {
		res := c.applyLocked(action, turnID)
		c.mu.Unlock()
		c.report(res)
		return res
	}

	c.pending = &pendingAction{turnID: turnID, action: action, target: target}
	c.graceTimer = time.AfterFunc(c.grace, func() { c.expirePending(turnID) })
	needNav := target != c.active
	c.mu.Unlock()

	c.log.Debug("action deferred until destination mounts",
		zap.String("turn", turnID),
		zap.String("target", target))
	if needNav {
		c.navigator.NavigateTo(target)
	}
	return Result{TurnID: turnID, Action: action, Deferred: true}
}

func (c *Controller) targetFor(kind intent.Kind) string {
	if kind == intent.KindFormMutation {
		return c.formDest
	}
	return c.listDest
}

func (c *Controller) registryPresentLocked(kind intent.Kind, id string) bool {
	if kind == intent.KindFormMutation {
		_, ok := c.forms[id]
		return ok
	}
	_, ok := c.lists[id]
	return ok
}

func (c *Controller) otherKindPresentLocked(kind intent.Kind, id string) bool {
	if kind == intent.KindFormMutation {
		_, ok := c.lists[id]
		return ok
	}
	_, ok := c.forms[id]
	return ok
}

func (c *Controller) clearPendingLocked() {
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.pending = nil
}

func (c *Controller) expirePending(turnID string) {
	c.mu.Lock()
	p := c.pending
	if p == nil || p.turnID != turnID {
		c.mu.Unlock()
		return
	}
	c.clearPendingLocked()
	c.mu.Unlock()

	c.log.Warn("pending action dropped, registry never appeared",
		zap.String("turn", turnID),
		zap.String("target", p.target))
	c.report(Result{TurnID: p.turnID, Action: p.action, Err: ErrRegistryTimeout})
}

func (c *Controller) report(res Result) {
	if c.onResult != nil {
		c.onResult(res)
	}
}

// applyLocked applies a mutation through the matching registry. The
// registry shape must match the action kind; cross-kind application is
// refused, never attempted.
func (c *Controller) applyLocked(action intent.Action, turnID string) Result {
	res := Result{TurnID: turnID, Action: action}
	target := c.targetFor(action.Kind)

	switch action.Kind {
	case intent.KindListMutation:
		reg, ok := c.lists[target]
		if !ok {
			if _, isForm := c.forms[target]; isForm {
				res.Err = ErrWrongRegistryKind
			} else {
				res.Err = ErrNoRegistry
			}
			return res
		}
		m := action.List
		if err := reg.Apply(m.Op, m.Field, m.Value); err != nil {
			res.Err = fmt.Errorf("list mutation failed: %w", err)
			return res
		}
		res.Applied = true
		c.log.Info("list mutation applied",
			zap.String("op", string(m.Op)),
			zap.String("field", m.Field),
			zap.String("value", m.Value))
		return res

	case intent.KindFormMutation:
		reg, ok := c.forms[target]
		if !ok {
			if _, isList := c.lists[target]; isList {
				res.Err = ErrWrongRegistryKind
			} else {
				res.Err = ErrNoRegistry
			}
			return res
		}
		return c.applyForm(reg, action, turnID)
	}

	res.Err = fmt.Errorf("cannot apply action of kind %q", action.Kind)
	return res
}

func (c *Controller) applyForm(reg FormCommands, action intent.Action, turnID string) Result {
	res := Result{TurnID: turnID, Action: action}
	m := action.Form

	if m.Op == intent.FormSubmit {
		if err := reg.Submit(); err != nil {
			res.Err = fmt.Errorf("form submission failed: %w", err)
			return res
		}
		res.Applied = true
		c.log.Info("form submitted")
		return res
	}

	// Fill operations: unknown fields and malformed emails are rejected
	// entry by entry; valid entries still apply.
	res.RequestedFields = len(m.Entries)
	var valid []intent.FieldEntry
	var errs []error
	for _, e := range m.Entries {
		if !form.KnownField(e.Field) {
			errs = append(errs, fmt.Errorf("unknown form field %q", e.Field))
			continue
		}
		if e.Field == "email" {
			if err := form.ValidateEmail(e.Value); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		valid = append(valid, e)
	}

	if m.Op == intent.FormFillMany {
		// The registry routes subject entries through its own subject
		// handling and reports how many entries it accepted.
		res.AppliedFields = reg.FillMany(valid)
	} else {
		for _, e := range valid {
			if e.Field == "subject" {
				if reg.SelectSubject(e.Value) {
					res.AppliedFields++
				}
				continue
			}
			if reg.FillField(e.Field, e.Value) {
				res.AppliedFields++
			}
		}
	}

	res.Applied = res.AppliedFields > 0
	res.Err = errors.Join(errs...)
	if res.Applied {
		c.log.Info("form fields applied",
			zap.Int("applied", res.AppliedFields),
			zap.Int("requested", res.RequestedFields))
	}
	return res
}
