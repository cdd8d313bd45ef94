package workflow

import "sync"

// Control identifies a saga's triggering control. Each control admits at
// most one in-flight saga: acquired at saga start, released exactly once on
// every exit path.
type Control string

const (
	ControlCreateCustomer Control = "create_customer"
	ControlSaveCard       Control = "save_card"
	ControlListCards      Control = "list_cards"
	ControlDeleteCard     Control = "delete_card"
	ControlCharge         Control = "charge_customer"
	ControlPayOnce        Control = "pay_once"
)

// Gate tracks which controls are disabled by an in-flight saga.
type Gate struct {
	mu   sync.Mutex
	busy map[Control]bool
}

func NewGate() *Gate {
	return &Gate{busy: make(map[Control]bool)}
}

// TryAcquire disables the control for the caller. It reports false when a
// saga already holds the control, in which case the gesture is dropped.
func (g *Gate) TryAcquire(control Control) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[control] {
		return false
	}
	g.busy[control] = true
	return true
}

// Release re-enables the control. Releasing an idle control is a no-op so
// a deferred release stays safe on every exit path.
func (g *Gate) Release(control Control) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, control)
}

// Disabled reports whether the control currently has a saga in flight.
func (g *Gate) Disabled(control Control) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[control]
}
