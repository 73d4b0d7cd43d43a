package session

import "context"

// Gate is the external prerequisite check that must pass before a session may
// start resolving, e.g. a permission grant. Wait blocks until the gate opens
// or the context ends.
type Gate interface {
	Wait(ctx context.Context) error
}

// OpenGate passes immediately. Deployments without an access prerequisite use
// this.
type OpenGate struct{}

// Wait implements Gate.
func (OpenGate) Wait(context.Context) error { return nil }
