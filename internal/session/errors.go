package session

import "errors"

var (
	// ErrTerminated indicates the session has been torn down.
	ErrTerminated = errors.New("session terminated")
	// ErrNotReady indicates the session holds no navigable sequence yet.
	ErrNotReady = errors.New("session not ready")
	// ErrNoCurrentRecord indicates the sequence is empty.
	ErrNoCurrentRecord = errors.New("no current record")
	// ErrIndexOutOfRange indicates a navigation index outside the sequence.
	// Indices are not clamped; an out-of-range index is a caller bug.
	ErrIndexOutOfRange = errors.New("navigation index out of range")
	// ErrReadOnly indicates the session forbids state-changing operations.
	ErrReadOnly = errors.New("session is read-only")
	// ErrConfirmationRequired indicates a permanent delete was requested
	// without the explicit confirmation step.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
	// ErrNothingToUndo indicates no undo affordance is outstanding.
	ErrNothingToUndo = errors.New("nothing to undo")
)
