package engine

import "errors"

var (
	// ErrInvalidConfig rejects session creation before any item is presented.
	ErrInvalidConfig = errors.New("invalid session config")
	// ErrSessionNotActive rejects submissions against a terminal session.
	ErrSessionNotActive = errors.New("session is not in progress")
	// ErrStaleSubmission rejects an answer whose item id is not the
	// session's current item (duplicate or out-of-order submission).
	ErrStaleSubmission = errors.New("submitted item is not the current item")
)
