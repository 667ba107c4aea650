package service

import "errors"

// Duel lifecycle errors. Everything else bubbling out of the service layer is
// a transient store or network failure and is the only class worth retrying.
var (
	ErrNotFound       = errors.New("duel not found")
	ErrAlreadyFull    = errors.New("duel already has a guest")
	ErrAlreadyStarted = errors.New("duel is no longer waiting")
	ErrSelfJoin       = errors.New("cannot join your own duel")
	ErrNotHost        = errors.New("only the host may delete a duel")
	ErrInvalidToken   = errors.New("invalid or expired token")
)
