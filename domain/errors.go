package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// ErrUnavailable means the chain could not be reached at all. Listings
	// return it together with an empty result so callers can offer a retry.
	ErrUnavailable = errors.New("chain unavailable")

	ErrUserRejected        = errors.New("rejected by user")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrWrongNetwork        = errors.New("wrong network")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNothingToWithdraw   = errors.New("no funds available to withdraw")
	ErrNotEnoughPlayers    = errors.New("not enough players")
	ErrRoomNotClosed       = errors.New("room must be closed before settling")
	ErrTooEarly            = errors.New("cannot settle before the settlement time")
	ErrWorkflowBusy        = errors.New("another workflow is already active")
)
