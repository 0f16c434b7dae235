package services

import "errors"

// Typed domain errors. Services return these (possibly wrapped) and never map
// them to HTTP themselves; the handlers translate them into responses.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrAlreadyCompleted    = errors.New("task already completed")
	ErrUnknownLevel        = errors.New("unknown level")
	ErrInvalidTransition   = errors.New("invalid level transition")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTask         = errors.New("invalid task spec")
)
