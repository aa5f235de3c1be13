package errors

import "errors"

var (
	ErrNotOperational    = errors.New("admission ledger is not operational")
	ErrUnauthorized      = errors.New("caller is not authorized")
	ErrAlreadyRegistered = errors.New("airline is already registered")
	ErrNotFunded         = errors.New("initiating airline is not funded")
	ErrDuplicateVote     = errors.New("initiator has already voted for this candidate")
	ErrNotRegistered     = errors.New("airline is not registered")
	ErrInvalidName       = errors.New("airline name is required")
	ErrInvalidIdentity   = errors.New("airline identity is required")
	ErrInvalidAmount     = errors.New("funding amount must be greater than zero")
	ErrAmountOverflow    = errors.New("funding amount overflows the accumulator")
	ErrAlreadySeeded     = errors.New("admission ledger already has a seed airline")
	ErrNotFound          = errors.New("airline not found")
	ErrConflict          = errors.New("admission ledger write conflict")
)
