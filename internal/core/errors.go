package core

import "errors"

var (
	// ErrValidation is returned when a draft is submitted while incomplete.
	ErrValidation = errors.New("order draft is incomplete")
	// ErrIndexOutOfRange is returned for line operations on a stale or invalid index.
	ErrIndexOutOfRange = errors.New("line index out of range")
	// ErrUnauthorized is returned by gateways when the credential is absent or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNetwork is returned by gateways for any other transport or status failure.
	ErrNetwork = errors.New("network error")

	ErrDegenerateOverride = errors.New("line total override needs a positive quantity and a discount below 100%")
	ErrMixedEdit          = errors.New("a line edit cannot change the total together with quantity, price or discount")
	ErrUnknownReference   = errors.New("unknown reference kind")
	ErrNotFound           = errors.New("not found")
	ErrInvalidIntent      = errors.New("invalid assistant intent")
)
