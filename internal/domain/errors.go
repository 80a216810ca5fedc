package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind groups engine errors by how a caller should react to them.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindNotFound      ErrorKind = "not_found"
	KindCapacity      ErrorKind = "capacity"
	KindAuthorization ErrorKind = "authorization"
	KindState         ErrorKind = "state"
)

// Error is the self-describing failure returned by every engine operation.
// Requested and Available are only set for capacity errors.
type Error struct {
	Kind      ErrorKind `json:"kind"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Requested int       `json:"requested,omitempty"`
	Available int       `json:"available,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MarshalJSON always emits both counts on capacity errors, so a sold-out flight
// still reports "available":0.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	if e.Kind != KindCapacity {
		return json.Marshal((*plain)(e))
	}
	return json.Marshal(struct {
		*plain
		Requested int `json:"requested"`
		Available int `json:"available"`
	}{plain: (*plain)(e), Requested: e.Requested, Available: e.Available})
}

// Is matches any *Error carrying the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidRoute          = &Error{Kind: KindValidation, Code: "InvalidRoute", Message: "invalid route"}
	ErrInvalidDate           = &Error{Kind: KindValidation, Code: "InvalidDate", Message: "date must be YYYY-MM-DD"}
	ErrInvalidPassengerCount = &Error{Kind: KindValidation, Code: "InvalidPassengerCount", Message: "passengers must be between 1 and 9"}
	ErrInvalidEmail          = &Error{Kind: KindValidation, Code: "InvalidEmail", Message: "invalid email format"}
	ErrInvalidPassengerName  = &Error{Kind: KindValidation, Code: "InvalidPassengerName", Message: "passenger name is required"}
	ErrInvalidCabinClass     = &Error{Kind: KindValidation, Code: "InvalidCabinClass", Message: "cabin class must be economy, business or first"}
	ErrFlightNotFound        = &Error{Kind: KindNotFound, Code: "FlightNotFound", Message: "flight not found"}
	ErrBookingNotFound       = &Error{Kind: KindNotFound, Code: "BookingNotFound", Message: "booking not found"}
	ErrInsufficientSeats     = &Error{Kind: KindCapacity, Code: "InsufficientSeats", Message: "insufficient seats available"}
	ErrEmailMismatch         = &Error{Kind: KindAuthorization, Code: "EmailMismatch", Message: "email does not match booking records"}
	ErrAlreadyCancelled      = &Error{Kind: KindState, Code: "AlreadyCancelled", Message: "booking already cancelled"}
)

// Newf returns a copy of sentinel with a specific message.
func Newf(sentinel *Error, format string, args ...any) *Error {
	e := *sentinel
	e.Message = fmt.Sprintf(format, args...)
	return &e
}

// InsufficientSeats builds the capacity error carrying the counts a caller needs
// to retry with fewer passengers.
func InsufficientSeats(requested, available int) *Error {
	e := *ErrInsufficientSeats
	e.Message = fmt.Sprintf("requested %d seats, %d available", requested, available)
	e.Requested = requested
	e.Available = available
	return &e
}

// KindOf returns the kind of an engine error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
