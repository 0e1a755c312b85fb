package booking

import (
	"errors"
	"time"

	"stayvia/utils"
)

// ErrorKind names a validation failure. Kinds are stable and sent to clients.
type ErrorKind string

const (
	KindAuthRequired   ErrorKind = "auth_required"
	KindDatesMissing   ErrorKind = "dates_missing"
	KindDatesOrder     ErrorKind = "dates_order"
	KindDatePast       ErrorKind = "date_past"
	KindContactMissing ErrorKind = "contact_missing"
	KindGuests         ErrorKind = "guests"
	KindWrongSchedule  ErrorKind = "wrong_schedule"
)

// LoginPath and LoginDelay describe the redirect that follows auth_required.
const (
	LoginPath  = "/login"
	LoginDelay = 1500 * time.Millisecond
)

// ValidationError is a local, recoverable input error. It is never the
// result of a network call.
type ValidationError struct {
	Kind          ErrorKind
	Message       string
	RedirectTo    string
	RedirectAfter time.Duration
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthRequired is returned to anonymous callers; clients follow the
// redirect after the delay.
func AuthRequired() *ValidationError {
	return &ValidationError{
		Kind:          KindAuthRequired,
		Message:       "Please sign in to book.",
		RedirectTo:    LoginPath,
		RedirectAfter: LoginDelay,
	}
}

// Body renders the error for an HTTP response.
func (e *ValidationError) Body() utils.ErrorBody {
	return utils.ErrorBody{
		Kind:            string(e.Kind),
		Message:         e.Message,
		RedirectTo:      e.RedirectTo,
		RedirectAfterMs: e.RedirectAfter.Milliseconds(),
	}
}

func invalid(kind ErrorKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}

// KindOf returns the validation kind of err, or "" when err is not a
// validation error.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
