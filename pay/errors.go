package pay

import (
	"context"
	"errors"

	"stayvia/backend"
)

var (
	ErrInFlight         = errors.New("a payment for this booking is already being processed")
	ErrAlreadyConfirmed = errors.New("this booking is already confirmed")
)

// LocalError is a draft problem caught before any request is sent.
type LocalError struct {
	Field   string
	Message string
}

func (e *LocalError) Error() string {
	return e.Message
}

type CommitKind string

const (
	CommitNetwork CommitKind = "network"
	CommitServer  CommitKind = "server"
	CommitGeneric CommitKind = "generic"
	CommitAuth    CommitKind = "auth_required"
)

const (
	msgNetwork = "Could not reach the booking service. Check your connection and try again."
	msgTimeout = "The booking service took too long to respond. Please try again."
	msgGeneric = "Booking failed. Please try again."
	msgAuth    = "Please sign in to book."
)

// CommitError is a failed commit. Message is what the user sees: the
// backend's own text for server errors, a fixed text otherwise.
type CommitError struct {
	Kind    CommitKind
	Message string
	Timeout bool
	Err     error
}

func (e *CommitError) Error() string {
	return "commit booking: " + e.Message
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

func classify(err error) *CommitError {
	var be *backend.Error
	if !errors.As(err, &be) {
		if errors.Is(err, context.DeadlineExceeded) {
			return &CommitError{Kind: CommitNetwork, Message: msgTimeout, Timeout: true, Err: err}
		}
		return &CommitError{Kind: CommitGeneric, Message: msgGeneric, Err: err}
	}
	switch be.Kind {
	case backend.KindNetwork:
		if be.Timeout() {
			return &CommitError{Kind: CommitNetwork, Message: msgTimeout, Timeout: true, Err: err}
		}
		return &CommitError{Kind: CommitNetwork, Message: msgNetwork, Err: err}
	case backend.KindUnauthorized:
		return &CommitError{Kind: CommitAuth, Message: msgAuth, Err: err}
	}
	if be.Message != "" {
		return &CommitError{Kind: CommitServer, Message: be.Message, Err: err}
	}
	return &CommitError{Kind: CommitGeneric, Message: msgGeneric, Err: err}
}
