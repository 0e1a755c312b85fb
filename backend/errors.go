package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind string

const (
	// KindNetwork: the request never reached the backend or no response came
	// back, including timeouts.
	KindNetwork Kind = "network"
	// KindUnauthorized: the backend rejected the forwarded credentials.
	KindUnauthorized Kind = "unauthorized"
	// KindNotFound: the backend does not know the requested resource.
	KindNotFound Kind = "not_found"
	// KindServer: any other error status or an unsuccessful envelope.
	KindServer Kind = "server"
)

// Error describes a failed backend call. Message is the text the backend
// reported, verbatim, and is empty when the response carried none.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because its deadline passed.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// KindOf returns the kind of a backend error, or "" for other errors.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// MessageOf returns the backend-reported message of err, if any.
func MessageOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	}
	return KindServer
}
