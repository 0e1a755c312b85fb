// Package verify looks bookings up for the public verification page. It
// only reads; nothing here changes a booking.
package verify

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"stayvia/backend"
	"stayvia/models"
)

var ErrRefMissing = errors.New("transaction id missing")

const (
	MsgRefMissing = "Transaction ID missing in URL."
	msgNotFound   = "Booking not found."
	msgFailed     = "Failed to verify booking."
)

// Ref identifies the booking to look up. Key is "tx" or "booking".
type Ref struct {
	Key   string
	Value string
}

// ParseRef prefers the transaction id and falls back to the booking id.
func ParseRef(q url.Values) (Ref, error) {
	if tx := strings.TrimSpace(q.Get("tx")); tx != "" {
		return Ref{Key: "tx", Value: tx}, nil
	}
	if id := strings.TrimSpace(q.Get("booking")); id != "" {
		return Ref{Key: "booking", Value: id}, nil
	}
	return Ref{}, ErrRefMissing
}

type ErrorKind string

const (
	NotFound ErrorKind = "not_found"
	Failed   ErrorKind = "failed"
)

// Error is a failed lookup with the message to show.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return "verify booking: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Booker interface {
	VerifyBooking(ctx context.Context, key, value string) (models.Booking, error)
}

// Lookup fetches the booking named by ref.
func Lookup(ctx context.Context, b Booker, ref Ref) (models.Booking, error) {
	if ref.Value == "" {
		return models.Booking{}, ErrRefMissing
	}
	found, err := b.VerifyBooking(ctx, ref.Key, ref.Value)
	if err == nil {
		return found, nil
	}
	msg := backend.MessageOf(err)
	if backend.KindOf(err) == backend.KindNotFound {
		if msg == "" {
			msg = msgNotFound
		}
		return models.Booking{}, &Error{Kind: NotFound, Message: msg, Err: err}
	}
	if msg == "" {
		msg = msgFailed
	}
	return models.Booking{}, &Error{Kind: Failed, Message: msg, Err: err}
}
