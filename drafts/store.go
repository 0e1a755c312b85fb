// Package drafts keeps checkout drafts between the booking widget and the
// payment step. A draft is reachable only through a signed handoff token
// and expires after a short TTL.
package drafts

import (
	"context"
	"errors"
	"time"

	"stayvia/booking"
)

var ErrNotFound = errors.New("draft not found")

// Record is a stored draft and the user it belongs to.
type Record struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"ownerId"`
	Draft     booking.Draft `json:"draft"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Store persists records until they expire. Get never returns an expired
// record; it returns ErrNotFound instead.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}
