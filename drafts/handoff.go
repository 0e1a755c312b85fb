package drafts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayvia/booking"
	"stayvia/utils"
)

// ErrDraftMissing means the payment step was reached without a usable
// draft: the token is bad, expired, issued to someone else, or the draft
// is gone.
var ErrDraftMissing = errors.New("checkout draft is missing or expired")

// Handoff moves a draft from the booking widget to the payment step. The
// draft id doubles as the commit idempotency key, so Stash always makes a
// new one.
type Handoff struct {
	store  Store
	tokens *Tokens
	ttl    time.Duration
	now    func() time.Time
}

func NewHandoff(store Store, tokens *Tokens, ttl time.Duration) *Handoff {
	return &Handoff{store: store, tokens: tokens, ttl: ttl, now: time.Now}
}

// Stash stores d for ownerID and returns the token that reaches it.
func (h *Handoff) Stash(ctx context.Context, ownerID string, d booking.Draft) (string, time.Time, error) {
	rec := Record{
		ID:        utils.GetUUID(),
		OwnerID:   ownerID,
		Draft:     d,
		ExpiresAt: h.now().Add(h.ttl),
	}
	if err := h.store.Put(ctx, rec); err != nil {
		return "", time.Time{}, err
	}
	token, err := h.tokens.Issue(rec.ID, ownerID, rec.ExpiresAt)
	if err != nil {
		_ = h.store.Delete(ctx, rec.ID)
		return "", time.Time{}, err
	}
	utils.Log(ctx).WithField("draft", rec.ID).Debug("checkout draft stashed")
	return token, rec.ExpiresAt, nil
}

// Claim resolves token for ownerID. It does not consume the draft; a
// failed payment must be retryable with the same draft.
func (h *Handoff) Claim(ctx context.Context, ownerID, token string) (Record, error) {
	id, err := h.tokens.Parse(token, ownerID)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrDraftMissing, err)
	}
	rec, err := h.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrDraftMissing
	}
	if err != nil {
		return Record{}, err
	}
	if rec.OwnerID != ownerID {
		return Record{}, ErrDraftMissing
	}
	return rec, nil
}

// Discard removes a draft once its booking is confirmed.
func (h *Handoff) Discard(ctx context.Context, id string) error {
	if err := h.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("discard draft %s: %w", id, err)
	}
	return nil
}
