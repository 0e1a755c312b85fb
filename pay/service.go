package pay

import (
	"context"
	"errors"
	"time"

	"stayvia/backend"
	"stayvia/booking"
	"stayvia/drafts"
	"stayvia/models"
	"stayvia/receipts"
	"stayvia/utils"
)

// lockSlack keeps the lock alive a little past the commit deadline.
const lockSlack = 5 * time.Second

// Service runs checkouts for stashed drafts. Each call builds a fresh
// Checkout; the lock keyed by draft id keeps a second commit out while one
// is outstanding.
type Service struct {
	handoff   *drafts.Handoff
	backend   *backend.Client
	locker    Locker
	timeout   time.Duration
	publicURL string
}

func NewService(h *drafts.Handoff, b *backend.Client, l Locker, timeout time.Duration, publicURL string) *Service {
	if timeout <= 0 {
		timeout = DefaultCommitTimeout
	}
	return &Service{handoff: h, backend: b, locker: l, timeout: timeout, publicURL: publicURL}
}

// View is the AwaitingPayment page.
type View struct {
	State     State         `json:"state"`
	Busy      bool          `json:"busy"`
	Draft     booking.Draft `json:"draft"`
	Summary   booking.Quote `json:"summary"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// Result is the Confirmed page.
type Result struct {
	State         State          `json:"state"`
	BookingID     string         `json:"bookingId"`
	TransactionID string         `json:"transactionId"`
	VerifyURL     string         `json:"verifyUrl"`
	Summary       booking.Quote  `json:"summary"`
	Booking       models.Booking `json:"booking"`
}

func (s *Service) View(ctx context.Context, ownerID, token string) (View, error) {
	rec, err := s.handoff.Claim(ctx, ownerID, token)
	if err != nil {
		return View{}, err
	}
	busy, err := s.locker.Held(ctx, lockKey(rec.ID))
	if err != nil {
		utils.Log(ctx).WithError(err).Warn("checkout lock lookup failed")
	}
	v := View{
		State:     AwaitingPayment,
		Busy:      busy,
		Draft:     rec.Draft,
		Summary:   Summarize(rec.Draft),
		ExpiresAt: rec.ExpiresAt,
	}
	if busy {
		v.State = Processing
	}
	return v, nil
}

// Commit confirms the draft behind token. The draft is discarded only once
// the booking is confirmed, so failed attempts can be retried.
func (s *Service) Commit(ctx context.Context, ownerID, token string, c Committer) (Result, error) {
	rec, err := s.handoff.Claim(ctx, ownerID, token)
	if err != nil {
		return Result{}, err
	}

	key := lockKey(rec.ID)
	ok, err := s.locker.Acquire(ctx, key, s.timeout+lockSlack)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, ErrInFlight
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			utils.Log(ctx).WithError(err).WithField("draft", rec.ID).Warn("release checkout lock")
		}
	}()

	// a commit that held the lock before us may have confirmed and
	// discarded the draft since it was first read
	rec, err = s.handoff.Claim(ctx, ownerID, token)
	if err != nil {
		return Result{}, err
	}

	co := NewCheckout(rec.Draft, c, Options{Timeout: s.timeout, IdempotencyKey: rec.ID})
	conf, err := co.Confirm(ctx)
	if err != nil {
		return Result{}, err
	}

	if err := s.handoff.Discard(context.WithoutCancel(ctx), rec.ID); err != nil && !errors.Is(err, drafts.ErrNotFound) {
		utils.Log(ctx).WithError(err).Warn("confirmed draft not discarded")
	}
	return Result{
		State:         Confirmed,
		BookingID:     conf.BookingID,
		TransactionID: conf.TransactionID,
		VerifyURL:     receipts.VerifyURL(s.publicURL, conf.TransactionID),
		Summary:       co.Summary(),
		Booking:       conf.Booking,
	}, nil
}
