package pay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stayvia/booking"
	"stayvia/metrics"
	"stayvia/models"
	"stayvia/utils"
)

// DefaultCommitTimeout bounds the booking commit call.
const DefaultCommitTimeout = 10 * time.Second

type State string

const (
	AwaitingPayment State = "awaiting_payment"
	Processing      State = "processing"
	Confirmed       State = "confirmed"
)

// Committer creates bookings on the backend.
type Committer interface {
	CreateBooking(ctx context.Context, p models.CommitPayload, idempotencyKey string) (models.Booking, error)
}

type Options struct {
	Timeout        time.Duration
	IdempotencyKey string
}

// Confirmation carries the ids the backend issued for a booking.
type Confirmation struct {
	BookingID     string         `json:"bookingId"`
	TransactionID string         `json:"transactionId"`
	Booking       models.Booking `json:"booking"`
}

// Snapshot is what a renderer needs. Busy is true only while a commit is
// outstanding.
type Snapshot struct {
	State        State         `json:"state"`
	Busy         bool          `json:"busy"`
	LastError    error         `json:"-"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// Checkout drives one draft from AwaitingPayment to Confirmed. A failed
// commit returns it to AwaitingPayment and it can be retried any number
// of times. Checkout is safe for concurrent use.
type Checkout struct {
	draft     booking.Draft
	committer Committer
	opts      Options

	mu      sync.Mutex
	state   State
	lastErr error
	conf    *Confirmation
}

func NewCheckout(d booking.Draft, c Committer, opts Options) *Checkout {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCommitTimeout
	}
	return &Checkout{draft: d, committer: c, opts: opts, state: AwaitingPayment}
}

func (c *Checkout) Draft() booking.Draft { return c.draft }

// Summary recomputes the service fee and grand total; stored totals are
// never trusted.
func (c *Checkout) Summary() booking.Quote {
	return Summarize(c.draft)
}

func (c *Checkout) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{State: c.state, Busy: c.state == Processing, LastError: c.lastErr}
	if c.conf != nil {
		conf := *c.conf
		s.Confirmation = &conf
	}
	return s
}

// Confirm commits the draft with exactly one backend request. It refuses
// while another commit is outstanding or once the booking is confirmed.
func (c *Checkout) Confirm(ctx context.Context) (Confirmation, error) {
	c.mu.Lock()
	switch c.state {
	case Processing:
		c.mu.Unlock()
		return Confirmation{}, ErrInFlight
	case Confirmed:
		c.mu.Unlock()
		return Confirmation{}, ErrAlreadyConfirmed
	}
	payload, err := BuildPayload(c.draft)
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		utils.Log(ctx).WithError(err).Debug("checkout draft rejected locally")
		return Confirmation{}, err
	}
	c.lastErr = nil
	c.transition(Processing)
	c.mu.Unlock()

	commitCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	start := time.Now()
	b, err := c.committer.CreateBooking(commitCtx, payload, c.opts.IdempotencyKey)
	cancel()
	if err == nil && (b.ID == "" || b.TransactionID == "") {
		err = &CommitError{Kind: CommitGeneric, Message: msgGeneric}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		var ce *CommitError
		if !errors.As(err, &ce) {
			ce = classify(err)
		}
		metrics.CommitDuration.WithLabelValues(string(ce.Kind)).Observe(time.Since(start).Seconds())
		c.lastErr = ce
		c.transition(AwaitingPayment)
		utils.Log(ctx).WithError(err).WithField("kind", ce.Kind).Warn("booking commit failed")
		return Confirmation{}, ce
	}

	metrics.CommitDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	c.conf = &Confirmation{BookingID: b.ID, TransactionID: b.TransactionID, Booking: b}
	c.transition(Confirmed)
	utils.Log(ctx).WithFields(logrus.Fields{
		"booking":     b.ID,
		"transaction": b.TransactionID,
	}).Info("booking confirmed")
	return *c.conf, nil
}

// transition must be called with mu held.
func (c *Checkout) transition(to State) {
	metrics.CheckoutTransitions.WithLabelValues(string(c.state), string(to)).Inc()
	c.state = to
}
