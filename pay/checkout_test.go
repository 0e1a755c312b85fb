package pay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayvia/backend"
	"stayvia/booking"
	"stayvia/models"
)

func stayDraft() booking.Draft {
	return booking.Draft{
		Kind:      models.KindPlace,
		ItemID:    "p1",
		ItemTitle: "Lake House",
		UnitPrice: 2000,
		Schedule: booking.Stay{
			CheckIn:  models.Date{Year: 2026, Month: time.June, Day: 10},
			CheckOut: models.Date{Year: 2026, Month: time.June, Day: 13},
		},
		Guests:        2,
		Name:          "  Asha ",
		Phone:         " 9876543210",
		PaymentMethod: models.PaymentMethodTestGateway,
	}
}

type fakeCommitter struct {
	mu       sync.Mutex
	calls    int
	payloads []models.CommitPayload
	keys     []string
	fn       func(ctx context.Context) (models.Booking, error)
}

func (f *fakeCommitter) CreateBooking(ctx context.Context, p models.CommitPayload, key string) (models.Booking, error) {
	f.mu.Lock()
	f.calls++
	f.payloads = append(f.payloads, p)
	f.keys = append(f.keys, key)
	fn := f.fn
	f.mu.Unlock()
	if fn == nil {
		return models.Booking{ID: "b1", TransactionID: "TXN-1", Status: models.StatusConfirmed}, nil
	}
	return fn(ctx)
}

func (f *fakeCommitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestConfirmSuccess(t *testing.T) {
	fc := &fakeCommitter{}
	co := NewCheckout(stayDraft(), fc, Options{IdempotencyKey: "d1"})
	assert.Equal(t, Snapshot{State: AwaitingPayment}, co.Snapshot())

	conf, err := co.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b1", conf.BookingID)
	assert.Equal(t, "TXN-1", conf.TransactionID)

	snap := co.Snapshot()
	assert.Equal(t, Confirmed, snap.State)
	assert.False(t, snap.Busy)
	require.NotNil(t, snap.Confirmation)

	require.Equal(t, 1, fc.Calls())
	p := fc.payloads[0]
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, "9876543210", p.Phone)
	assert.Equal(t, models.Money(6000), p.Price)
	assert.Equal(t, models.Money(300), p.ServiceFee)
	assert.Equal(t, models.Money(6300), p.TotalAmount)
	assert.Nil(t, p.Date)
	assert.Equal(t, "d1", fc.keys[0])

	_, err = co.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, 1, fc.Calls())
}

func TestConfirmLocalErrorsMakeNoCalls(t *testing.T) {
	noCheckOut := stayDraft()
	noCheckOut.Schedule = booking.Stay{CheckIn: models.Date{Year: 2026, Month: time.June, Day: 10}}

	noDate := stayDraft()
	noDate.Kind = models.KindExperience
	noDate.Schedule = booking.Slot{}

	blankName := stayDraft()
	blankName.Name = "   "

	noGuests := stayDraft()
	noGuests.Guests = 0

	for name, d := range map[string]booking.Draft{
		"missing check-out": noCheckOut,
		"missing date":      noDate,
		"blank name":        blankName,
		"no guests":         noGuests,
	} {
		t.Run(name, func(t *testing.T) {
			fc := &fakeCommitter{}
			co := NewCheckout(d, fc, Options{})
			_, err := co.Confirm(context.Background())
			var local *LocalError
			require.ErrorAs(t, err, &local)
			assert.Zero(t, fc.Calls())
			assert.Equal(t, AwaitingPayment, co.Snapshot().State)
		})
	}
}

func TestConfirmTimeoutReturnsToAwaitingPayment(t *testing.T) {
	fc := &fakeCommitter{fn: func(ctx context.Context) (models.Booking, error) {
		<-ctx.Done()
		return models.Booking{}, &backend.Error{Op: "create booking", Kind: backend.KindNetwork, Err: ctx.Err()}
	}}
	co := NewCheckout(stayDraft(), fc, Options{Timeout: 30 * time.Millisecond})

	_, err := co.Confirm(context.Background())
	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CommitNetwork, ce.Kind)
	assert.True(t, ce.Timeout)

	snap := co.Snapshot()
	assert.Equal(t, AwaitingPayment, snap.State)
	assert.False(t, snap.Busy)
	assert.Equal(t, ce, snap.LastError)
}

func TestConfirmErrorKindsAndRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    CommitKind
		message string
	}{
		{"network", &backend.Error{Kind: backend.KindNetwork, Err: errors.New("connection refused")}, CommitNetwork, msgNetwork},
		{"server message verbatim", &backend.Error{Kind: backend.KindServer, Status: 400, Message: "Dates unavailable"}, CommitServer, "Dates unavailable"},
		{"server without message", &backend.Error{Kind: backend.KindServer, Status: 500}, CommitGeneric, msgGeneric},
		{"unauthorized", &backend.Error{Kind: backend.KindUnauthorized, Status: 401}, CommitAuth, msgAuth},
		{"unknown", errors.New("boom"), CommitGeneric, msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := true
			fc := &fakeCommitter{}
			fc.fn = func(context.Context) (models.Booking, error) {
				if fail {
					return models.Booking{}, tt.err
				}
				return models.Booking{ID: "b1", TransactionID: "TXN-1"}, nil
			}
			co := NewCheckout(stayDraft(), fc, Options{})

			_, err := co.Confirm(context.Background())
			var ce *CommitError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.message, ce.Message)
			assert.Equal(t, AwaitingPayment, co.Snapshot().State)

			fail = false
			_, err = co.Confirm(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Confirmed, co.Snapshot().State)
			assert.Equal(t, 2, fc.Calls())
		})
	}
}

func TestConfirmMissingIDsIsFailure(t *testing.T) {
	fc := &fakeCommitter{fn: func(context.Context) (models.Booking, error) {
		return models.Booking{ID: "b1"}, nil
	}}
	co := NewCheckout(stayDraft(), fc, Options{})
	_, err := co.Confirm(context.Background())
	var ce *CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CommitGeneric, ce.Kind)
	assert.Equal(t, AwaitingPayment, co.Snapshot().State)
}

func TestConcurrentConfirmCommitsOnce(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	fc := &fakeCommitter{fn: func(context.Context) (models.Booking, error) {
		once.Do(func() { close(started) })
		<-release
		return models.Booking{ID: "b1", TransactionID: "TXN-1"}, nil
	}}
	co := NewCheckout(stayDraft(), fc, Options{})

	var firstErr atomic.Value
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := co.Confirm(context.Background()); err != nil {
			firstErr.Store(err)
		}
	}()

	<-started
	snap := co.Snapshot()
	assert.Equal(t, Processing, snap.State)
	assert.True(t, snap.Busy)

	_, err := co.Confirm(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)

	close(release)
	<-done
	assert.Nil(t, firstErr.Load())
	assert.Equal(t, Confirmed, co.Snapshot().State)
	assert.Equal(t, 1, fc.Calls())
}

func TestSummaryRecomputesFee(t *testing.T) {
	d := stayDraft()
	d.Kind = models.KindExperience
	d.UnitPrice = 500
	d.Guests = 4
	d.Schedule = booking.Slot{Date: models.Date{Year: 2026, Month: time.June, Day: 10}}

	q := NewCheckout(d, &fakeCommitter{}, Options{}).Summary()
	assert.Equal(t, models.Money(2000), q.Subtotal)
	assert.Equal(t, models.Money(100), q.ServiceFee)
	assert.Equal(t, models.Money(2100), q.GrandTotal)
}

func TestLocalLocker(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Acquire(ctx, "k", time.Second)
	assert.False(t, ok)
	held, _ := l.Held(ctx, "k")
	assert.True(t, held)

	now = now.Add(2 * time.Second)
	held, _ = l.Held(ctx, "k")
	assert.False(t, held)
	ok, _ = l.Acquire(ctx, "k", time.Second)
	assert.True(t, ok)

	require.NoError(t, l.Release(ctx, "k"))
	held, _ = l.Held(ctx, "k")
	assert.False(t, held)
}
