package drafts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayvia/booking"
	"stayvia/db"
	"stayvia/models"
	"stayvia/rdx"
)

var secret = []byte("test-secret")

func sampleDraft() booking.Draft {
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
		Name:          "Asha",
		Phone:         "9876543210",
		PaymentMethod: models.PaymentMethodTestGateway,
	}
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryStoreHidesExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = clock(now)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Record{ID: "a", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, s.Put(ctx, Record{ID: "b", ExpiresAt: now}))

	_, err := s.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = s.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1, s.Sweep(now))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Sweep(now.Add(time.Hour)))
	assert.Equal(t, 0, s.Len())
}

func TestTokensRoundTrip(t *testing.T) {
	tk := NewTokens(secret)
	tok, err := tk.Issue("d1", "u1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	id, err := tk.Parse(tok, "u1")
	require.NoError(t, err)
	assert.Equal(t, "d1", id)
}

func TestTokensRejects(t *testing.T) {
	tk := NewTokens(secret)
	tok, err := tk.Issue("d1", "u1", time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, err = tk.Parse(tok, "u2")
	assert.ErrorIs(t, err, ErrForeignToken)

	_, err = NewTokens([]byte("other")).Parse(tok, "u1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tk.Parse("not-a-token", "u1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := tk.Issue("d2", "u1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = tk.Parse(expired, "u1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHandoffStashClaimDiscard(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h := NewHandoff(store, NewTokens(secret), 15*time.Minute)

	tok, expires, err := h.Stash(ctx, "u1", sampleDraft())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, 5*time.Second)

	rec, err := h.Claim(ctx, "u1", tok)
	require.NoError(t, err)
	assert.Equal(t, sampleDraft(), rec.Draft)
	assert.Equal(t, models.Money(6300), rec.Draft.Quote().GrandTotal)

	// claiming twice is allowed until the draft is discarded
	again, err := h.Claim(ctx, "u1", tok)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)

	_, err = h.Claim(ctx, "u2", tok)
	assert.ErrorIs(t, err, ErrDraftMissing)

	require.NoError(t, h.Discard(ctx, rec.ID))
	_, err = h.Claim(ctx, "u1", tok)
	assert.ErrorIs(t, err, ErrDraftMissing)
}

func TestHandoffIssuesFreshIDs(t *testing.T) {
	ctx := context.Background()
	h := NewHandoff(NewMemoryStore(), NewTokens(secret), time.Minute)

	t1, _, err := h.Stash(ctx, "u1", sampleDraft())
	require.NoError(t, err)
	t2, _, err := h.Stash(ctx, "u1", sampleDraft())
	require.NoError(t, err)

	r1, err := h.Claim(ctx, "u1", t1)
	require.NoError(t, err)
	r2, err := h.Claim(ctx, "u1", t2)
	require.NoError(t, err)
	assert.NotEqual(t, r1.ID, r2.ID)
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	rec := Record{
		ID:        "it-" + time.Now().Format("150405.000000"),
		OwnerID:   "u1",
		Draft:     sampleDraft(),
		ExpiresAt: time.Now().Add(time.Minute).Truncate(time.Millisecond),
	}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Draft, got.Draft)
	assert.Equal(t, rec.OwnerID, got.OwnerID)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	require.NoError(t, rdx.Init(context.Background(), addr, ""))
	t.Cleanup(func() { _ = rdx.Close() })
	exerciseStore(t, NewRedisStore())
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	require.NoError(t, db.Init(ctx, uri, "stayvia_test"))
	t.Cleanup(func() { _ = db.Close(ctx) })

	s := NewMongoStore(db.DraftsCollection)
	require.NoError(t, s.EnsureIndexes(ctx))
	exerciseStore(t, s)
}
