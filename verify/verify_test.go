package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayvia/backend"
	"stayvia/models"
)

var stay = models.Booking{
	ID:             "b1",
	TransactionID:  "TXN-1",
	Status:         models.StatusConfirmed,
	Type:           models.KindPlace,
	ItemTitle:      "Lake House",
	CheckIn:        models.Date{Year: 2026, Month: time.June, Day: 10},
	CheckOut:       models.Date{Year: 2026, Month: time.June, Day: 13},
	NumberOfGuests: 2,
	Price:          6000,
	ServiceFee:     300,
	TotalAmount:    6300,
}

type countingBooker struct {
	calls atomic.Int32
	b     models.Booking
	err   error
}

func (c *countingBooker) VerifyBooking(_ context.Context, _, _ string) (models.Booking, error) {
	c.calls.Add(1)
	return c.b, c.err
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Ref
		err   error
	}{
		{"tx", "tx=T1", Ref{Key: "tx", Value: "T1"}, nil},
		{"booking", "booking=b1", Ref{Key: "booking", Value: "b1"}, nil},
		{"tx wins", "booking=b1&tx=T1", Ref{Key: "tx", Value: "T1"}, nil},
		{"blank tx falls back", "tx=%20&booking=b1", Ref{Key: "booking", Value: "b1"}, nil},
		{"missing", "", Ref{}, ErrRefMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := ParseRef(q)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupWithoutRefMakesNoCalls(t *testing.T) {
	b := &countingBooker{b: stay}
	_, err := Lookup(context.Background(), b, Ref{})
	assert.ErrorIs(t, err, ErrRefMissing)
	assert.Zero(t, b.calls.Load())
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{"not found default", &backend.Error{Kind: backend.KindNotFound}, NotFound, "Booking not found."},
		{"not found server text", &backend.Error{Kind: backend.KindNotFound, Message: "No such transaction"}, NotFound, "No such transaction"},
		{"network", &backend.Error{Kind: backend.KindNetwork}, Failed, "Failed to verify booking."},
		{"server text", &backend.Error{Kind: backend.KindServer, Status: 500, Message: "db down"}, Failed, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(context.Background(), &countingBooker{err: tt.err}, Ref{Key: "tx", Value: "T1"})
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestRepeatedLookupRendersSameView(t *testing.T) {
	b := &countingBooker{b: stay}
	ref := Ref{Key: "tx", Value: "TXN-1"}

	first, err := Lookup(context.Background(), b, ref)
	require.NoError(t, err)
	second, err := Lookup(context.Background(), b, ref)
	require.NoError(t, err)

	assert.Equal(t, View(first, "https://stay.example"), View(second, "https://stay.example"))
	assert.EqualValues(t, 2, b.calls.Load())
}

func TestView(t *testing.T) {
	v := View(stay, "https://stay.example")
	assert.Equal(t, "10 Jun 2026", v.CheckIn)
	assert.Equal(t, "13 Jun 2026", v.CheckOut)
	assert.Empty(t, v.Date)
	assert.Equal(t, "₹6,300", v.Total)
	assert.Equal(t, "https://stay.example/verify?tx=TXN-1", v.VerifyURL)

	slot := stay
	slot.Type = models.KindExperience
	slot.Date = models.Date{Year: 2026, Month: time.July, Day: 1}
	v = View(slot, "https://stay.example")
	assert.Equal(t, "01 Jul 2026", v.Date)
	assert.Empty(t, v.CheckIn)
}

func TestVerifyHandler(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("tx") {
		case "TXN-1":
			json.NewEncoder(w).Encode(models.BookingEnvelope{Booking: &stay})
		case "gone":
			w.Write([]byte(`{"success":false,"error":"Booking not found for this transaction"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	c, err := backend.NewClient(srv.URL, 2*time.Second)
	require.NoError(t, err)
	h := NewHandlers(c, "https://stay.example")

	get := func(q string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Verify(rec, httptest.NewRequest(http.MethodGet, "/api/verify?"+q, nil), nil)
		return rec
	}

	rec := get("")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ref_missing")
	assert.Zero(t, calls.Load())

	rec = get("tx=TXN-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view"`)

	rec = get("tx=gone")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Booking not found for this transaction")

	rec = get("tx=boom")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to verify booking.")
}
