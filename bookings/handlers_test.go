package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayvia/backend"
	"stayvia/drafts"
	"stayvia/middleware"
	"stayvia/models"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fixture struct {
	h       *Handlers
	handoff *drafts.Handoff
	calls   *atomic.Int32
}

func newFixture(t *testing.T, verifyPrice bool, backendHandler http.HandlerFunc) fixture {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		backendHandler(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := backend.NewClient(srv.URL, time.Second)
	require.NoError(t, err)

	hand := drafts.NewHandoff(drafts.NewMemoryStore(), drafts.NewTokens([]byte("secret")), time.Minute)
	h := NewHandlers(c, hand, verifyPrice, ist)
	h.now = func() time.Time { return time.Date(2026, 6, 1, 10, 0, 0, 0, ist) }
	return fixture{h: h, handoff: hand, calls: &calls}
}

func do(h httprouter.Handle, method, body string, profile *models.Profile, ps ...httprouter.Param) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if profile != nil {
		req = req.WithContext(middleware.WithProfile(req.Context(), profile))
	}
	rec := httptest.NewRecorder()
	h(rec, req, ps)
	return rec
}

var asha = &models.Profile{ID: "u1", Name: "Asha", Email: "asha@example.com"}

const stayBody = `{"itemId":"p1","itemTitle":"Lake House","type":"place","price":2000,
	"checkIn":"2026-06-10","checkOut":"2026-06-13","numberOfGuests":2,"phone":"9876543210"}`

func TestQuote(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	rec := do(f.h.Quote, http.MethodPost, stayBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Quote struct {
			Nights     int          `json:"nights"`
			Subtotal   models.Money `json:"subtotal"`
			ServiceFee models.Money `json:"serviceFee"`
			GrandTotal models.Money `json:"grandTotal"`
		} `json:"quote"`
		Today string `json:"today"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Quote.Nights)
	assert.Equal(t, models.Money(6000), body.Quote.Subtotal)
	assert.Equal(t, models.Money(300), body.Quote.ServiceFee)
	assert.Equal(t, models.Money(6300), body.Quote.GrandTotal)
	assert.Equal(t, "2026-06-01", body.Today)
	assert.Zero(t, f.calls.Load())
}

func TestCreateDraftRequiresSignIn(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	rec := do(f.h.CreateDraft, http.MethodPost, stayBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirectTo":"/login"`)
}

func TestCreateDraftValidation(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	body := `{"itemId":"p1","type":"place","price":2000,"checkIn":"2026-06-13","checkOut":"2026-06-10","phone":"1"}`
	rec := do(f.h.CreateDraft, http.MethodPost, body, asha)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"dates_order"`)

	rec = do(f.h.CreateDraft, http.MethodPost, `{"type":"place"}`, asha)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDraftRejectsOversizedOrders(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	for _, body := range []string{
		`{"itemId":"e1","type":"experience","price":922337203685477580,"date":"2026-06-20","numberOfGuests":10,"name":"Asha","phone":"1"}`,
		`{"itemId":"e1","type":"experience","price":500,"date":"2026-06-20","numberOfGuests":100000000000,"name":"Asha","phone":"1"}`,
	} {
		rec := do(f.h.CreateDraft, http.MethodPost, body, asha)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Zero(t, f.calls.Load())
}

func TestCreateDraftStashes(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	rec := do(f.h.CreateDraft, http.MethodPost, stayBody, asha)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Token string `json:"token"`
		Draft struct {
			Name string `json:"name"`
		} `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Asha", body.Draft.Name)

	stored, err := f.handoff.Claim(context.Background(), "u1", body.Token)
	require.NoError(t, err)
	assert.Equal(t, models.Money(6300), stored.Draft.Quote().GrandTotal)
	assert.Zero(t, f.calls.Load())
}

func TestCreateDraftUsesListingPrice(t *testing.T) {
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places/p1", r.URL.Path)
		w.Write([]byte(`{"_id":"p1","title":"Lake House","price":2500}`))
	})
	rec := do(f.h.CreateDraft, http.MethodPost, stayBody, asha)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Quote struct {
			GrandTotal models.Money `json:"grandTotal"`
		} `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.Money(7875), body.Quote.GrandTotal)
}

func TestListAnnotatesCanReview(t *testing.T) {
	f := newFixture(t, false, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bookings":[
			{"_id":"old","status":"confirmed","type":"place","checkIn":"2026-05-01","checkOut":"2026-05-03"},
			{"_id":"upcoming","status":"confirmed","type":"place","checkIn":"2026-06-10","checkOut":"2026-06-13"},
			{"_id":"canceled","status":"canceled","type":"place","checkIn":"2026-05-01","checkOut":"2026-05-03"}
		]}`))
	})
	rec := do(f.h.List, http.MethodGet, "", asha)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bookings []struct {
			ID        string `json:"_id"`
			CanReview bool   `json:"canReview"`
		} `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 3)
	assert.True(t, body.Bookings[0].CanReview)
	assert.False(t, body.Bookings[1].CanReview)
	assert.False(t, body.Bookings[2].CanReview)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, false, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/bookings/b1", r.URL.Path)
		w.Write([]byte(`{"success":true}`))
	})
	rec := do(f.h.Cancel, http.MethodDelete, "", asha, httprouter.Param{Key: "id", Value: "b1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "4 to 7 working days")
}

func TestReview(t *testing.T) {
	f := newFixture(t, false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Review already submitted"}`))
	})

	rec := do(f.h.Review, http.MethodPost, `{"rating":6}`, asha, httprouter.Param{Key: "id", Value: "b1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, f.calls.Load())

	rec = do(f.h.Review, http.MethodPost, `{"rating":5,"reviewText":"Lovely"}`, asha, httprouter.Param{Key: "id", Value: "b1"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Review already submitted")
}

func TestMe(t *testing.T) {
	f := newFixture(t, false, func(http.ResponseWriter, *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, do(f.h.Me, http.MethodGet, "", nil).Code)

	rec := do(f.h.Me, http.MethodGet, "", asha)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"_id":"u1"`)
}
