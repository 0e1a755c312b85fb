package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"stayvia/models"
)

// CreateBooking commits a booking. The backend mints both the booking id
// and the transaction id. idempotencyKey is forwarded so that a backend
// which honours it can collapse retries of the same checkout.
func (c *Client) CreateBooking(ctx context.Context, p models.CommitPayload, idempotencyKey string) (models.Booking, error) {
	const op = "create booking"
	raw, err := c.do(ctx, call{
		op:             op,
		method:         http.MethodPost,
		path:           []string{"bookings"},
		body:           p,
		idempotencyKey: idempotencyKey,
	})
	if err != nil {
		return models.Booking{}, err
	}
	return decodeBooking(op, raw, KindServer)
}

// VerifyBooking looks a booking up by transaction id (key "tx") or by
// booking id (key "booking").
func (c *Client) VerifyBooking(ctx context.Context, key, value string) (models.Booking, error) {
	const op = "verify booking"
	raw, err := c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		path:   []string{"bookings", "verify"},
		query:  url.Values{key: {value}},
	})
	if err != nil {
		return models.Booking{}, err
	}
	return decodeBooking(op, raw, KindNotFound)
}

func (c *Client) ListBookings(ctx context.Context) ([]models.Booking, error) {
	const op = "list bookings"
	raw, err := c.do(ctx, call{op: op, method: http.MethodGet, path: []string{"bookings"}})
	if err != nil {
		return nil, err
	}
	var env models.BookingsEnvelope
	if err := decode(op, raw, &env); err != nil {
		return nil, err
	}
	return env.Bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) error {
	const op = "cancel booking"
	raw, err := c.do(ctx, call{op: op, method: http.MethodDelete, path: []string{"bookings", id}})
	if err != nil {
		return err
	}
	return checkEnvelope(op, raw)
}

func (c *Client) SendReceipt(ctx context.Context, email, bookingID string) error {
	const op = "send receipt"
	raw, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   []string{"bookings", "send-receipt"},
		body:   map[string]string{"email": email, "bookingId": bookingID},
	})
	if err != nil {
		return err
	}
	return checkEnvelope(op, raw)
}

func (c *Client) SubmitReview(ctx context.Context, id string, review models.ReviewRequest) error {
	const op = "submit review"
	raw, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		path:   []string{"bookings", id, "review"},
		body:   review,
	})
	if err != nil {
		return err
	}
	return checkEnvelope(op, raw)
}

// decodeBooking reads either the {success, booking} envelope, the older
// top-level {bookingId, transactionId} shape, or a bare booking document.
// An envelope with success=false becomes an error of kind failKind.
func decodeBooking(op string, raw []byte, failKind Kind) (models.Booking, error) {
	var env models.BookingEnvelope
	if err := decode(op, raw, &env); err != nil {
		return models.Booking{}, err
	}
	if env.Success != nil && !*env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return models.Booking{}, &Error{Op: op, Kind: failKind, Status: http.StatusOK, Message: msg}
	}

	var b models.Booking
	switch {
	case env.Booking != nil:
		b = *env.Booking
	case env.BookingID != "":
	default:
		if err := json.Unmarshal(raw, &b); err != nil {
			return models.Booking{}, &Error{Op: op, Kind: KindServer, Err: err}
		}
	}
	if b.ID == "" {
		b.ID = env.BookingID
	}
	if b.TransactionID == "" {
		b.TransactionID = env.TransactionID
	}
	if b.ID == "" && b.TransactionID == "" {
		return models.Booking{}, &Error{Op: op, Kind: failKind, Status: http.StatusOK}
	}
	return b, nil
}

// checkEnvelope accepts an empty body or any body without success=false.
func checkEnvelope(op string, raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	var env struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) != nil || env.Success == nil || *env.Success {
		return nil
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	return &Error{Op: op, Kind: KindServer, Status: http.StatusOK, Message: msg}
}
