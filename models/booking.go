package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

// PaymentMethodTestGateway is the only payment method; the gateway is a stub.
const PaymentMethodTestGateway = "Test Gateway"

// Booking is the backend's authoritative record. stayvia only reads it.
type Booking struct {
	ID                string        `json:"_id"`
	TransactionID     string        `json:"transactionId"`
	Status            BookingStatus `json:"status"`
	Type              ItemKind      `json:"type"`
	ItemID            string        `json:"itemId"`
	ItemTitle         string        `json:"itemTitle"`
	CheckIn           Date          `json:"checkIn"`
	CheckOut          Date          `json:"checkOut"`
	Date              Date          `json:"date"`
	NumberOfGuests    int           `json:"numberOfGuests"`
	Name              string        `json:"name"`
	Phone             string        `json:"phone"`
	PaymentMethod     string        `json:"paymentMethod"`
	Price             Money         `json:"price"`
	ServiceFee        Money         `json:"serviceFee"`
	TotalAmount       Money         `json:"totalAmount"`
	CreatedAt         time.Time     `json:"createdAt"`
	RefundRequested   bool          `json:"refundRequested"`
	RefundRequestedAt *time.Time    `json:"refundRequestedAt,omitempty"`
	ReviewSubmitted   bool          `json:"reviewSubmitted"`
}

// CanReview mirrors the bookings page rule: the stay is over, the booking
// was not canceled and no review exists yet.
func (b Booking) CanReview(now time.Time) bool {
	end := b.CheckOut
	if end.IsZero() {
		end = b.Date
	}
	if end.IsZero() {
		return false
	}
	return end.Before(DateOf(now)) && b.Status != StatusCanceled && !b.ReviewSubmitted
}

// CommitPayload is the body of POST /bookings. Exactly one of the stay
// dates pair or Date is set, depending on Type.
type CommitPayload struct {
	Type           ItemKind `json:"type"`
	ItemID         string   `json:"itemId"`
	ItemTitle      string   `json:"itemTitle,omitempty"`
	CheckIn        *Date    `json:"checkIn,omitempty"`
	CheckOut       *Date    `json:"checkOut,omitempty"`
	Date           *Date    `json:"date,omitempty"`
	NumberOfGuests int      `json:"numberOfGuests"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	PaymentMethod  string   `json:"paymentMethod"`
	Price          Money    `json:"price"`
	ServiceFee     Money    `json:"serviceFee"`
	TotalAmount    Money    `json:"totalAmount"`
}

// BookingEnvelope is the backend response for create and verify. Older
// backend revisions return bookingId/transactionId at the top level.
type BookingEnvelope struct {
	Success       *bool    `json:"success,omitempty"`
	Booking       *Booking `json:"booking,omitempty"`
	BookingID     string   `json:"bookingId,omitempty"`
	TransactionID string   `json:"transactionId,omitempty"`
	Error         string   `json:"error,omitempty"`
	Message       string   `json:"message,omitempty"`
}

type BookingsEnvelope struct {
	Bookings []Booking `json:"bookings"`
}

type ReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"max=2000"`
}
