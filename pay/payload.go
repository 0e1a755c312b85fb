package pay

import (
	"strings"

	"stayvia/booking"
	"stayvia/models"
)

// BuildPayload turns a draft into the commit body. It rejects drafts that
// cannot be committed, so a bad draft never costs a round trip.
func BuildPayload(d booking.Draft) (models.CommitPayload, error) {
	if d.ItemID == "" {
		return models.CommitPayload{}, &LocalError{Field: "itemId", Message: "The booking is missing its listing."}
	}
	p := models.CommitPayload{
		Type:           d.Kind,
		ItemID:         d.ItemID,
		ItemTitle:      d.ItemTitle,
		NumberOfGuests: d.Guests,
		Name:           strings.TrimSpace(d.Name),
		Phone:          strings.TrimSpace(d.Phone),
		PaymentMethod:  d.PaymentMethod,
	}

	switch s := d.Schedule.(type) {
	case booking.Stay:
		if !d.Kind.Nightly() {
			return models.CommitPayload{}, &LocalError{Field: "schedule", Message: "Please select a date."}
		}
		if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
			return models.CommitPayload{}, &LocalError{Field: "checkIn", Message: "Please select check-in and check-out dates."}
		}
		if !s.CheckIn.Before(s.CheckOut) {
			return models.CommitPayload{}, &LocalError{Field: "checkOut", Message: "Check-out must be after check-in."}
		}
		in, out := s.CheckIn, s.CheckOut
		p.CheckIn, p.CheckOut = &in, &out
	case booking.Slot:
		if d.Kind.Nightly() {
			return models.CommitPayload{}, &LocalError{Field: "schedule", Message: "Please select check-in and check-out dates."}
		}
		if s.Date.IsZero() {
			return models.CommitPayload{}, &LocalError{Field: "date", Message: "Please select a date."}
		}
		date := s.Date
		p.Date = &date
	default:
		return models.CommitPayload{}, &LocalError{Field: "schedule", Message: "Please select a date."}
	}

	if p.Name == "" || p.Phone == "" {
		return models.CommitPayload{}, &LocalError{Field: "contact", Message: "Please fill in all details."}
	}
	if p.NumberOfGuests < 1 {
		return models.CommitPayload{}, &LocalError{Field: "numberOfGuests", Message: "At least one guest is required."}
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = models.PaymentMethodTestGateway
	}

	sum := Summarize(d)
	p.Price, p.ServiceFee, p.TotalAmount = sum.Subtotal, sum.ServiceFee, sum.GrandTotal
	return p, nil
}

// Summarize recomputes the fee and total from the draft's subtotal.
func Summarize(d booking.Draft) booking.Quote {
	q := d.Quote()
	q.ServiceFee, q.GrandTotal = booking.Totals(q.Subtotal)
	return q
}
