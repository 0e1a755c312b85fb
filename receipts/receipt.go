// Package receipts renders the artifacts of a confirmed booking: the
// verification link and its QR code, a PDF receipt, share text, and email
// delivery.
package receipts

import (
	"fmt"
	"net/url"
	"strings"

	"stayvia/models"
)

// Receipt is a confirmed booking plus who paid for it.
type Receipt struct {
	Booking    models.Booking
	PayerName  string
	PayerEmail string
	VerifyURL  string
}

// New builds a receipt. payer may be nil for a receipt opened without a
// session; the booking's contact name is used then.
func New(b models.Booking, payer *models.Profile, publicURL string) Receipt {
	rec := Receipt{
		Booking:   b,
		PayerName: b.Name,
		VerifyURL: VerifyURL(publicURL, b.TransactionID),
	}
	if payer != nil {
		if payer.Name != "" {
			rec.PayerName = payer.Name
		}
		rec.PayerEmail = payer.Email
	}
	return rec
}

// VerifyURL is the public page that confirms a booking by transaction id.
func VerifyURL(publicBase, tx string) string {
	return strings.TrimRight(publicBase, "/") + "/verify?tx=" + url.QueryEscape(tx)
}

func ShareText(r Receipt) string {
	return fmt.Sprintf("Booking %s · %s · %s", r.Booking.ID, r.Booking.ItemTitle, r.Booking.TotalAmount)
}

func (r Receipt) Subtotal() models.Money {
	return r.Booking.Price
}
