package verify

import (
	"stayvia/models"
	"stayvia/receipts"
)

// BookingView is the read-only verification page.
type BookingView struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	ItemTitle     string `json:"itemTitle"`
	CheckIn       string `json:"checkIn,omitempty"`
	CheckOut      string `json:"checkOut,omitempty"`
	Date          string `json:"date,omitempty"`
	Guests        int    `json:"numberOfGuests"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
	Price         string `json:"price"`
	ServiceFee    string `json:"serviceFee"`
	Total         string `json:"totalAmount"`
	VerifyURL     string `json:"verifyUrl"`
}

func View(b models.Booking, publicURL string) BookingView {
	v := BookingView{
		BookingID:     b.ID,
		TransactionID: b.TransactionID,
		Status:        string(b.Status),
		Type:          string(b.Type),
		ItemTitle:     b.ItemTitle,
		Guests:        b.NumberOfGuests,
		Name:          b.Name,
		Phone:         b.Phone,
		PaymentMethod: b.PaymentMethod,
		Price:         b.Price.String(),
		ServiceFee:    b.ServiceFee.String(),
		Total:         b.TotalAmount.String(),
		VerifyURL:     receipts.VerifyURL(publicURL, b.TransactionID),
	}
	if b.Type.Nightly() {
		v.CheckIn = b.CheckIn.Format(models.DisplayLayout)
		v.CheckOut = b.CheckOut.Format(models.DisplayLayout)
	} else {
		v.Date = b.Date.Format(models.DisplayLayout)
	}
	return v
}
