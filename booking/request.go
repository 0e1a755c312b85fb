package booking

import (
	"time"

	"stayvia/models"
)

// Request is the widget state as posted by the browser. Price and guest
// bounds keep the subtotal well inside int64.
type Request struct {
	ItemID         string       `json:"itemId" validate:"required"`
	ItemTitle      string       `json:"itemTitle"`
	Type           string       `json:"type" validate:"required,oneof=place experience service"`
	Price          models.Money `json:"price" validate:"gte=0,lte=10000000"`
	CheckIn        models.Date  `json:"checkIn"`
	CheckOut       models.Date  `json:"checkOut"`
	Date           models.Date  `json:"date"`
	NumberOfGuests *int         `json:"numberOfGuests" validate:"omitempty,lte=100"`
	Name           string       `json:"name"`
	Phone          string       `json:"phone"`
}

// Item is the listing the request refers to, as the listing page saw it.
func (r Request) Item() (models.Item, error) {
	kind, err := models.ParseItemKind(r.Type)
	if err != nil {
		return models.Item{}, err
	}
	return models.Item{ID: r.ItemID, Title: r.ItemTitle, Kind: kind, Price: r.Price}, nil
}

// FromRequest rebuilds a widget from a posted form. Values are loaded as
// the final picker state, without the per-pick checks, so that Submit
// reports problems in its usual order. A missing guest count means one; an
// explicit zero is kept for Submit to reject.
func FromRequest(item models.Item, r Request, now func() time.Time) *Widget {
	w := NewWidget(item, now)
	if item.Kind.Nightly() {
		w.checkIn, w.checkOut = r.CheckIn, r.CheckOut
	} else {
		w.date = r.Date
	}
	if r.NumberOfGuests != nil {
		w.guests = *r.NumberOfGuests
	}
	w.name, w.phone = r.Name, r.Phone
	return w
}
