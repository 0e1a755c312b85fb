package booking

import (
	"encoding/json"
	"fmt"

	"stayvia/models"
)

// Schedule says when a booking takes place. Places use a Stay; experiences
// and services use a Slot.
type Schedule interface {
	schedule()
}

// Stay is a check-in/check-out pair. CheckOut is strictly after CheckIn in
// any Stay that passed validation.
type Stay struct {
	CheckIn  models.Date
	CheckOut models.Date
}

// Slot is the single date of an experience or service.
type Slot struct {
	Date models.Date
}

func (Stay) schedule() {}
func (Slot) schedule() {}

// Draft is a validated booking waiting for payment. It is built by
// Widget.Submit and lives only until the booking is committed.
type Draft struct {
	Kind          models.ItemKind
	ItemID        string
	ItemTitle     string
	UnitPrice     models.Money
	Schedule      Schedule
	Guests        int
	Name          string
	Phone         string
	PaymentMethod string
}

// Quote derives the price from the draft's own fields; it is never stored.
func (d Draft) Quote() Quote {
	switch s := d.Schedule.(type) {
	case Stay:
		return PriceStay(d.UnitPrice, s.CheckIn, s.CheckOut)
	case Slot:
		return PriceSlot(d.UnitPrice, d.Guests)
	}
	return Quote{UnitPrice: d.UnitPrice}
}

func (d Draft) Stay() (Stay, bool) {
	s, ok := d.Schedule.(Stay)
	return s, ok
}

func (d Draft) Slot() (Slot, bool) {
	s, ok := d.Schedule.(Slot)
	return s, ok
}

type draftJSON struct {
	Type           models.ItemKind `json:"type"`
	ItemID         string          `json:"itemId"`
	ItemTitle      string          `json:"itemTitle"`
	UnitPrice      models.Money    `json:"unitPrice"`
	CheckIn        models.Date     `json:"checkIn"`
	CheckOut       models.Date     `json:"checkOut"`
	Date           models.Date     `json:"date"`
	NumberOfGuests int             `json:"numberOfGuests"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	PaymentMethod  string          `json:"paymentMethod"`
	Quote          *Quote          `json:"quote,omitempty"`
}

func (d Draft) MarshalJSON() ([]byte, error) {
	q := d.Quote()
	w := draftJSON{
		Type:           d.Kind,
		ItemID:         d.ItemID,
		ItemTitle:      d.ItemTitle,
		UnitPrice:      d.UnitPrice,
		NumberOfGuests: d.Guests,
		Name:           d.Name,
		Phone:          d.Phone,
		PaymentMethod:  d.PaymentMethod,
		Quote:          &q,
	}
	switch s := d.Schedule.(type) {
	case Stay:
		w.CheckIn, w.CheckOut = s.CheckIn, s.CheckOut
	case Slot:
		w.Date = s.Date
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores a draft; any quote in the input is ignored and
// recomputed on demand.
func (d *Draft) UnmarshalJSON(b []byte) error {
	var w draftJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	kind, err := models.ParseItemKind(string(w.Type))
	if err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}
	*d = Draft{
		Kind:          kind,
		ItemID:        w.ItemID,
		ItemTitle:     w.ItemTitle,
		UnitPrice:     w.UnitPrice,
		Guests:        w.NumberOfGuests,
		Name:          w.Name,
		Phone:         w.Phone,
		PaymentMethod: w.PaymentMethod,
	}
	if kind.Nightly() {
		d.Schedule = Stay{CheckIn: w.CheckIn, CheckOut: w.CheckOut}
	} else {
		d.Schedule = Slot{Date: w.Date}
	}
	return nil
}
