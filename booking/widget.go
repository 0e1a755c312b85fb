package booking

import (
	"strings"
	"time"

	"stayvia/models"
)

// Widget holds the booking form state for one item. It mirrors what a user
// can pick on the listing page: dates, guests and contact details.
type Widget struct {
	item models.Item
	now  func() time.Time

	checkIn  models.Date
	checkOut models.Date
	date     models.Date
	guests   int
	name     string
	phone    string
}

// NewWidget starts an empty form with one guest. now supplies the current
// time in the zone whose calendar decides what "today" is.
func NewWidget(item models.Item, now func() time.Time) *Widget {
	if now == nil {
		now = time.Now
	}
	return &Widget{item: item, now: now, guests: 1}
}

func (w *Widget) Item() models.Item         { return w.item }
func (w *Widget) CheckIn() models.Date      { return w.checkIn }
func (w *Widget) CheckOut() models.Date     { return w.checkOut }
func (w *Widget) Date() models.Date         { return w.date }
func (w *Widget) Guests() int               { return w.guests }
func (w *Widget) Contact() (string, string) { return w.name, w.phone }

// Today is the earliest selectable day.
func (w *Widget) Today() models.Date {
	return models.DateOf(w.now())
}

// Prefill copies the signed-in user's name into an empty name field.
func (w *Widget) Prefill(p *models.Profile) {
	if p != nil && w.name == "" {
		w.name = p.Name
	}
}

// SetCheckIn selects the check-in day. A check-out on or before the new
// check-in is cleared rather than left inconsistent. The zero date clears
// the selection.
func (w *Widget) SetCheckIn(d models.Date) error {
	if err := w.pick(d, true); err != nil {
		return err
	}
	w.checkIn = d
	if !d.IsZero() && !w.checkOut.IsZero() && !d.Before(w.checkOut) {
		w.checkOut = models.Date{}
	}
	return nil
}

func (w *Widget) SetCheckOut(d models.Date) error {
	if err := w.pick(d, true); err != nil {
		return err
	}
	w.checkOut = d
	return nil
}

// SetDate selects the single day of an experience or service.
func (w *Widget) SetDate(d models.Date) error {
	if err := w.pick(d, false); err != nil {
		return err
	}
	w.date = d
	return nil
}

func (w *Widget) SetGuests(n int) error {
	if n < 1 {
		return invalid(KindGuests, "At least one guest is required.")
	}
	w.guests = n
	return nil
}

func (w *Widget) SetContact(name, phone string) {
	w.name, w.phone = name, phone
}

func (w *Widget) pick(d models.Date, nightly bool) error {
	if w.item.Kind.Nightly() != nightly {
		if nightly {
			return invalid(KindWrongSchedule, "This booking uses a single date.")
		}
		return invalid(KindWrongSchedule, "This booking uses check-in and check-out dates.")
	}
	if !d.IsZero() && d.Before(w.Today()) {
		return invalid(KindDatePast, "Dates in the past cannot be booked.")
	}
	return nil
}

// Quote is the live price for the current selection. Places quote nothing
// until a valid date range is chosen.
func (w *Widget) Quote() Quote {
	if w.item.Kind.Nightly() {
		if Nights(w.checkIn, w.checkOut) <= 0 {
			return Quote{UnitPrice: w.item.Price}
		}
		return PriceStay(w.item.Price, w.checkIn, w.checkOut)
	}
	if w.guests < 1 {
		return Quote{UnitPrice: w.item.Price}
	}
	return PriceSlot(w.item.Price, w.guests)
}

// Submit validates the form in a fixed order and stops at the first
// failure, so exactly one error is reported at a time:
// identity, date completeness, date order, past dates, contact, guests.
func (w *Widget) Submit(identity *models.Profile) (Draft, error) {
	if identity == nil || identity.ID == "" {
		return Draft{}, AuthRequired()
	}

	var sched Schedule
	today := w.Today()
	if w.item.Kind.Nightly() {
		if w.checkIn.IsZero() || w.checkOut.IsZero() {
			return Draft{}, invalid(KindDatesMissing, "Please select check-in and check-out dates.")
		}
		if !w.checkOut.After(w.checkIn) {
			return Draft{}, invalid(KindDatesOrder, "Check-out must be after check-in.")
		}
		if w.checkIn.Before(today) {
			return Draft{}, invalid(KindDatePast, "Dates in the past cannot be booked.")
		}
		sched = Stay{CheckIn: w.checkIn, CheckOut: w.checkOut}
	} else {
		if w.date.IsZero() {
			return Draft{}, invalid(KindDatesMissing, "Please select a date.")
		}
		if w.date.Before(today) {
			return Draft{}, invalid(KindDatePast, "Dates in the past cannot be booked.")
		}
		sched = Slot{Date: w.date}
	}

	name, phone := strings.TrimSpace(w.name), strings.TrimSpace(w.phone)
	if name == "" || phone == "" {
		return Draft{}, invalid(KindContactMissing, "Please fill in all details.")
	}
	if w.guests < 1 {
		return Draft{}, invalid(KindGuests, "At least one guest is required.")
	}

	return Draft{
		Kind:          w.item.Kind,
		ItemID:        w.item.ID,
		ItemTitle:     w.item.Title,
		UnitPrice:     w.item.Price,
		Schedule:      sched,
		Guests:        w.guests,
		Name:          name,
		Phone:         phone,
		PaymentMethod: models.PaymentMethodTestGateway,
	}, nil
}
