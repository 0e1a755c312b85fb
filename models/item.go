package models

import "fmt"

// ItemKind selects the date model and price formula of a bookable item.
type ItemKind string

const (
	KindPlace      ItemKind = "place"
	KindExperience ItemKind = "experience"
	KindService    ItemKind = "service"
)

func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(s); k {
	case KindPlace, KindExperience, KindService:
		return k, nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// Nightly reports whether the kind is booked by check-in/check-out nights
// rather than a single date.
func (k ItemKind) Nightly() bool {
	return k == KindPlace
}

// Unit is the label shown next to a unit price.
func (k ItemKind) Unit() string {
	if k.Nightly() {
		return "/ night"
	}
	return "per person"
}

// Item is a listing, experience or service as offered on the listing page.
// Price is the unit price: per night for places, per person otherwise.
type Item struct {
	ID    string   `json:"_id"`
	Title string   `json:"title"`
	Kind  ItemKind `json:"type"`
	Price Money    `json:"price"`
}
