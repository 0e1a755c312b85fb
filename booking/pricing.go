package booking

import (
	"math"

	"stayvia/models"
)

const (
	// MinServiceFee is the floor applied to every booking's service fee.
	MinServiceFee models.Money = 50
	// ServiceFeeRate is the share of the subtotal charged as service fee.
	ServiceFeeRate = 0.05
)

// Quote is the price breakdown of a booking.
type Quote struct {
	Nights     int          `json:"nights,omitempty"`
	UnitPrice  models.Money `json:"unitPrice"`
	Subtotal   models.Money `json:"subtotal"`
	ServiceFee models.Money `json:"serviceFee"`
	GrandTotal models.Money `json:"grandTotal"`
}

// ServiceFee is max(50, round(subtotal * 5%)).
func ServiceFee(subtotal models.Money) models.Money {
	fee := models.Money(math.Round(float64(subtotal) * ServiceFeeRate))
	if fee < MinServiceFee {
		return MinServiceFee
	}
	return fee
}

// Totals completes a quote from its subtotal.
func Totals(subtotal models.Money) (fee, total models.Money) {
	fee = ServiceFee(subtotal)
	return fee, subtotal + fee
}

// Nights counts whole calendar days between check-in and check-out.
func Nights(checkIn, checkOut models.Date) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	return checkOut.DaysSince(checkIn)
}

// PriceStay prices a place booking: nights x nightly rate.
func PriceStay(unit models.Money, checkIn, checkOut models.Date) Quote {
	nights := Nights(checkIn, checkOut)
	subtotal := models.Money(nights) * unit
	fee, total := Totals(subtotal)
	return Quote{Nights: nights, UnitPrice: unit, Subtotal: subtotal, ServiceFee: fee, GrandTotal: total}
}

// PriceSlot prices an experience or service booking: per-person rate x guests.
func PriceSlot(unit models.Money, guests int) Quote {
	subtotal := unit * models.Money(guests)
	fee, total := Totals(subtotal)
	return Quote{UnitPrice: unit, Subtotal: subtotal, ServiceFee: fee, GrandTotal: total}
}
