package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Money is an amount in whole rupees.
type Money int64

// UnmarshalJSON accepts fractional numbers and rounds them to the nearest
// whole unit, since the backend stores prices as plain JSON numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = Money(math.Round(f))
	return nil
}

// String renders the amount the way receipts show it, e.g. "₹6,300".
func (m Money) String() string {
	return "₹" + m.grouped()
}

// Plain renders the amount without the rupee sign, for outputs whose fonts
// cannot draw it (PDF core fonts).
func (m Money) Plain() string {
	return "INR " + m.grouped()
}

func (m Money) grouped() string {
	n := int64(m)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}
