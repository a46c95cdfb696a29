// internal/money/money.go
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents. The POS backend serializes amounts as
// two-decimal strings ("99.50"), so Amount converts on the JSON boundary and
// keeps integer arithmetic everywhere else.
type Amount int64

// FromCents builds an Amount from a raw cent count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Mul multiplies the amount by an integer quantity.
func (a Amount) Mul(quantity int) Amount {
	return Amount(int64(a) * int64(quantity))
}

// String formats the amount as a two-decimal string.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Parse converts a decimal string such as "99.50" or "40" into an Amount.
// At most two fractional digits are accepted; the backend never emits more.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
		frac = s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	fracPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	cents := wholePart*100 + fracPart
	if negative {
		cents = -cents
	}
	return Amount(cents), nil
}

// MarshalJSON emits the backend's decimal-string representation.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both decimal strings ("99.50") and bare JSON numbers,
// since not every backend endpoint quotes amounts consistently.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
