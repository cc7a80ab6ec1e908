package money

import (
	"errors"
	"fmt"
	"math"
)

// Gateway amounts are always whole-cent, so conversion is a plain *100 with
// rounding only to absorb float representation noise (49.99*100 == 4998.999...).

var ErrInvalidAmount = errors.New("invalid amount")

// AmountMismatchError means the gateway echoed a different amount than the one
// requested. Treated as an integrity incident, never tolerated.
type AmountMismatchError struct {
	Expected int64
	Got      int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("gateway echoed amount %d does not match requested amount %d", e.Got, e.Expected)
}

// ToMinorUnits converts a major-unit decimal amount to integer cents.
// Non-positive amounts are rejected before any network call happens.
func ToMinorUnits(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(amount * 100)), nil
}

// FormatCents converts a display amount to integer cents without the
// positivity rule; shipping, tax and discounts may legitimately be zero.
func FormatCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// AssertAmountMatches compares the echoed "amount" field of a decoded gateway
// response against the requested minor-unit amount. Exact integer equality;
// a missing or non-numeric echo is a mismatch too.
func AssertAmountMatches(expected int64, resp map[string]interface{}) error {
	raw, ok := resp["amount"]
	if !ok {
		return &AmountMismatchError{Expected: expected}
	}
	got, ok := asInt64(raw)
	if !ok || got != expected {
		return &AmountMismatchError{Expected: expected, Got: got}
	}
	return nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
