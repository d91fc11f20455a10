package core

import (
	"fmt"
	"strconv"
	"strings"
)

// MonthKey identifies a calendar month. The canonical encoding is the
// zero-padded string "YYYY-MM"; ordering and arithmetic are always done on
// the numeric fields, never on the raw string.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// ParseMonthKey parses a canonical "YYYY-MM" key.
// It returns ErrInvalidMonthKey for anything that is not four digits,
// a dash and a month in 1..12. Atoi would wave through signs and a zero
// year, so the digits are checked explicitly.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	key := MonthKey{Year: year, Month: month}
	if err := key.Validate(); err != nil {
		return MonthKey{}, err
	}
	return key, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String returns the canonical zero-padded form.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

func (k MonthKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year > 0
}

func (k MonthKey) Validate() error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMonthKey, k.String())
	}
	return nil
}

// Compare orders two keys by (year, month). It returns -1, 0 or 1.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.Year != other.Year:
		if k.Year < other.Year {
			return -1
		}
		return 1
	case k.Month != other.Month:
		if k.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (k MonthKey) Before(other MonthKey) bool { return k.Compare(other) < 0 }
func (k MonthKey) After(other MonthKey) bool  { return k.Compare(other) > 0 }

// Prev returns the preceding month, rolling the year back at January.
func (k MonthKey) Prev() MonthKey {
	if k.Month == 1 {
		return MonthKey{Year: k.Year - 1, Month: 12}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Next returns the following month, rolling the year forward at December.
func (k MonthKey) Next() MonthKey {
	if k.Month == 12 {
		return MonthKey{Year: k.Year + 1, Month: 1}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// MonthsElapsed returns the signed number of months from `from` to `to`:
// (to.Year-from.Year)*12 + (to.Month-from.Month). Negative when `to`
// precedes `from`.
func MonthsElapsed(from, to MonthKey) int {
	return (to.Year-from.Year)*12 + (to.Month - from.Month)
}
