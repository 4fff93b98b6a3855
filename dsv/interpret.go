package dsv

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Typed access parses field text into Go values on top of ValueByName.
// Numeric and boolean parsing ignores surrounding whitespace regardless of
// the TrimSpaces setting, since padding around numbers is not data.

// Int returns the named field parsed as a base-10 integer.
func (row *Row) Int(name string) (int64, error) {
	v, err := row.ValueByName(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, newError("dsv-row-int-1", fmt.Errorf("column %q: %w", name, err))
	}
	return n, nil
}

// Float returns the named field parsed as a float.
func (row *Row) Float(name string) (float64, error) {
	v, err := row.ValueByName(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, newError("dsv-row-float-1", fmt.Errorf("column %q: %w", name, err))
	}
	return f, nil
}

// Bool returns the named field parsed as a boolean. Accepted spellings are
// the ones strconv.ParseBool accepts (1, t, true, 0, f, false, ...).
func (row *Row) Bool(name string) (bool, error) {
	v, err := row.ValueByName(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, newError("dsv-row-bool-1", fmt.Errorf("column %q: %w", name, err))
	}
	return b, nil
}

// Time returns the named field parsed as a time in the given layout.
func (row *Row) Time(name string, layout string) (time.Time, error) {
	v, err := row.ValueByName(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(layout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, newError("dsv-row-time-1", fmt.Errorf("column %q: %w", name, err))
	}
	return t, nil
}
