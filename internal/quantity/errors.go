package quantity

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleUnits is returned when two quantities have no
	// conversion path between their units.
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrNotNumeric is returned when arithmetic meets a text quantity.
	ErrNotNumeric = errors.New("quantity is not numeric")
	// ErrDivideByZero is returned by Ratio for a zero denominator.
	ErrDivideByZero = errors.New("division by zero")
)

// IncompatibleUnitsError names the two units that could not be combined.
type IncompatibleUnitsError struct {
	From string
	To   string
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("cannot combine %s with %s", displayUnit(e.From), displayUnit(e.To))
}

// Is makes errors.Is(err, ErrIncompatibleUnits) match.
func (e *IncompatibleUnitsError) Is(target error) bool {
	return target == ErrIncompatibleUnits
}

func displayUnit(u string) string {
	if u == "" {
		return "a unitless amount"
	}
	return fmt.Sprintf("%q", u)
}
