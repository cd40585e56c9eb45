package match

import "fmt"

// Side identifies one of the two sides in a match.
//
// Valid scoring sides are Side1 and Side2. SideNone is the zero value and
// marks "no side" slots such as an undecided winner.
type Side int

const (
	// SideNone means no side (undecided winner, no scorer).
	SideNone Side = 0
	// Side1 is the first side.
	Side1 Side = 1
	// Side2 is the second side.
	Side2 Side = 2
)

// Valid reports whether the side is one of the two scoring sides.
func (s Side) Valid() bool {
	return s == Side1 || s == Side2
}

// Other returns the opposing side.
// Panics if called on SideNone - callers must validate first.
func (s Side) Other() Side {
	switch s {
	case Side1:
		return Side2
	case Side2:
		return Side1
	default:
		panic(fmt.Sprintf("match: Other() on invalid side %d", int(s)))
	}
}

// String returns "1", "2", or "none".
func (s Side) String() string {
	switch s {
	case Side1:
		return "1"
	case Side2:
		return "2"
	default:
		return "none"
	}
}

// ParseSide converts external input ("1" or "2") into a Side.
func ParseSide(raw string) (Side, error) {
	switch raw {
	case "1":
		return Side1, nil
	case "2":
		return Side2, nil
	default:
		return SideNone, fmt.Errorf("invalid side %q: must be 1 or 2", raw)
	}
}
