package formmap

import "math"

// Kind tags the edit primitive chosen for a leaf.
type Kind int

const (
	KindBoolean Kind = iota
	KindNumber
	KindText
	KindScalarList
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindScalarList:
		return "list"
	default:
		return "unknown"
	}
}

// NumberBounds limits what a Number field accepts.
type NumberBounds struct {
	Min      float64
	Max      float64
	Decimals int
}

// DefaultBounds mirrors the range of the decimal editor: plus or minus one
// million with four fractional digits.
var DefaultBounds = NumberBounds{Min: -1e6, Max: 1e6, Decimals: 4}

// Clamp limits v to the bounds and rounds it to the configured precision.
func (b NumberBounds) Clamp(v float64) float64 {
	if b.Max > b.Min {
		if v < b.Min {
			v = b.Min
		}
		if v > b.Max {
			v = b.Max
		}
	}
	return roundTo(v, b.Decimals)
}

func roundTo(v float64, decimals int) float64 {
	if decimals < 0 {
		return v
	}
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
