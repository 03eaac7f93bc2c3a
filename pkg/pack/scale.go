package pack

import "math"

// SqrtScale maps a continuous domain onto a range through a square-root
// transform.
type SqrtScale struct {
	Domain [2]float64
	Range  [2]float64
}

// NewSqrtScale returns a scale fit to the given domain and range.
func NewSqrtScale(d0, d1, r0, r1 float64) SqrtScale {
	return SqrtScale{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// At maps v. Values outside the domain extrapolate. A degenerate domain maps
// every value to the middle of the range.
func (s SqrtScale) At(v float64) float64 {
	a, b := signedSqrt(s.Domain[0]), signedSqrt(s.Domain[1])
	t := 0.5
	if b != a {
		t = (signedSqrt(v) - a) / (b - a)
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// Extent returns the minimum and maximum of values. It returns (0, 0) for an
// empty slice.
func Extent(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
