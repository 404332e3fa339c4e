package animation

import (
	"fmt"
	"math"
)

// Curve selects the easing applied to an animation's linear progress.
//
// Curve is a value type so that motion descriptions stay comparable; use
// [Curve.Transform] to evaluate it, or [CubicBezier] for custom easing
// functions.
type Curve int

const (
	// CurveLinear applies no easing.
	CurveLinear Curve = iota
	// CurveEaseIn starts slowly and accelerates.
	CurveEaseIn
	// CurveEaseOut starts quickly and decelerates.
	CurveEaseOut
	// CurveEaseInOut starts and ends slowly with acceleration in the middle.
	CurveEaseInOut
)

// String returns a human-readable name for the curve.
func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurveEaseIn:
		return "ease-in"
	case CurveEaseOut:
		return "ease-out"
	case CurveEaseInOut:
		return "ease-in-out"
	default:
		return fmt.Sprintf("Curve(%d)", int(c))
	}
}

// Transform maps linear progress t in [0, 1] through the curve.
// Unknown curves behave like CurveLinear.
func (c Curve) Transform(t float64) float64 {
	switch c {
	case CurveEaseIn:
		return EaseIn(t)
	case CurveEaseOut:
		return EaseOut(t)
	case CurveEaseInOut:
		return EaseInOut(t)
	default:
		return LinearCurve(t)
	}
}

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return clampUnit(t)
}

// EaseIn is equivalent to CSS ease-in.
var EaseIn = CubicBezier(0.42, 0.0, 1.0, 1.0)

// EaseOut is equivalent to CSS ease-out.
var EaseOut = CubicBezier(0.0, 0.0, 0.58, 1.0)

// EaseInOut is equivalent to CSS ease-in-out. Symmetric around t = 0.5.
var EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The parameters define the two control points (x1,y1) and (x2,y2) of the curve.
// The curve starts at (0,0) and ends at (1,1).
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}

		u := t
		// Newton-Raphson converges in a few steps for well-behaved control points.
		for i := 0; i < 8; i++ {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, clampUnit(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Bisection keeps the result inside [0,1] when Newton stalls.
		lo, hi := 0.0, 1.0
		u = clampUnit(u)
		for i := 0; i < 20; i++ {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
