package core

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Color is a linear RGB spectral value. Path weights, radiance, importance and
// raster pixels are all Colors.
type Color struct {
	R, G, B float64
}

// Black is the zero Color
var Black = Color{}

// White has unit value in every channel
var White = Color{1, 1, 1}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Gray returns a Color with every channel equal to v
func Gray(v float64) Color {
	return Color{v, v, v}
}

// Times returns the channel-wise product
func (c Color) Times(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale returns the color multiplied by a scalar
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(s float64) Color {
	return c.Scale(1 / s)
}

// Plus returns the channel-wise sum
func (c Color) Plus(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Lerp blends towards other by alpha: c*(1-alpha) + other*alpha
func (c Color) Lerp(other Color, alpha float64) Color {
	return c.Scale(1 - alpha).Plus(other.Scale(alpha))
}

// Total is the summed energy of all channels
func (c Color) Total() float64 {
	return c.R + c.G + c.B
}

// Luminance uses the same weights as the display pipeline
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// IsBlack reports whether no channel carries positive energy
func (c Color) IsBlack() bool {
	return c.R <= 0 && c.G <= 0 && c.B <= 0
}

// Valid reports whether every channel is finite and non-negative
func (c Color) Valid() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B) &&
		c.R >= 0 && c.G >= 0 && c.B >= 0
}

// Channel returns channel i (0=R, 1=G, 2=B)
func (c Color) Channel(i int) float64 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

func (c Color) String() string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", c.R, c.G, c.B)
}

// ColorSample is the per-sample spectral context: the mask every score of
// the sample is multiplied by before it reaches the raster.
type ColorSample struct {
	Mask Color
}

// ColorModel chooses the spectral sample carried by a traced path
type ColorModel interface {
	Sample(u float64) ColorSample
}

// RGBModel carries all three channels on every path
type RGBModel struct{}

// Sample always returns the white mask
func (RGBModel) Sample(float64) ColorSample {
	return ColorSample{Mask: White}
}

// HeroChannelModel traces a single randomly chosen channel per sample.
// The chosen channel is weighted by 3 so the estimate stays unbiased.
type HeroChannelModel struct{}

// Sample picks channel floor(3u)
func (HeroChannelModel) Sample(u float64) ColorSample {
	i := Clamp(int(u*3), 0, 2)
	var m Color
	switch i {
	case 0:
		m.R = 3
	case 1:
		m.G = 3
	default:
		m.B = 3
	}
	return ColorSample{Mask: m}
}

// Clamp limits x to [lo, hi]
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SafeDivide returns a/b, or 0 when b is zero
func SafeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Epsilon is the smallest cosine or density treated as a real coupling
const Epsilon = 1e-9

// NearZero reports |x| <= Epsilon
func NearZero(x float64) bool {
	return math.Abs(x) <= Epsilon
}
