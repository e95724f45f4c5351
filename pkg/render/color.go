package render

import "math"

// Color is an opaque 24-bit RGB color.
// Arithmetic on colors saturates instead of wrapping.
type Color struct {
	R, G, B uint8
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{255, 255, 255}
	ColorRed     = Color{255, 0, 0}
	ColorGreen   = Color{0, 255, 0}
	ColorBlue    = Color{0, 0, 255}
	ColorYellow  = Color{255, 255, 0}
	ColorCyan    = Color{0, 255, 255}
	ColorMagenta = Color{255, 0, 255}
	ColorGray    = Color{128, 128, 128}
	ColorSky     = Color{135, 206, 235}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// ColorFromHex unpacks a 0xRRGGBB value. Bits above the low 24 are ignored.
func ColorFromHex(v uint32) Color {
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Hex packs the color as 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Add returns the per-channel sum, saturating at 255.
func (c Color) Add(o Color) Color {
	return Color{
		R: addSat(c.R, o.R),
		G: addSat(c.G, o.G),
		B: addSat(c.B, o.B),
	}
}

// Sub returns the per-channel difference, saturating at 0.
func (c Color) Sub(o Color) Color {
	return Color{
		R: subSat(c.R, o.R),
		G: subSat(c.G, o.G),
		B: subSat(c.B, o.B),
	}
}

// Mul scales every channel by factor, rounding and clamping to [0, 255].
func (c Color) Mul(factor float64) Color {
	return Color{
		R: scaleChannel(c.R, factor),
		G: scaleChannel(c.G, factor),
		B: scaleChannel(c.B, factor),
	}
}

// RGBA implements color.Color. The alpha channel is always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(s)
}

func subSat(a, b uint8) uint8 {
	if b > a {
		return 0
	}
	return a - b
}

func scaleChannel(v uint8, factor float64) uint8 {
	x := math.Round(float64(v) * factor)
	// NaN fails both comparisons and ends up black.
	if !(x > 0) {
		return 0
	}
	if x > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(x)
}
