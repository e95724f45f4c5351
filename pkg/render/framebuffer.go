// Package render provides the color, framebuffer, texture and camera layer of
// the ray tracer, plus the outputs that present a frame: BMP/PNG files and
// terminal half-block cells.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/taigrr/prism/pkg/math3d"
)

// Paint and lookup errors. Callers drawing lines or polygons stop at the
// first of these.
var (
	ErrXTooSmall = errors.New("x too small")
	ErrXTooLarge = errors.New("x too large")
	ErrYTooSmall = errors.New("y too small")
	ErrYTooLarge = errors.New("y too large")
)

// lineEpsilon decides when the line walker has reached its end point.
const lineEpsilon = 1e-6

// Framebuffer is a raster of packed 0xRRGGBB pixels with a background layer
// used to reset it, and a current color used by the paint operations.
// The origin is the top-left corner.
type Framebuffer struct {
	Width  int      // Width in pixels
	Height int      // Height in pixels
	Pixels []uint32 // Row-major pixel data

	background      []uint32
	backgroundColor Color
	currentColor    Color
}

// NewFramebuffer creates a framebuffer with a black background and a white
// paint color.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:           width,
		Height:          height,
		backgroundColor: ColorBlack,
		currentColor:    ColorWhite,
	}
	fb.background = filledBuffer(width*height, fb.backgroundColor)
	fb.Pixels = make([]uint32, len(fb.background))
	copy(fb.Pixels, fb.background)
	return fb
}

func filledBuffer(n int, c Color) []uint32 {
	buf := make([]uint32, n)
	if n == 0 {
		return buf
	}
	// Use copy-doubling for faster filling
	buf[0] = c.Hex()
	for i := 1; i < n; i *= 2 {
		copy(buf[i:], buf[:i])
	}
	return buf
}

// Clear resets the raster to the stored background.
func (fb *Framebuffer) Clear() {
	copy(fb.Pixels, fb.background)
}

// SaveAsBackground makes the current raster the one Clear restores.
func (fb *Framebuffer) SaveAsBackground() {
	copy(fb.background, fb.Pixels)
}

// SetBackgroundColor regenerates the background layer with a solid color.
func (fb *Framebuffer) SetBackgroundColor(c Color) {
	fb.backgroundColor = c
	fb.background = filledBuffer(fb.Width*fb.Height, c)
}

// BackgroundColor returns the last solid background color set.
func (fb *Framebuffer) BackgroundColor() Color {
	return fb.backgroundColor
}

// SetCurrentColor sets the color used by PaintPoint, PaintLine and PaintPolygon.
func (fb *Framebuffer) SetCurrentColor(c Color) {
	fb.currentColor = c
}

// CurrentColor returns the paint color.
func (fb *Framebuffer) CurrentColor() Color {
	return fb.currentColor
}

// PaintPoint paints the pixel nearest to p with the current color.
// Halfway coordinates round away from zero.
func (fb *Framebuffer) PaintPoint(p math3d.Vec2) error {
	if p.X < 0 {
		return ErrXTooSmall
	}
	if p.Y < 0 {
		return ErrYTooSmall
	}

	x := math.Round(p.X)
	y := math.Round(p.Y)
	if !(x < float64(fb.Width)) {
		return ErrXTooLarge
	}
	if !(y < float64(fb.Height)) {
		return ErrYTooLarge
	}

	fb.Pixels[int(y)*fb.Width+int(x)] = fb.currentColor.Hex()
	return nil
}

// PaintLine draws a line from p1 to p2 with the current color.
// Endpoints are snapped to the nearest pixel before walking the line.
func (fb *Framebuffer) PaintLine(p1, p2 math3d.Vec2) error {
	x0, y0 := math.Round(p1.X), math.Round(p1.Y)
	x1, y1 := math.Round(p2.X), math.Round(p2.Y)

	dx := math.Abs(x1 - x0)
	dy := math.Abs(y1 - y0)
	sx := 1.0
	if x0 > x1 {
		sx = -1
	}
	sy := 1.0
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if e := fb.PaintPoint(math3d.V2(x0, y0)); e != nil {
			return e
		}
		if math.Abs(x0-x1) <= lineEpsilon && math.Abs(y0-y1) <= lineEpsilon {
			return nil
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// PaintPolygon draws the closed outline through points. A single point is
// painted as a point.
func (fb *Framebuffer) PaintPolygon(points []math3d.Vec2) error {
	switch len(points) {
	case 0:
		return nil
	case 1:
		return fb.PaintPoint(points[0])
	}

	for i := range points {
		next := points[(i+1)%len(points)]
		if err := fb.PaintLine(points[i], next); err != nil {
			return err
		}
	}
	return nil
}

// GetColor returns the color stored at (x, y).
func (fb *Framebuffer) GetColor(x, y int) (Color, error) {
	if y >= fb.Height {
		return Color{}, ErrYTooLarge
	}
	if x >= fb.Width {
		return Color{}, ErrXTooLarge
	}
	if y < 0 {
		return Color{}, ErrYTooSmall
	}
	if x < 0 {
		return Color{}, ErrXTooSmall
	}
	return ColorFromHex(fb.Pixels[y*fb.Width+x]), nil
}

// WritePixels copies a full frame of colors into the raster. Element i lands
// on pixel (i % Width, i / Width).
func (fb *Framebuffer) WritePixels(colors []Color) error {
	if len(colors) != len(fb.Pixels) {
		return fmt.Errorf("write pixels: got %d colors for %dx%d framebuffer", len(colors), fb.Width, fb.Height)
	}
	for i, c := range colors {
		fb.Pixels[i] = c.Hex()
	}
	return nil
}

// Save writes the raster as a 24-bit BMP file.
func (fb *Framebuffer) Save(path string) error {
	return WriteBMP(path, fb.Pixels, fb.Width, fb.Height)
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		img.Pix[i*4] = uint8(p >> 16)
		img.Pix[i*4+1] = uint8(p >> 8)
		img.Pix[i*4+2] = uint8(p)
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
