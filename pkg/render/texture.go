package render

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"math"
	"os"
	"path/filepath"
)

// CubeFace identifies which side of a cube a ray struck.
type CubeFace int

const (
	FaceNone CubeFace = iota // Not a cube hit (spheres) or no face matched
	FaceTop
	FaceBottom
	FaceForwards  // +Z
	FaceBackwards // -Z
	FaceLeft      // -X
	FaceRight     // +X
)

func (f CubeFace) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceForwards:
		return "forwards"
	case FaceBackwards:
		return "backwards"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return "none"
	}
}

// Texture holds a decoded image laid out as a cube "cloth": six square cells
// of SpriteSize pixels arranged in a cross.
//
//	      [fwd]
//	[left][top][right]
//	      [back]
//	      [bottom]
type Texture struct {
	Width      int
	Height     int
	SpriteSize int     // Side of one face cell in pixels
	Pixels     []Color // Row-major pixel data
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height, spriteSize int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		SpriteSize: spriteSize,
		Pixels:     make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string, spriteSize int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return TextureFromImage(img, spriteSize), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image, spriteSize int) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height, spriteSize)

	for y := range height {
		for x := range width {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
			})
		}
	}

	return tex
}

// NewCrossTexture creates a procedural checkerboard sheet in the cube cross
// layout (3 cells wide, 4 cells tall).
func NewCrossTexture(cell int, c1, c2 Color) *Texture {
	tex := NewTexture(cell*3, cell*4, cell)
	check := max(cell/4, 1)
	for y := range tex.Height {
		for x := range tex.Width {
			if (x/check+y/check)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y). Out of range lookups return magenta.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return ColorMagenta
	}
	return t.Pixels[y*t.Width+x]
}

// faceOrigin returns the top-left pixel of a face cell.
func (t *Texture) faceOrigin(face CubeFace) (x, y float64, ok bool) {
	c := float64(t.SpriteSize)
	switch face {
	case FaceTop:
		return c, c, true
	case FaceBottom:
		return c, c * 3, true
	case FaceForwards:
		return c, 0, true
	case FaceBackwards:
		return c, c * 2, true
	case FaceLeft:
		return 0, c, true
	case FaceRight:
		return c * 2, c, true
	}
	return 0, 0, false
}

// ColorOfFace samples the cell of face at local texture coordinates (u, v)
// in [0, 1]. The lookup never leaves the face's cell. FaceNone returns
// magenta so unmapped hits stand out.
func (t *Texture) ColorOfFace(face CubeFace, u, v float64) Color {
	ox, oy, ok := t.faceOrigin(face)
	if !ok {
		return ColorMagenta
	}

	c := float64(t.SpriteSize)
	x := clamp(ox+u*c, ox, ox+c-1)
	y := clamp(oy+v*c, oy, oy+c-1)

	return t.GetPixel(int(x), int(y))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// TextureID names one of the fixed textures a material can reference.
type TextureID int

const (
	TextureDirt TextureID = iota
	TextureStone
	TextureMoss
	TextureWater
	TextureObsidian
	TexturePortal
	TextureNetherrack
	TextureMagma

	textureCount
)

var textureNames = [textureCount]string{
	TextureDirt:       "dirt",
	TextureStone:      "stone",
	TextureMoss:       "moss",
	TextureWater:      "water",
	TextureObsidian:   "obsidian",
	TexturePortal:     "portal",
	TextureNetherrack: "netherrack",
	TextureMagma:      "magma",
}

// fallback checker colors per texture, used when no image is supplied
var textureTints = [textureCount][2]Color{
	TextureDirt:       {RGB(134, 96, 67), RGB(108, 76, 52)},
	TextureStone:      {RGB(125, 125, 125), RGB(100, 100, 100)},
	TextureMoss:       {RGB(91, 135, 49), RGB(70, 110, 40)},
	TextureWater:      {RGB(47, 90, 200), RGB(38, 72, 170)},
	TextureObsidian:   {RGB(20, 18, 30), RGB(45, 30, 70)},
	TexturePortal:     {RGB(120, 30, 200), RGB(170, 60, 240)},
	TextureNetherrack: {RGB(110, 35, 35), RGB(85, 25, 25)},
	TextureMagma:      {RGB(200, 80, 20), RGB(90, 30, 10)},
}

// TextureIDs returns every texture identifier in order.
func TextureIDs() []TextureID {
	ids := make([]TextureID, textureCount)
	for i := range ids {
		ids[i] = TextureID(i)
	}
	return ids
}

func (id TextureID) String() string {
	if id < 0 || id >= textureCount {
		return fmt.Sprintf("texture(%d)", int(id))
	}
	return textureNames[id]
}

// TextureStore holds one texture per TextureID. Lookups always succeed.
type TextureStore struct {
	textures [textureCount]*Texture
}

// NewTextureStore builds a store from the given textures. Any id without an
// entry gets a procedural checker sheet of spriteSize cells.
func NewTextureStore(spriteSize int, textures map[TextureID]*Texture) *TextureStore {
	s := &TextureStore{}
	for _, id := range TextureIDs() {
		if tex, ok := textures[id]; ok && tex != nil {
			s.textures[id] = tex
			continue
		}
		tint := textureTints[id]
		s.textures[id] = NewCrossTexture(spriteSize, tint[0], tint[1])
	}
	return s
}

// LoadTextureStore loads <dir>/<name>.png for every texture id. Missing files
// fall back to procedural sheets; files that exist but fail to decode are an
// error.
func LoadTextureStore(dir string, spriteSize int) (*TextureStore, error) {
	loaded := make(map[TextureID]*Texture)
	for _, id := range TextureIDs() {
		path := filepath.Join(dir, id.String()+".png")
		tex, err := LoadTexture(path, spriteSize)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load texture %s: %w", id, err)
		}
		loaded[id] = tex
	}
	return NewTextureStore(spriteSize, loaded), nil
}

// Get returns the texture for id. Unknown ids map to the first texture.
func (s *TextureStore) Get(id TextureID) *Texture {
	if id < 0 || id >= textureCount {
		id = 0
	}
	return s.textures[id]
}
