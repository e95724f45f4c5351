// Package raytrace implements the ray-tracing core: primitives and their
// intersection tests, the recursive shading model and the parallel renderer
// that fills a framebuffer from a World snapshot.
package raytrace

import (
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/render"
)

// Material describes how a surface is shaded.
type Material struct {
	Diffuse         render.Color     // Flat surface color, used when Textured is false
	Texture         render.TextureID // Cube sheet sampled when Textured is true
	Textured        bool
	Specular        float64    // Phong exponent, >= 0
	Albedo          [2]float64 // Diffuse weight, specular weight
	Reflectivity    float64
	Transparency    float64
	RefractiveIndex float64
}

// Matte returns a plain diffuse material.
func Matte(c render.Color) Material {
	return Material{
		Diffuse:         c,
		Specular:        1,
		Albedo:          [2]float64{0.95, 0.05},
		RefractiveIndex: 1,
	}
}

// TexturedMaterial returns a diffuse material that samples a cube texture.
func TexturedMaterial(id render.TextureID) Material {
	m := Matte(render.ColorMagenta)
	m.Texture = id
	m.Textured = true
	return m
}

// Mirror returns a mostly reflective material.
func Mirror(tint render.Color) Material {
	return Material{
		Diffuse:         tint,
		Specular:        1425,
		Albedo:          [2]float64{0.9, 0.1},
		Reflectivity:    0.8,
		RefractiveIndex: 1,
	}
}

// Glass returns a transparent material with the given index of refraction.
func Glass(tint render.Color, ior float64) Material {
	return Material{
		Diffuse:         tint,
		Specular:        125,
		Albedo:          [2]float64{0.5, 0.5},
		Reflectivity:    0.1,
		Transparency:    0.8,
		RefractiveIndex: ior,
	}
}

// surfaceColor returns the unlit color at a hit.
func (m Material) surfaceColor(hit Intersect, textures *render.TextureStore) render.Color {
	if !m.Textured || textures == nil {
		return m.Diffuse
	}
	return textures.Get(m.Texture).ColorOfFace(hit.Face, hit.UV.X, hit.UV.Y)
}

// Light is a point light.
type Light struct {
	Position  math3d.Vec3
	Color     render.Color
	Intensity float64 // >= 0
}

// NewLight creates a point light.
func NewLight(pos math3d.Vec3, c render.Color, intensity float64) Light {
	return Light{Position: pos, Color: c, Intensity: intensity}
}

// Intersect is the result of a ray hitting a primitive.
type Intersect struct {
	Distance float64     // Along the ray direction
	Point    math3d.Vec3 // World-space hit point
	Normal   math3d.Vec3 // Unit outward normal
	Material Material
	Face     render.CubeFace // FaceNone for spheres
	UV       math3d.Vec2     // Face-local texture coordinates
	ObjectID int
}
