package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
)

func ptr[T any](v T) *T {
	return &v
}

// unitBoxDoc returns a document with one mesh spanning [-1,1] on every axis
// and no nodes.
func unitBoxDoc() *gltf.Document {
	return &gltf.Document{
		Accessors: []*gltf.Accessor{{
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
			Count:         8,
			Min:           []float64{-1, -1, -1},
			Max:           []float64{1, 1, 1},
		}},
		Meshes: []*gltf.Mesh{{
			Name:       "Block",
			Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}},
		}},
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb", nil); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGLTFFile(t *testing.T) {
	doc := unitBoxDoc()
	doc.Asset = gltf.Asset{Version: "2.0"}
	doc.Nodes = []*gltf.Node{{Name: "Floor", Mesh: ptr(0), Translation: [3]float64{0, -1, 0}}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	doc.Scene = ptr(0)

	path := filepath.Join(t.TempDir(), "box.gltf")
	if err := gltf.Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	s, err := LoadGLTF(path, nil)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(s.World.Objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(s.World.Objects))
	}
	c, ok := s.World.Objects[0].Cube()
	if !ok {
		t.Fatal("expected a cube")
	}
	if !near(c.Center, math3d.V3(0, -1, 0)) || math.Abs(c.Size-2) > tol {
		t.Errorf("cube center = %v size = %v", c.Center, c.Size)
	}
}

func TestFromGLTFPrimitives(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []*gltf.Node
		kind   raytrace.Kind
		center math3d.Vec3
		size   float64 // cube size or sphere radius
	}{
		{
			name:   "translated cube",
			nodes:  []*gltf.Node{{Name: "Block", Mesh: ptr(0), Translation: [3]float64{2, 0, 0}}},
			kind:   raytrace.KindCube,
			center: math3d.V3(2, 0, 0),
			size:   2,
		},
		{
			name:   "scaled sphere",
			nodes:  []*gltf.Node{{Name: "Sphere.001", Mesh: ptr(0), Scale: [3]float64{0.5, 0.5, 0.5}}},
			kind:   raytrace.KindSphere,
			center: math3d.Zero3(),
			size:   0.5,
		},
		{
			name: "nested nodes compose",
			nodes: []*gltf.Node{
				{Name: "Group", Children: []int{1}, Translation: [3]float64{0, 3, 0}},
				{Name: "Child", Mesh: ptr(0), Translation: [3]float64{1, 0, 0}},
			},
			kind:   raytrace.KindCube,
			center: math3d.V3(1, 3, 0),
			size:   2,
		},
		{
			name: "explicit matrix",
			nodes: []*gltf.Node{{Name: "Block", Mesh: ptr(0), Matrix: [16]float64{
				2, 0, 0, 0,
				0, 2, 0, 0,
				0, 0, 2, 0,
				0, 0, 5, 1,
			}}},
			kind:   raytrace.KindCube,
			center: math3d.V3(0, 0, 5),
			size:   4,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := unitBoxDoc()
			doc.Nodes = tc.nodes

			s, err := FromGLTF(doc, nil)
			if err != nil {
				t.Fatalf("FromGLTF: %v", err)
			}
			if len(s.World.Objects) != 1 {
				t.Fatalf("objects = %d, want 1", len(s.World.Objects))
			}
			obj := s.World.Objects[0]
			if obj.Kind() != tc.kind {
				t.Fatalf("kind = %v, want %v", obj.Kind(), tc.kind)
			}
			switch tc.kind {
			case raytrace.KindCube:
				c, _ := obj.Cube()
				if !near(c.Center, tc.center) || math.Abs(c.Size-tc.size) > tol {
					t.Errorf("cube center = %v size = %v", c.Center, c.Size)
				}
			case raytrace.KindSphere:
				sp, _ := obj.Sphere()
				if !near(sp.Center, tc.center) || math.Abs(sp.Radius-tc.size) > tol {
					t.Errorf("sphere center = %v radius = %v", sp.Center, sp.Radius)
				}
			}
		})
	}
}

func TestFromGLTFLights(t *testing.T) {
	t.Run("light nodes", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Nodes = []*gltf.Node{
			{Name: "Block", Mesh: ptr(0)},
			{Name: "Light.001", Translation: [3]float64{0, 5, 0}},
		}
		s, err := FromGLTF(doc, nil)
		if err != nil {
			t.Fatalf("FromGLTF: %v", err)
		}
		if len(s.World.Lights) != 1 {
			t.Fatalf("lights = %d, want 1", len(s.World.Lights))
		}
		if !near(s.World.Lights[0].Position, math3d.V3(0, 5, 0)) {
			t.Errorf("light at %v", s.World.Lights[0].Position)
		}
	})

	t.Run("default light", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: ptr(0)}}
		s, err := FromGLTF(doc, nil)
		if err != nil {
			t.Fatalf("FromGLTF: %v", err)
		}
		if len(s.World.Lights) != 1 {
			t.Fatalf("lights = %d, want 1", len(s.World.Lights))
		}
		if s.World.Lights[0].Position.Y <= 1 {
			t.Errorf("default light at %v, want above the scene", s.World.Lights[0].Position)
		}
	})
}

func TestFromGLTFCamera(t *testing.T) {
	doc := unitBoxDoc()
	doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: ptr(0), Translation: [3]float64{4, 0, 0}}}
	s, err := FromGLTF(doc, nil)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	if !near(s.Camera.Center, math3d.V3(4, 0, 0)) {
		t.Errorf("camera looks at %v", s.Camera.Center)
	}
	if _, ok := s.World.Nearest(s.Camera.Eye, s.Camera.Direction()); !ok {
		t.Error("camera centre ray misses the scene")
	}
}

func TestFromGLTFMaterial(t *testing.T) {
	doc := unitBoxDoc()
	doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: ptr(0)}}
	doc.Meshes[0].Primitives[0].Material = ptr(0)
	doc.Materials = []*gltf.Material{{
		Name: "Stone_Wall",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 0.5},
			MetallicFactor:  ptr(0.25),
			RoughnessFactor: ptr(1.0),
		},
	}}

	s, err := FromGLTF(doc, nil)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	c, _ := s.World.Objects[0].Cube()
	m := c.Material

	if m.Diffuse != render.RGB(255, 0, 0) {
		t.Errorf("diffuse = %v", m.Diffuse)
	}
	if !m.Textured || m.Texture != render.TextureStone {
		t.Errorf("textured = %v texture = %v, want stone", m.Textured, m.Texture)
	}
	if math.Abs(m.Transparency-0.5) > tol || m.RefractiveIndex != 1.5 {
		t.Errorf("transparency = %v ior = %v", m.Transparency, m.RefractiveIndex)
	}
	if math.Abs(m.Reflectivity-0.25) > tol {
		t.Errorf("reflectivity = %v", m.Reflectivity)
	}
	if m.Specular != 1 {
		t.Errorf("specular = %v, want 1 for a fully rough surface", m.Specular)
	}
}

func TestFromGLTFReadsPositionBuffer(t *testing.T) {
	points := []float32{-1, 0, 0, 3, 2, 1}
	data := make([]byte, 4*len(points))
	for i, f := range points {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}

	doc := &gltf.Document{
		Buffers:     []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: len(data)}},
		Accessors: []*gltf.Accessor{{
			BufferView:    ptr(0),
			Type:          gltf.AccessorVec3,
			ComponentType: gltf.ComponentFloat,
			Count:         2,
		}},
		Meshes: []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}}}},
		Nodes:  []*gltf.Node{{Name: "Block", Mesh: ptr(0)}},
	}

	s, err := FromGLTF(doc, nil)
	if err != nil {
		t.Fatalf("FromGLTF: %v", err)
	}
	c, ok := s.World.Objects[0].Cube()
	if !ok {
		t.Fatal("expected a cube")
	}
	if !near(c.Center, math3d.V3(1, 1, 0.5)) || math.Abs(c.Size-4) > tol {
		t.Errorf("cube center = %v size = %v", c.Center, c.Size)
	}
}

func TestFromGLTFErrors(t *testing.T) {
	t.Run("no meshes", func(t *testing.T) {
		doc := &gltf.Document{Nodes: []*gltf.Node{{Name: "Empty"}}}
		if _, err := FromGLTF(doc, nil); !errors.Is(err, ErrEmptyScene) {
			t.Errorf("err = %v, want ErrEmptyScene", err)
		}
	})

	t.Run("bad accessor", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Meshes[0].Primitives[0].Attributes = map[string]int{gltf.POSITION: 9}
		doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: ptr(0)}}
		if _, err := FromGLTF(doc, nil); err == nil {
			t.Error("expected error for out of range accessor")
		}
	})

	t.Run("short buffer", func(t *testing.T) {
		doc := &gltf.Document{
			Buffers:     []*gltf.Buffer{{ByteLength: 8, Data: make([]byte, 8)}},
			BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: 8}},
			Accessors: []*gltf.Accessor{{
				BufferView:    ptr(0),
				Type:          gltf.AccessorVec3,
				ComponentType: gltf.ComponentFloat,
				Count:         1,
			}},
			Meshes: []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}}}},
			Nodes:  []*gltf.Node{{Mesh: ptr(0)}},
		}
		if _, err := FromGLTF(doc, nil); err == nil {
			t.Error("expected error for truncated buffer")
		}
	})

	t.Run("cycle", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Nodes = []*gltf.Node{
			{Name: "A", Mesh: ptr(0), Children: []int{1}},
			{Name: "B", Children: []int{0}},
		}
		doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
		if _, err := FromGLTF(doc, nil); err == nil {
			t.Error("expected error for cyclic hierarchy")
		}
	})

	t.Run("shared child", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Nodes = nil
		for i := range 40 {
			doc.Nodes = append(doc.Nodes, &gltf.Node{Children: []int{i + 1, i + 1}})
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "Leaf", Mesh: ptr(0)})
		doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

		_, err := FromGLTF(doc, nil)
		if err == nil || !strings.Contains(err.Error(), "more than one parent") {
			t.Errorf("err = %v, want a more-than-one-parent error", err)
		}
	})

	t.Run("root listed twice", func(t *testing.T) {
		doc := unitBoxDoc()
		doc.Nodes = []*gltf.Node{{Name: "Block", Mesh: ptr(0)}}
		doc.Scenes = []*gltf.Scene{{Nodes: []int{0, 0}}}
		if _, err := FromGLTF(doc, nil); err == nil {
			t.Error("expected error for a root listed twice")
		}
	})
}
