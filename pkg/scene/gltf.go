package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
)

// ErrEmptyScene is returned when a glTF document has no mesh nodes.
var ErrEmptyScene = errors.New("scene has no objects")

// GLTFAmbient is the ambient term of imported scenes.
const GLTFAmbient = 0.1

// maxNodeDepth bounds the node walk.
const maxNodeDepth = 64

// LoadGLTF builds a scene from a glTF or GLB file.
//
// Every mesh primitive becomes one primitive fitted to its world-space bounds:
// a sphere when the node or mesh name contains "sphere", otherwise a cube.
// Nodes named "light*" become white point lights. The camera looks at the
// centre of the scene.
func LoadGLTF(path string, textures *render.TextureStore) (Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return Scene{}, fmt.Errorf("open gltf: %w", err)
	}
	s, err := FromGLTF(doc, textures)
	if err != nil {
		return Scene{}, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// FromGLTF builds a scene from an already decoded document.
func FromGLTF(doc *gltf.Document, textures *render.TextureStore) (Scene, error) {
	l := &gltfLoader{doc: doc, visited: make([]bool, len(doc.Nodes))}
	for _, idx := range sceneRoots(doc) {
		if err := l.visit(idx, math3d.Identity(), 0); err != nil {
			return Scene{}, err
		}
	}
	if len(l.objects) == 0 {
		return Scene{}, ErrEmptyScene
	}

	center := l.lo.Add(l.hi).Scale(0.5)
	extent := math.Max(l.hi.Sub(l.lo).MaxComponent(), 1)
	if len(l.lights) == 0 {
		l.lights = append(l.lights, raytrace.NewLight(center.Add(math3d.V3(extent, 2*extent, extent)), render.ColorWhite, 1))
	}

	world := raytrace.NewWorld(l.objects, l.lights, GLTFAmbient, textures)
	eye := center.Add(math3d.V3(0, extent*0.5, extent*1.5+1))
	return New(world, render.NewCamera(eye, center, math3d.Up())), nil
}

// sceneRoots returns the root nodes of the default scene, or every node
// without a parent when the document has no scenes.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			idx = *doc.Scene
		}
		return doc.Scenes[idx].Nodes
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type gltfLoader struct {
	doc     *gltf.Document
	visited []bool // a node reached twice has two parents or sits on a cycle
	objects []raytrace.Object
	lights  []raytrace.Light
	lo, hi  math3d.Vec3
}

func (l *gltfLoader) visit(idx int, parent math3d.Mat4, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxNodeDepth)
	}
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return fmt.Errorf("node %d: out of range", idx)
	}
	if l.visited[idx] {
		return fmt.Errorf("node %d: has more than one parent", idx)
	}
	l.visited[idx] = true
	node := l.doc.Nodes[idx]
	world := parent.Mul(localMatrix(node))

	if strings.HasPrefix(strings.ToLower(node.Name), "light") {
		l.lights = append(l.lights, raytrace.NewLight(world.Translation(), render.ColorWhite, 1))
	}
	if node.Mesh != nil {
		if err := l.addMesh(node, world); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}
	for _, c := range node.Children {
		if err := l.visit(c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localMatrix returns the node transform, preferring an explicit matrix over TRS.
func localMatrix(node *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(node.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	t := math3d.V3(node.Translation[0], node.Translation[1], node.Translation[2])
	s := math3d.V3(node.Scale[0], node.Scale[1], node.Scale[2])
	if s == (math3d.Vec3{}) {
		s = math3d.V3(1, 1, 1)
	}
	r := node.Rotation
	if r == ([4]float64{}) {
		r = [4]float64{0, 0, 0, 1}
	}
	return math3d.Translate(t).Mul(math3d.RotateQuat(r[0], r[1], r[2], r[3])).Mul(math3d.Scale(s))
}

func (l *gltfLoader) addMesh(node *gltf.Node, world math3d.Mat4) error {
	if *node.Mesh < 0 || *node.Mesh >= len(l.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", *node.Mesh)
	}
	mesh := l.doc.Meshes[*node.Mesh]
	round := isSphere(node.Name) || isSphere(mesh.Name)

	for _, prim := range mesh.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		lo, hi, err := l.positionBounds(posIdx)
		if err != nil {
			return fmt.Errorf("mesh %q: %w", mesh.Name, err)
		}
		lo, hi = transformBounds(world, lo, hi)

		center := lo.Add(hi).Scale(0.5)
		extent := hi.Sub(lo).MaxComponent()
		if extent <= 0 {
			continue
		}
		mat := l.material(prim.Material)
		id := len(l.objects) + 1
		if round {
			l.objects = append(l.objects, raytrace.SphereObject(raytrace.NewSphere(id, center, extent/2, mat)))
		} else {
			l.objects = append(l.objects, raytrace.CubeObject(raytrace.NewCube(id, center, extent, mat)))
		}
		l.grow(lo, hi)
	}
	return nil
}

func (l *gltfLoader) grow(lo, hi math3d.Vec3) {
	if len(l.objects) == 1 {
		l.lo, l.hi = lo, hi
		return
	}
	l.lo = l.lo.Min(lo)
	l.hi = l.hi.Max(hi)
}

func isSphere(name string) bool {
	return strings.Contains(strings.ToLower(name), "sphere")
}

// transformBounds returns the axis-aligned bounds of a transformed box.
func transformBounds(m math3d.Mat4, lo, hi math3d.Vec3) (math3d.Vec3, math3d.Vec3) {
	var outLo, outHi math3d.Vec3
	for i := range 8 {
		corner := lo
		if i&1 != 0 {
			corner.X = hi.X
		}
		if i&2 != 0 {
			corner.Y = hi.Y
		}
		if i&4 != 0 {
			corner.Z = hi.Z
		}
		p := m.MulVec3(corner)
		if i == 0 {
			outLo, outHi = p, p
			continue
		}
		outLo = outLo.Min(p)
		outHi = outHi.Max(p)
	}
	return outLo, outHi
}

// positionBounds returns the accessor's declared min/max, falling back to
// scanning the vertex data.
func (l *gltfLoader) positionBounds(accessorIdx int) (lo, hi math3d.Vec3, err error) {
	if accessorIdx < 0 || accessorIdx >= len(l.doc.Accessors) {
		return lo, hi, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	acc := l.doc.Accessors[accessorIdx]
	if len(acc.Min) == 3 && len(acc.Max) == 3 {
		return math3d.V3(acc.Min[0], acc.Min[1], acc.Min[2]), math3d.V3(acc.Max[0], acc.Max[1], acc.Max[2]), nil
	}

	positions, err := readVec3Accessor(l.doc, acc)
	if err != nil {
		return lo, hi, fmt.Errorf("read positions: %w", err)
	}
	if len(positions) == 0 {
		return lo, hi, errors.New("no positions")
	}
	lo, hi = positions[0], positions[0]
	for _, p := range positions[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi, nil
}

// material maps a glTF PBR material onto the ray tracer's model.
func (l *gltfLoader) material(idx *int) raytrace.Material {
	m := raytrace.Matte(render.RGB(200, 200, 200))
	if idx == nil || *idx < 0 || *idx >= len(l.doc.Materials) {
		return m
	}
	gm := l.doc.Materials[*idx]

	if id, ok := textureByName(gm.Name); ok {
		m = raytrace.TexturedMaterial(id)
	}

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return m
	}
	base := [4]float64{1, 1, 1, 1}
	if pbr.BaseColorFactor != nil {
		base = *pbr.BaseColorFactor
	}
	metallic, roughness := 1.0, 1.0
	if pbr.MetallicFactor != nil {
		metallic = *pbr.MetallicFactor
	}
	if pbr.RoughnessFactor != nil {
		roughness = *pbr.RoughnessFactor
	}

	m.Diffuse = render.RGB(channel(base[0]), channel(base[1]), channel(base[2]))
	m.Specular = 1 + (1-unit(roughness))*500
	m.Albedo = [2]float64{0.9, 0.1 + 0.5*(1-unit(roughness))}
	m.Reflectivity = unit(metallic)
	if a := unit(base[3]); a < 1 {
		m.Transparency = 1 - a
		m.RefractiveIndex = 1.5
	}
	if sum := m.Reflectivity + m.Transparency; sum > 1 {
		m.Reflectivity = 1 - m.Transparency
	}
	return m
}

// textureByName finds a block texture whose name appears in a material name.
func textureByName(name string) (render.TextureID, bool) {
	name = strings.ToLower(name)
	if name == "" {
		return 0, false
	}
	for _, id := range render.TextureIDs() {
		if strings.Contains(name, id.String()) {
			return id, true
		}
	}
	return 0, false
}

func unit(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func channel(f float64) uint8 {
	return uint8(math.Round(unit(f) * 255))
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, acc *gltf.Accessor) ([]math3d.Vec3, error) {
	if acc.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", acc.Type)
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", acc.ComponentType)
	}
	data, stride, err := accessorBytes(doc, acc, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, acc.Count)
	for i := range acc.Count {
		b := data[i*stride:]
		result[i] = math3d.V3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
		)
	}
	return result, nil
}

// accessorBytes returns the accessor's bytes starting at its first element,
// and the element stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}
	view := doc.BufferViews[*acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buf := doc.Buffers[view.Buffer].Data
	if buf == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	if start < 0 || start > len(buf) {
		return nil, 0, fmt.Errorf("accessor offset %d past buffer of %d bytes", start, len(buf))
	}
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(buf) {
			return nil, 0, fmt.Errorf("accessor reads [%d:%d] past buffer of %d bytes", start, end, len(buf))
		}
	}
	return buf[start:], stride, nil
}
