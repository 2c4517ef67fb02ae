// Package scene is a read-only snapshot of a host application scene:
// objects with world transforms, cameras, lights, triangle-able geometry
// and materials with their shading graphs. Host conventions are kept as is
// (Z up, Y forward, angles in radians, lens in millimeters).
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ObjectType string

const (
	TypeMesh    ObjectType = "MESH"
	TypeFont    ObjectType = "FONT"
	TypeSurface ObjectType = "SURFACE"
	TypeMeta    ObjectType = "META"
	TypeCamera  ObjectType = "CAMERA"
	TypeLight   ObjectType = "LIGHT"
	TypeEmpty   ObjectType = "EMPTY"
)

type Scene struct {
	Name         string
	Objects      []*Object
	ActiveCamera *Object
	Render       Render
	World        *World
}

type Render struct {
	ResolutionX          int
	ResolutionY          int
	ResolutionPercentage int
}

// World holds the background shading graph.
type World struct {
	Graph *Graph
}

type Object struct {
	Name        string
	Type        ObjectType
	Visible     bool
	MatrixWorld mgl32.Mat4

	Camera        *Camera
	Light         *Light
	Mesh          *MeshData
	MaterialSlots []*MaterialSlot
}

// IsMeshLike reports whether the object produces renderable surface geometry.
func (o *Object) IsMeshLike() bool {
	switch o.Type {
	case TypeMesh, TypeFont, TypeSurface, TypeMeta:
		return true
	}
	return false
}

// HasMaterial reports whether the object has at least one slot and its first slot is set.
func (o *Object) HasMaterial() bool {
	return len(o.MaterialSlots) != 0 && o.MaterialSlots[0] != nil && o.MaterialSlots[0].Name != ""
}

func (s *Scene) ObjectsOfType(types ...ObjectType) []*Object {
	result := make([]*Object, 0)
	for _, o := range s.Objects {
		for _, t := range types {
			if o.Type == t {
				result = append(result, o)
				break
			}
		}
	}
	return result
}

func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

type Camera struct {
	// Angle is the field of view along the larger sensor dimension, radians.
	Angle     float32
	ClipStart float32
	ClipEnd   float32
	// Lens is the focal length in millimeters.
	Lens float32
	DOF  DepthOfField
}

type DepthOfField struct {
	Enabled       bool
	FocusDistance float32
	FStop         float32
}

type LightType string

const (
	LightPoint LightType = "POINT"
	LightSpot  LightType = "SPOT"
	LightSun   LightType = "SUN"
	LightArea  LightType = "AREA"
)

type Light struct {
	Type   LightType
	Color  [3]float32
	Energy float32
	// SpotSize is the full cone angle in radians, SpotBlend is in [0,1].
	SpotSize  float32
	SpotBlend float32
}

// MeshData is object-space polygon geometry. Faces index Vertices and,
// when present, UVs and Normals per corner.
type MeshData struct {
	Vertices [][3]float32
	UVs      [][2]float32
	Normals  [][3]float32
	Faces    []Face
}

type Face struct {
	V []uint32
	T []uint32
	N []uint32
}

type Material struct {
	Name         string
	DiffuseColor [4]float32
	Graph        *Graph
}

type MaterialSlot struct {
	Name     string
	Material *Material
}
