// Package mesh writes host object geometry as triangle meshes in the
// renderer's coordinate system. Exporters receive the exact list of objects
// to write.
package mesh

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/utils"
)

// Exporter writes the geometry of the given objects, and only those, to w.
type Exporter interface {
	Export(w io.Writer, objects []*scene.Object) error
}

type Triangle struct {
	V [3]uint32
	T [3]uint32
	N [3]uint32
}

// Object is triangulated geometry in world space, Y up.
type Object struct {
	Name      string
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Triangles []Triangle

	HaveUV   bool
	HaveNorm bool
}

// Triangulate fan-triangulates the object's polygons and moves the geometry
// to world space in the renderer convention. Faces with less than three
// corners or out of range indices are dropped. UVs and normals are kept
// only if every face has them.
func Triangulate(o *scene.Object) *Object {
	obj := &Object{Name: o.Name}
	data := o.Mesh
	if data == nil {
		return obj
	}

	world := utils.ToNoriCoord(o.MatrixWorld)
	normalMat := world.Mat3().Inv().Transpose()

	obj.Positions = make([]mgl32.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		obj.Positions[i] = mgl32.TransformCoordinate(mgl32.Vec3(v), world)
	}

	obj.HaveUV = len(data.UVs) != 0
	obj.HaveNorm = len(data.Normals) != 0
	for _, f := range data.Faces {
		if !validFace(data, f) {
			continue
		}
		if len(f.T) != len(f.V) {
			obj.HaveUV = false
		}
		if len(f.N) != len(f.V) {
			obj.HaveNorm = false
		}
	}

	if obj.HaveUV {
		obj.UVs = make([]mgl32.Vec2, len(data.UVs))
		for i, uv := range data.UVs {
			obj.UVs[i] = mgl32.Vec2(uv)
		}
	}
	if obj.HaveNorm {
		obj.Normals = make([]mgl32.Vec3, len(data.Normals))
		for i, n := range data.Normals {
			normal := normalMat.Mul3x1(mgl32.Vec3(n))
			if normal.Len() > 0 {
				normal = normal.Normalize()
			}
			obj.Normals[i] = normal
		}
	}

	for _, f := range data.Faces {
		if !validFace(data, f) {
			continue
		}
		for i := 1; i+1 < len(f.V); i++ {
			var tri Triangle
			corners := [3]int{0, i, i + 1}
			for c, corner := range corners {
				tri.V[c] = f.V[corner]
				if obj.HaveUV {
					tri.T[c] = f.T[corner]
				}
				if obj.HaveNorm {
					tri.N[c] = f.N[corner]
				}
			}
			obj.Triangles = append(obj.Triangles, tri)
		}
	}

	return obj
}

func validFace(data *scene.MeshData, f scene.Face) bool {
	if len(f.V) < 3 {
		return false
	}
	for _, v := range f.V {
		if int(v) >= len(data.Vertices) {
			return false
		}
	}
	for _, t := range f.T {
		if int(t) >= len(data.UVs) {
			return false
		}
	}
	for _, n := range f.N {
		if int(n) >= len(data.Normals) {
			return false
		}
	}
	return true
}
