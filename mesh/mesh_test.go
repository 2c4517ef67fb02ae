package mesh

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/nori_exporter/scene"
)

func quad(name string, world mgl32.Mat4) *scene.Object {
	return &scene.Object{
		Name:        name,
		Type:        scene.TypeMesh,
		Visible:     true,
		MatrixWorld: world,
		Mesh: &scene.MeshData{
			Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			UVs:      [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			Normals:  [][3]float32{{0, 0, 1}},
			Faces: []scene.Face{
				{V: []uint32{0, 1, 2, 3}, T: []uint32{0, 1, 2, 3}, N: []uint32{0, 0, 0, 0}},
				{V: []uint32{0, 1}},
				{V: []uint32{0, 1, 9}},
			},
		},
	}
}

func TestTriangulate(t *testing.T) {
	obj := Triangulate(quad("Plane", mgl32.Translate3D(0, 0, 2)))

	require.Len(t, obj.Triangles, 2)
	assert.Equal(t, [3]uint32{0, 1, 2}, obj.Triangles[0].V)
	assert.Equal(t, [3]uint32{0, 2, 3}, obj.Triangles[1].V)
	assert.True(t, obj.HaveUV)
	assert.True(t, obj.HaveNorm)

	// host z up becomes y up
	assert.True(t, obj.Positions[2].ApproxEqual(mgl32.Vec3{1, 2, -1}))
	assert.True(t, obj.Normals[0].ApproxEqual(mgl32.Vec3{0, 1, 0}))
}

func TestTriangulateDropsPartialAttributes(t *testing.T) {
	o := quad("Plane", mgl32.Ident4())
	o.Mesh.Faces = append(o.Mesh.Faces, scene.Face{V: []uint32{1, 2, 3}})

	obj := Triangulate(o)
	assert.Len(t, obj.Triangles, 3)
	assert.False(t, obj.HaveUV)
	assert.False(t, obj.HaveNorm)
	assert.Nil(t, obj.UVs)

	assert.Empty(t, Triangulate(&scene.Object{Name: "empty"}).Triangles)
}

func TestObjExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ObjExporter{}.Export(&buf, []*scene.Object{
		quad("A", mgl32.Ident4()),
		quad("B", mgl32.Ident4()),
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	faces := make([]string, 0)
	for _, l := range lines {
		if strings.HasPrefix(l, "f ") {
			faces = append(faces, l)
		}
	}
	require.Len(t, faces, 4)
	assert.Equal(t, "f 1/1/1 2/2/1 3/3/1", faces[0])
	// second object is offset by the first one's counts
	assert.Equal(t, "f 5/5/2 6/6/2 7/7/2", faces[2])
	assert.Contains(t, lines, "o A")
	assert.Contains(t, lines, "v 1.000000 0.000000 -1.000000")
}

func TestObjExportWithoutAttributes(t *testing.T) {
	o := &scene.Object{
		Name:        "Tri",
		MatrixWorld: mgl32.Ident4(),
		Mesh: &scene.MeshData{
			Vertices: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Faces:    []scene.Face{{V: []uint32{0, 1, 2}}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, ObjExporter{}.Export(&buf, []*scene.Object{o}))
	assert.Contains(t, buf.String(), "\nf 1 2 3\n")
}

func TestPreviewExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PreviewExporter{}.Export(&buf, []*scene.Object{
		quad("A", mgl32.Ident4()),
		{Name: "empty"},
	}))

	doc := &gltf.Document{}
	require.NoError(t, gltf.NewDecoder(&buf).Decode(doc))
	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, "A", doc.Meshes[0].Name)
	assert.Len(t, doc.Nodes, 1)
	assert.Len(t, doc.Scenes[0].Nodes, 1)
	assert.Equal(t, uint32(6), doc.Accessors[doc.Meshes[0].Primitives[0].Attributes["POSITION"]].Count)
}
