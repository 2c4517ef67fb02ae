package mesh

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/utils/gltfutils"
)

// PreviewExporter writes all objects into one binary gltf with a single
// default material. It is meant for checking placement in any viewer.
type PreviewExporter struct{}

func (PreviewExporter) Export(w io.Writer, objects []*scene.Object) error {
	doc := gltfutils.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "default",
		DoubleSided: true,
	})

	for _, o := range objects {
		obj := Triangulate(o)
		if len(obj.Triangles) == 0 {
			continue
		}

		// corners are unrolled, obj style separate uv/normal indices do not map to gltf
		verticesCount := len(obj.Triangles) * 3
		positions := make([][3]float32, 0, verticesCount)
		var normals [][3]float32
		var uvs [][2]float32
		indices := make([]uint32, 0, verticesCount)

		for _, tri := range obj.Triangles {
			for c := 0; c < 3; c++ {
				indices = append(indices, uint32(len(positions)))
				positions = append(positions, obj.Positions[tri.V[c]])
				if obj.HaveNorm {
					normals = append(normals, obj.Normals[tri.N[c]])
				}
				if obj.HaveUV {
					uv := obj.UVs[tri.T[c]]
					uvs = append(uvs, [2]float32{uv[0], 1 - uv[1]})
				}
			}
		}

		attributes := map[string]uint32{
			"POSITION": modeler.WritePosition(doc, positions),
		}
		if normals != nil {
			attributes["NORMAL"] = modeler.WriteNormal(doc, normals)
		}
		if uvs != nil {
			attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, uvs)
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: obj.Name,
			Primitives: []*gltf.Primitive{
				{
					Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
					Attributes: attributes,
					Material:   gltf.Index(0),
				},
			},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: obj.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	return gltfutils.ExportBinary(w, doc)
}
