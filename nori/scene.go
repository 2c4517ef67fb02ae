// Package nori models the scene description the Nori renderer reads and
// converts it into its xml form.
package nori

import (
	"io"
	"path"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/nori_exporter/utils"
	"github.com/mogaika/nori_exporter/xmldoc"
)

const (
	IntegratorType = "path_mis"
	SamplerType    = "independent"
	MeshesDir      = "meshes"
)

type Camera struct {
	// FOV in degrees
	FOV      float32
	NearClip float32
	FarClip  float32
	Width    int
	Height   int
	DOF      *DepthOfField
	ToWorld  mgl32.Mat4
}

type DepthOfField struct {
	FocalDistance float32
	LensRadius    float32
}

type Mesh struct {
	// Filename is relative to the scene file
	Filename string
	BSDFs    []BSDF
	Emitters []Emitter
}

type Scene struct {
	SampleCount int
	Camera      *Camera
	Emitters    []Emitter
	Meshes      []*Mesh
}

// MeshFilename is where the geometry of the named object is stored, relative to the scene file.
func MeshFilename(objectName string) string {
	return path.Join(MeshesDir, utils.FileName(objectName)+".obj")
}

func (c *Camera) Element() *xmldoc.Element {
	e := xmldoc.New("camera", "type", "perspective").Add(
		Float(c.FOV).Entry("fov"),
		Float(c.NearClip).Entry("nearClip"),
		Float(c.FarClip).Entry("farClip"),
		xmldoc.Entry("integer", "width", utils.FormatInt(c.Width)),
		xmldoc.Entry("integer", "height", utils.FormatInt(c.Height)),
	)
	if c.DOF != nil {
		e.Add(
			Float(c.DOF.FocalDistance).Entry("focalDistance"),
			Float(c.DOF.LensRadius).Entry("lensRadius"),
		)
	}
	return e.Add(Transform(c.ToWorld))
}

func (m *Mesh) Element() *xmldoc.Element {
	e := xmldoc.New("mesh", "type", "obj").Add(
		xmldoc.Entry("string", "filename", m.Filename),
	)
	bsdfs := m.BSDFs
	if len(bsdfs) == 0 {
		bsdfs = []BSDF{DefaultBSDF()}
	}
	for _, b := range bsdfs {
		e.Add(b.Element())
	}
	for _, em := range m.Emitters {
		e.Add(em.Element())
	}
	return e
}

func (s *Scene) Element() *xmldoc.Element {
	root := xmldoc.New("scene").Add(
		xmldoc.New("integrator", "type", IntegratorType),
		xmldoc.New("sampler", "type", SamplerType).Add(
			xmldoc.Entry("integer", "sampleCount", utils.FormatInt(s.SampleCount)),
		),
	)
	if s.Camera != nil {
		root.Add(s.Camera.Element())
	}
	for _, em := range s.Emitters {
		root.Add(em.Element())
	}
	for _, m := range s.Meshes {
		root.Add(m.Element())
	}
	return root
}

func (s *Scene) Write(w io.Writer) error {
	return xmldoc.WriteDocument(w, s.Element())
}
