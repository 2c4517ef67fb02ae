package nori

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/nori_exporter/utils"
	"github.com/mogaika/nori_exporter/xmldoc"
)

// Emitter is one of PointLight, SpotLight, EnvLight or AreaLight.
type Emitter interface {
	Type() string
	Element() *xmldoc.Element
	isEmitter()
}

type PointLight struct {
	Position mgl32.Vec3
	Color    RGB
	Power    float32
}

type SpotLight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
	Color     RGB
	Power     float32
	// CutoffAngle is the half cone angle in degrees, BeamWidth is the
	// angle in degrees where the falloff starts.
	CutoffAngle float32
	BeamWidth   float32
}

type EnvLight struct {
	Radiance Value
	Strength float32
	ToWorld  mgl32.Mat4
}

// AreaLight is attached to a mesh and emits from its surface.
type AreaLight struct {
	Radiance Value
	Strength float32
}

func (*PointLight) isEmitter() {}
func (*SpotLight) isEmitter() {}
func (*EnvLight) isEmitter() {}
func (*AreaLight) isEmitter() {}

func (*PointLight) Type() string { return "point" }
func (*SpotLight) Type() string { return "spot" }
func (*EnvLight) Type() string { return "env_light" }
func (*AreaLight) Type() string { return "area" }

func emitterElement(e Emitter) *xmldoc.Element {
	return xmldoc.New("emitter", "type", e.Type())
}

func (l *PointLight) Element() *xmldoc.Element {
	return emitterElement(l).Add(
		xmldoc.Entry("point", "position", utils.FormatPoint(l.Position)),
		l.Color.Entry("color"),
		Float(l.Power).Entry("power"),
	)
}

func (l *SpotLight) Element() *xmldoc.Element {
	return emitterElement(l).Add(
		xmldoc.Entry("point", "position", utils.FormatPoint(l.Position)),
		xmldoc.Entry("vector", "direction", utils.FormatPoint(l.Direction)),
		l.Color.Entry("color"),
		Float(l.Power).Entry("power"),
		Float(l.CutoffAngle).Entry("cutoffAngle"),
		Float(l.BeamWidth).Entry("beamWidth"),
	)
}

func (l *EnvLight) Element() *xmldoc.Element {
	return emitterElement(l).Add(
		entry("radiance", l.Radiance),
		Float(l.Strength).Entry("strength"),
		Transform(l.ToWorld),
	)
}

func (l *AreaLight) Element() *xmldoc.Element {
	return emitterElement(l).Add(
		entry("radiance", l.Radiance),
		Float(l.Strength).Entry("strength"),
	)
}

// Transform writes <transform name="toWorld"><matrix value="..."/></transform>.
func Transform(m mgl32.Mat4) *xmldoc.Element {
	return xmldoc.New("transform", "name", "toWorld").Add(
		xmldoc.New("matrix", "value", utils.FormatMatrix(m)),
	)
}
