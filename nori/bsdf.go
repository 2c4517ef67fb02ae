package nori

import (
	"github.com/mogaika/nori_exporter/xmldoc"
)

// BSDF is one of Diffuse, Dielectric, Microfacet, Principled, Mirror or NormalMap.
type BSDF interface {
	Type() string
	Element() *xmldoc.Element
	isBSDF()
}

type Diffuse struct {
	Albedo Value
}

type Dielectric struct {
	Color  Value
	IntIOR float32
}

type Microfacet struct {
	Kd    Value
	Alpha Value
}

type Principled struct {
	BaseColor          Value
	Metallic           Value
	Specular           Value
	SpecularTint       Value
	Roughness          Value
	Anisotropy         Value
	AniRotation        Value
	Sheen              Value
	SheenTint          Value
	Clearcoat          Value
	ClearcoatRoughness Value
}

type Mirror struct{}

// NormalMap perturbs shading normals and delegates to Inner.
type NormalMap struct {
	Normal Value
	Inner  BSDF
}

func (*Diffuse) isBSDF() {}
func (*Dielectric) isBSDF() {}
func (*Microfacet) isBSDF() {}
func (*Principled) isBSDF() {}
func (*Mirror) isBSDF() {}
func (*NormalMap) isBSDF() {}

func (*Diffuse) Type() string { return "diffuse" }
func (*Dielectric) Type() string { return "dielectric" }
func (*Microfacet) Type() string { return "microfacet" }
func (*Principled) Type() string { return "principled" }
func (*Mirror) Type() string { return "mirror" }
func (*NormalMap) Type() string { return "normal" }

func bsdfElement(b BSDF) *xmldoc.Element {
	return xmldoc.New("bsdf", "type", b.Type())
}

func (b *Diffuse) Element() *xmldoc.Element {
	return bsdfElement(b).Add(entry("albedo", b.Albedo))
}

func (b *Dielectric) Element() *xmldoc.Element {
	return bsdfElement(b).Add(
		entry("color", b.Color),
		Float(b.IntIOR).Entry("intIOR"),
	)
}

func (b *Microfacet) Element() *xmldoc.Element {
	return bsdfElement(b).Add(
		entry("kd", b.Kd),
		entry("alpha", b.Alpha),
	)
}

func (b *Principled) Element() *xmldoc.Element {
	return bsdfElement(b).Add(
		entry("base_color", b.BaseColor),
		entry("metallic", b.Metallic),
		entry("specular", b.Specular),
		entry("specular_tint", b.SpecularTint),
		entry("roughness", b.Roughness),
		entry("anisotropy", b.Anisotropy),
		entry("ani_rotation", b.AniRotation),
		entry("sheen", b.Sheen),
		entry("sheen_tint", b.SheenTint),
		entry("clearcoat", b.Clearcoat),
		entry("clearcoat_roughness", b.ClearcoatRoughness),
	)
}

func (b *Mirror) Element() *xmldoc.Element {
	return bsdfElement(b)
}

func (b *NormalMap) Element() *xmldoc.Element {
	e := bsdfElement(b).Add(entry("normal", b.Normal))
	if b.Inner != nil {
		e.Add(b.Inner.Element())
	}
	return e
}

// DefaultBSDF is used for objects without any material.
func DefaultBSDF() BSDF {
	return &Diffuse{Albedo: RGB{0.75, 0.75, 0.75}}
}
