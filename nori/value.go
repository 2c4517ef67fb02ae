package nori

import (
	"github.com/mogaika/nori_exporter/utils"
	"github.com/mogaika/nori_exporter/xmldoc"
)

// Value is a shading parameter: a constant or a texture file.
type Value interface {
	Entry(name string) *xmldoc.Element
}

type Float float32

type RGB [3]float32

// Texture is an image path relative to the scene file.
type Texture string

func (f Float) Entry(name string) *xmldoc.Element {
	return xmldoc.Entry("float", name, utils.FormatFloat(float32(f)))
}

func (c RGB) Entry(name string) *xmldoc.Element {
	return xmldoc.Entry("color", name, utils.FormatRGB(c))
}

func (t Texture) Entry(name string) *xmldoc.Element {
	return xmldoc.Entry("string", name, string(t))
}

func entry(name string, v Value) *xmldoc.Element {
	if v == nil {
		return nil
	}
	return v.Entry(name)
}
