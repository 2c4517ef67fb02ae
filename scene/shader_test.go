package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromLabel(t *testing.T) {
	for _, test := range []struct {
		label string
		kind  NodeKind
	}{
		{"Diffuse BSDF", KindDiffuse},
		{"Diffuse BSDF.001", KindDiffuse},
		{"Glass BSDF", KindGlass},
		{"Principled BSDF", KindPrincipled},
		{"Image Texture", KindImageTexture},
		{"Environment Texture", KindEnvironmentTexture},
		{"Specular", KindSpecular},
		{"Specular.", KindUnknown},
		{"Mix Shader", KindUnknown},
		{"", KindUnknown},
	} {
		assert.Equal(t, test.kind, KindFromLabel(test.label), test.label)
	}
}

func TestKindFromType(t *testing.T) {
	assert.Equal(t, KindGlossy, KindFromType("ShaderNodeBsdfAnisotropic"))
	assert.Equal(t, KindNormalMap, KindFromType("ShaderNodeNormalMap"))
	assert.Equal(t, KindUnknown, KindFromType("ShaderNodeMixShader"))
}

func TestSocketValues(t *testing.T) {
	var nilSocket *Socket
	assert.Equal(t, float32(0), nilSocket.Float())
	assert.Equal(t, [3]float32{}, nilSocket.RGB())
	assert.False(t, nilSocket.Linked())

	gray := &Socket{Value: []float32{0.5}}
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, gray.RGB())

	rgba := &Socket{Value: []float32{0.1, 0.2, 0.3, 1}}
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, rgba.RGB())
	assert.Equal(t, float32(0.1), rgba.Float())
}

func TestGraphFirst(t *testing.T) {
	a := &Node{Name: "a", Kind: KindDiffuse}
	b := &Node{Name: "b", Kind: KindDiffuse}
	g := &Graph{Nodes: []*Node{{Name: "x", Kind: KindEmission}, a, b}}

	assert.Same(t, a, g.First(KindDiffuse))
	assert.Same(t, b, g.ByName("b"))
	assert.Nil(t, g.First(KindGlass))
	assert.False(t, (*Graph)(nil).Has(KindDiffuse))
}
