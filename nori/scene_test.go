package nori

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/nori_exporter/utils"
	"github.com/mogaika/nori_exporter/xmldoc"
)

func TestBSDFElements(t *testing.T) {
	for _, test := range []struct {
		bsdf BSDF
		xml  string
	}{
		{
			&Diffuse{Albedo: RGB{0.8, 0.2, 0.2}},
			`<bsdf type="diffuse">
	<color name="albedo" value="0.8, 0.2, 0.2"/>
</bsdf>`,
		}, {
			&Dielectric{Color: Texture("tex/glass.png"), IntIOR: 1.45},
			`<bsdf type="dielectric">
	<string name="color" value="tex/glass.png"/>
	<float name="intIOR" value="1.45"/>
</bsdf>`,
		}, {
			&Microfacet{Kd: RGB{1, 1, 1}, Alpha: Float(0.5)},
			`<bsdf type="microfacet">
	<color name="kd" value="1, 1, 1"/>
	<float name="alpha" value="0.5"/>
</bsdf>`,
		}, {
			&Mirror{},
			`<bsdf type="mirror"/>`,
		}, {
			&NormalMap{Normal: Texture("n.png"), Inner: &Mirror{}},
			`<bsdf type="normal">
	<string name="normal" value="n.png"/>
	<bsdf type="mirror"/>
</bsdf>`,
		},
	} {
		assert.Equal(t, test.xml, test.bsdf.Element().String(), test.bsdf.Type())
	}
}

func TestPrincipledParameterOrder(t *testing.T) {
	p := &Principled{
		BaseColor: RGB{1, 0, 0}, Metallic: Texture("tex/metal.png"), Specular: Float(0.5),
		SpecularTint: Float(0), Roughness: Float(0.4), Anisotropy: Float(0), AniRotation: Float(0),
		Sheen: Float(0), SheenTint: Float(0.5), Clearcoat: Float(0), ClearcoatRoughness: Float(0.03),
	}
	e := p.Element()

	names := make([]string, 0)
	for _, c := range e.Children {
		n, _ := c.Attr("name")
		names = append(names, n)
	}
	assert.Equal(t, []string{
		"base_color", "metallic", "specular", "specular_tint", "roughness", "anisotropy",
		"ani_rotation", "sheen", "sheen_tint", "clearcoat", "clearcoat_roughness",
	}, names)
	assert.Equal(t, "string", e.Param("metallic").Name)
}

func TestCameraDepthOfField(t *testing.T) {
	c := &Camera{FOV: 39.6, NearClip: 0.1, FarClip: 100, Width: 960, Height: 540, ToWorld: mgl32.Ident4()}
	e := c.Element()
	assert.Nil(t, e.Param("focalDistance"))
	assert.Nil(t, e.Param("lensRadius"))
	assert.NotNil(t, e.Param("toWorld"))

	c.DOF = &DepthOfField{FocalDistance: 5, LensRadius: 0.0125}
	e = c.Element()
	v, _ := e.Param("lensRadius").Attr("value")
	assert.Equal(t, "0.0125", v)
	// transform stays last
	assert.Equal(t, "transform", e.Children[len(e.Children)-1].Name)
}

func TestMeshDefaultBSDF(t *testing.T) {
	m := &Mesh{Filename: MeshFilename("Cube")}
	e := m.Element()

	v, _ := e.Param("filename").Attr("value")
	assert.Equal(t, "meshes/Cube.obj", v)
	bsdfs := e.Find("bsdf")
	require.Len(t, bsdfs, 1)
	albedo, _ := bsdfs[0].Param("albedo").Attr("value")
	assert.Equal(t, "0.75, 0.75, 0.75", albedo)
}

func TestSceneOrderAndMatrixRoundTrip(t *testing.T) {
	toWorld := utils.MatFromRows([4][4]float32{
		{-1, 0, 0, 7.358891},
		{0, 0.5, 0.8660254, 4.958309},
		{0, 0.8660254, -0.5, -6.925791},
		{0, 0, 0, 1},
	})
	s := &Scene{
		SampleCount: 32,
		Camera:      &Camera{FOV: 40, Width: 10, Height: 10, ToWorld: toWorld},
		Emitters:    []Emitter{&PointLight{Position: mgl32.Vec3{1, 2, 3}, Color: RGB{1, 1, 1}, Power: 100}},
		Meshes:      []*Mesh{{Filename: "meshes/a.obj", Emitters: []Emitter{&AreaLight{Radiance: RGB{1, 1, 1}, Strength: 2}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	root, err := xmldoc.Parse(&buf)
	require.NoError(t, err)
	order := make([]string, 0)
	for _, c := range root.Children {
		order = append(order, c.Name)
	}
	assert.Equal(t, []string{"integrator", "sampler", "camera", "emitter", "mesh"}, order)

	integrator, _ := root.Children[0].Attr("type")
	assert.Equal(t, "path_mis", integrator)
	samples, _ := root.Children[1].Param("sampleCount").Attr("value")
	assert.Equal(t, "32", samples)

	matrix := root.Find("camera")[0].Param("toWorld").Find("matrix")[0]
	value, _ := matrix.Attr("value")
	parsed, err := utils.ParseMatrix(value)
	require.NoError(t, err)
	assert.True(t, parsed.ApproxEqualThreshold(toWorld, 1e-6))

	area := root.Find("mesh")[0].Find("emitter")
	require.Len(t, area, 1)
	typ, _ := area[0].Attr("type")
	assert.Equal(t, "area", typ)
}
