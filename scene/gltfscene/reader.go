// Package gltfscene builds a host scene from a gltf or glb file, so scenes
// authored in any tool with a gltf exporter can be rendered.
package gltfscene

import (
	"math"
	"net/url"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspuntual"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/mogaika/nori_exporter/config"
	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/utils"
	"github.com/mogaika/nori_exporter/utils/gltfutils"
)

// lumens per watt the host uses to convert photometric light units
const wattsToLumens = 683

// full frame sensor width in millimeters, used to derive a focal length
const sensorWidth = 36

const (
	defaultResolutionX = 1920
	defaultResolutionY = 1080
	defaultClipEnd     = 1000
)

type Reader struct {
	UpAxis config.UpAxis
	log    *zap.SugaredLogger
}

func NewReader(up config.UpAxis, log *zap.SugaredLogger) *Reader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reader{UpAxis: up, log: log.Named("gltfscene")}
}

func (r *Reader) Open(path string) (*scene.Scene, error) {
	doc, err := gltfutils.Open(path)
	if err != nil {
		return nil, err
	}
	sc, err := r.Convert(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot convert %q", path)
	}
	return sc, nil
}

// Convert walks the default scene (or the first one) and turns every node
// carrying a mesh, camera or light into a host object.
func (r *Reader) Convert(doc *gltf.Document) (*scene.Scene, error) {
	c := &converter{
		Reader:    r,
		doc:       doc,
		materials: make(map[uint32]*scene.Material),
		sc: &scene.Scene{
			Render: scene.Render{
				ResolutionX:          defaultResolutionX,
				ResolutionY:          defaultResolutionY,
				ResolutionPercentage: 100,
			},
		},
	}

	lights, err := decodeLights(doc.Extensions)
	if err != nil {
		return nil, err
	}
	c.lights = lights

	if len(doc.Scenes) == 0 {
		r.log.Warn("Document has no scenes")
		return c.sc, nil
	}
	iScene := uint32(0)
	if doc.Scene != nil {
		iScene = *doc.Scene
	}
	if int(iScene) >= len(doc.Scenes) {
		return nil, errors.Errorf("Default scene %d out of range", iScene)
	}
	gs := doc.Scenes[iScene]
	c.sc.Name = gs.Name

	root := mgl32.Ident4()
	if r.UpAxis != config.UpZ {
		root = utils.YUpToZUp
	}
	for _, iNode := range gs.Nodes {
		if err := c.node(iNode, root, 0); err != nil {
			return nil, err
		}
	}

	r.log.Debugf("Converted scene %q: %d objects, %d materials", c.sc.Name, len(c.sc.Objects), len(c.materials))
	return c.sc, nil
}

type converter struct {
	*Reader
	doc       *gltf.Document
	sc        *scene.Scene
	lights    lightspuntual.Lights
	materials map[uint32]*scene.Material

	objectNames   utils.RandomNameGenerator
	materialNames utils.RandomNameGenerator
}

// nodes deeper than this are treated as a reference cycle
const maxDepth = 256

func (c *converter) node(iNode uint32, parent mgl32.Mat4, depth int) error {
	if int(iNode) >= len(c.doc.Nodes) {
		return errors.Errorf("Node %d out of range", iNode)
	}
	if depth > maxDepth {
		return errors.Errorf("Node %d nested too deep, the hierarchy has a cycle", iNode)
	}
	n := c.doc.Nodes[iNode]
	world := parent.Mul4(localMatrix(n))

	if n.Mesh != nil {
		obj, err := c.mesh(n, world)
		if err != nil {
			return errors.Wrapf(err, "Node %q mesh", n.Name)
		}
		c.sc.Objects = append(c.sc.Objects, obj)
	}
	if n.Camera != nil {
		obj, err := c.camera(n, world)
		if err != nil {
			return errors.Wrapf(err, "Node %q camera", n.Name)
		}
		c.sc.Objects = append(c.sc.Objects, obj)
		if c.sc.ActiveCamera == nil {
			c.sc.ActiveCamera = obj
		}
	}
	if ext, ok := n.Extensions[lightspuntual.ExtensionName]; ok {
		obj, err := c.light(n, ext, world)
		if err != nil {
			return errors.Wrapf(err, "Node %q light", n.Name)
		}
		c.sc.Objects = append(c.sc.Objects, obj)
	}

	for _, child := range n.Children {
		if err := c.node(child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// localMatrix uses the node matrix when it is set and composes TRS otherwise.
func localMatrix(n *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	for i, v := range n.Matrix {
		m[i] = float32(v)
	}
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}
	return utils.TRS(n.Translation, n.Rotation, n.Scale)
}

// object names fall back to the attached mesh, camera or light name
func (c *converter) object(name, fallback string, typ scene.ObjectType, world mgl32.Mat4) *scene.Object {
	if name == "" {
		name = fallback
	}
	return &scene.Object{
		Name:        c.objectNames.Unique(name),
		Type:        typ,
		Visible:     true,
		MatrixWorld: world,
	}
}

func (c *converter) mesh(n *gltf.Node, world mgl32.Mat4) (*scene.Object, error) {
	if int(*n.Mesh) >= len(c.doc.Meshes) {
		return nil, errors.Errorf("Mesh %d out of range", *n.Mesh)
	}
	gm := c.doc.Meshes[*n.Mesh]
	obj := c.object(n.Name, gm.Name, scene.TypeMesh, world)
	data := &scene.MeshData{}
	usedMaterials := make(map[uint32]struct{})

	for iPrimitive, p := range gm.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			c.log.Warnf("Mesh %q primitive %d: skipping mode %v, only triangles are supported", gm.Name, iPrimitive, p.Mode)
			continue
		}
		if err := c.primitive(data, p); err != nil {
			return nil, errors.Wrapf(err, "Primitive %d", iPrimitive)
		}

		if p.Material != nil {
			if _, used := usedMaterials[*p.Material]; used {
				continue
			}
			usedMaterials[*p.Material] = struct{}{}
			mat, err := c.material(*p.Material)
			if err != nil {
				return nil, err
			}
			obj.MaterialSlots = append(obj.MaterialSlots, &scene.MaterialSlot{Name: mat.Name, Material: mat})
		}
	}

	obj.Mesh = data
	return obj, nil
}

func (c *converter) accessor(i uint32) (*gltf.Accessor, error) {
	if int(i) >= len(c.doc.Accessors) {
		return nil, errors.Errorf("Accessor %d out of range", i)
	}
	return c.doc.Accessors[i], nil
}

// primitive appends the triangles of p to data. Uv and normal indices
// follow the vertex indices since gltf attributes are per vertex.
func (c *converter) primitive(data *scene.MeshData, p *gltf.Primitive) error {
	iPosition, ok := p.Attributes["POSITION"]
	if !ok {
		return errors.Errorf("No POSITION attribute")
	}
	acc, err := c.accessor(iPosition)
	if err != nil {
		return err
	}
	positions, err := modeler.ReadPosition(c.doc, acc, nil)
	if err != nil {
		return errors.Wrapf(err, "Failed to read positions")
	}

	var normals [][3]float32
	if i, ok := p.Attributes["NORMAL"]; ok {
		if acc, err = c.accessor(i); err != nil {
			return err
		}
		if normals, err = modeler.ReadNormal(c.doc, acc, nil); err != nil {
			return errors.Wrapf(err, "Failed to read normals")
		}
	}

	var uvs [][2]float32
	if i, ok := p.Attributes["TEXCOORD_0"]; ok {
		if acc, err = c.accessor(i); err != nil {
			return err
		}
		if uvs, err = modeler.ReadTextureCoord(c.doc, acc, nil); err != nil {
			return errors.Wrapf(err, "Failed to read texture coordinates")
		}
		for i := range uvs {
			uvs[i][1] = 1 - uvs[i][1]
		}
	}

	var indices []uint32
	if p.Indices != nil {
		if acc, err = c.accessor(*p.Indices); err != nil {
			return err
		}
		if indices, err = modeler.ReadIndices(c.doc, acc, nil); err != nil {
			return errors.Wrapf(err, "Failed to read indices")
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if len(indices)%3 != 0 {
		c.log.Warnf("Index count %d is not a multiple of 3, dropping the tail", len(indices))
	}

	base := uint32(len(data.Vertices))
	uvBase := uint32(len(data.UVs))
	normalBase := uint32(len(data.Normals))
	data.Vertices = append(data.Vertices, positions...)
	if len(uvs) == len(positions) {
		data.UVs = append(data.UVs, uvs...)
	} else {
		uvs = nil
	}
	if len(normals) == len(positions) {
		data.Normals = append(data.Normals, normals...)
	} else {
		normals = nil
	}

	for i := 0; i+2 < len(indices); i += 3 {
		tri := indices[i : i+3]
		f := scene.Face{V: []uint32{base + tri[0], base + tri[1], base + tri[2]}}
		if uvs != nil {
			f.T = []uint32{uvBase + tri[0], uvBase + tri[1], uvBase + tri[2]}
		}
		if normals != nil {
			f.N = []uint32{normalBase + tri[0], normalBase + tri[1], normalBase + tri[2]}
		}
		data.Faces = append(data.Faces, f)
	}
	return nil
}

func (c *converter) camera(n *gltf.Node, world mgl32.Mat4) (*scene.Object, error) {
	if int(*n.Camera) >= len(c.doc.Cameras) {
		return nil, errors.Errorf("Camera %d out of range", *n.Camera)
	}
	gc := c.doc.Cameras[*n.Camera]
	p := gc.Perspective
	if p == nil {
		return nil, errors.Errorf("Camera %q is not perspective", gc.Name)
	}

	aspect := float32(defaultResolutionX) / float32(defaultResolutionY)
	if p.AspectRatio != nil && *p.AspectRatio > 0 {
		aspect = *p.AspectRatio
		c.sc.Render.ResolutionY = int(math.Round(float64(defaultResolutionX) / float64(aspect)))
	}

	obj := c.object(n.Name, gc.Name, scene.TypeCamera, world)
	obj.Camera = &scene.Camera{
		Angle:     LargerFOV(p.Yfov, aspect),
		ClipStart: p.Znear,
		ClipEnd:   defaultClipEnd,
	}
	if p.Zfar != nil {
		obj.Camera.ClipEnd = *p.Zfar
	}
	obj.Camera.Lens = float32(sensorWidth / 2 / math.Tan(float64(obj.Camera.Angle)/2))
	return obj, nil
}

// LargerFOV converts a vertical field of view into the one along the larger
// image dimension.
func LargerFOV(yfov, aspect float32) float32 {
	if aspect <= 1 {
		return yfov
	}
	return float32(2 * math.Atan(math.Tan(float64(yfov)/2)*float64(aspect)))
}

func decodeLights(ext gltf.Extensions) (lightspuntual.Lights, error) {
	v, ok := ext[lightspuntual.ExtensionName]
	if !ok {
		return nil, nil
	}
	switch lights := v.(type) {
	case lightspuntual.Lights:
		return lights, nil
	case *lightspuntual.Lights:
		return *lights, nil
	}
	return nil, errors.Errorf("Unexpected %s document extension %T", lightspuntual.ExtensionName, v)
}

func lightIndex(v interface{}) (uint32, error) {
	switch idx := v.(type) {
	case lightspuntual.LightIndex:
		return uint32(idx), nil
	case *lightspuntual.LightIndex:
		return uint32(*idx), nil
	}
	return 0, errors.Errorf("Unexpected %s node extension %T", lightspuntual.ExtensionName, v)
}

func (c *converter) light(n *gltf.Node, ext interface{}, world mgl32.Mat4) (*scene.Object, error) {
	idx, err := lightIndex(ext)
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(c.lights) || c.lights[idx] == nil {
		return nil, errors.Errorf("Light reference %d out of range", idx)
	}
	pl := c.lights[idx]

	l := &scene.Light{Color: pl.ColorOrDefault()}
	intensity := pl.IntensityOrDefault()

	switch pl.Type {
	case lightspuntual.TypePoint:
		l.Type = scene.LightPoint
		l.Energy = CandelaToWatts(intensity)
	case lightspuntual.TypeSpot:
		l.Type = scene.LightSpot
		l.Energy = CandelaToWatts(intensity)
		inner, outer := float32(0), float32(math.Pi/4)
		if pl.Spot != nil {
			inner = pl.Spot.InnerConeAngle
			outer = pl.Spot.OuterConeAngleOrDefault()
		}
		l.SpotSize = 2 * outer
		if outer > 0 {
			l.SpotBlend = mgl32.Clamp(1-inner/outer, 0, 1)
		}
	case lightspuntual.TypeDirectional:
		l.Type = scene.LightSun
		l.Energy = intensity
	default:
		return nil, errors.Errorf("Unknown light type %q", pl.Type)
	}

	obj := c.object(n.Name, pl.Name, scene.TypeLight, world)
	obj.Light = l
	return obj, nil
}

// CandelaToWatts converts a punctual light intensity into the host's radiant power.
func CandelaToWatts(cd float32) float32 {
	return cd * 4 * math.Pi / wattsToLumens
}

func (c *converter) material(i uint32) (*scene.Material, error) {
	if mat, ok := c.materials[i]; ok {
		return mat, nil
	}
	if int(i) >= len(c.doc.Materials) {
		return nil, errors.Errorf("Material %d out of range", i)
	}
	gm := c.doc.Materials[i]

	baseColor := [4]float32{1, 1, 1, 1}
	metallic, roughness := float32(1), float32(1)
	var baseColorTexture, metallicRoughnessTexture *gltf.TextureInfo
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			baseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
		baseColorTexture = pbr.BaseColorTexture
		metallicRoughnessTexture = pbr.MetallicRoughnessTexture
	}

	g := &scene.Graph{}
	principled := &scene.Node{
		Name:  scene.KindPrincipled.String(),
		Label: scene.KindPrincipled.String(),
		Kind:  scene.KindPrincipled,
		Inputs: map[string]*scene.Socket{
			"Base Color": {Value: baseColor[:]},
			"Metallic":   {Value: []float32{metallic}},
			"Roughness":  {Value: []float32{roughness}},
		},
	}
	g.Nodes = append(g.Nodes, principled)

	if baseColorTexture != nil {
		principled.Inputs["Base Color"].Link = c.image(g, "Base Color Texture", baseColorTexture.Index)
	}
	if metallicRoughnessTexture != nil {
		img := c.image(g, "Metallic Roughness Texture", metallicRoughnessTexture.Index)
		principled.Inputs["Metallic"].Link = img
		principled.Inputs["Roughness"].Link = img
	}

	if nt := gm.NormalTexture; nt != nil && nt.Index != nil {
		if img := c.image(g, "Normal Texture", *nt.Index); img != nil {
			g.Nodes = append(g.Nodes, &scene.Node{
				Name:  scene.KindNormalMap.String(),
				Label: scene.KindNormalMap.String(),
				Kind:  scene.KindNormalMap,
				Inputs: map[string]*scene.Socket{
					"Color": {Value: []float32{0.5, 0.5, 1}, Link: img},
				},
			})
		}
	}

	if gm.EmissiveFactor != [3]float32{} {
		color := &scene.Socket{Value: gm.EmissiveFactor[:]}
		if gm.EmissiveTexture != nil {
			color.Link = c.image(g, "Emissive Texture", gm.EmissiveTexture.Index)
		}
		g.Nodes = append(g.Nodes, &scene.Node{
			Name:  scene.KindEmission.String(),
			Label: scene.KindEmission.String(),
			Kind:  scene.KindEmission,
			Inputs: map[string]*scene.Socket{
				"Color":    color,
				"Strength": {Value: []float32{1}},
			},
		})
	}

	mat := &scene.Material{
		Name:         c.materialNames.Unique(gm.Name),
		DiffuseColor: baseColor,
		Graph:        g,
	}
	c.materials[i] = mat
	return mat, nil
}

// image adds an image texture node for texture i to the graph. Textures
// without an external file (embedded in a buffer or a data uri) give nil.
func (c *converter) image(g *scene.Graph, name string, i uint32) *scene.Node {
	if int(i) >= len(c.doc.Textures) || c.doc.Textures[i].Source == nil {
		c.log.Warnf("Texture %d has no image source", i)
		return nil
	}
	iImage := *c.doc.Textures[i].Source
	if int(iImage) >= len(c.doc.Images) {
		c.log.Warnf("Texture %d image %d out of range", i, iImage)
		return nil
	}
	uri := c.doc.Images[iImage].URI
	if uri == "" || strings.HasPrefix(uri, "data:") {
		c.log.Debugf("Image %d is embedded, it cannot be referenced by path", iImage)
		return nil
	}
	if unescaped, err := url.PathUnescape(uri); err == nil {
		uri = unescaped
	}

	if existing := g.ByName(name); existing != nil {
		return existing
	}
	img := &scene.Node{
		Name:  name,
		Label: scene.KindImageTexture.String(),
		Kind:  scene.KindImageTexture,
		Image: uri,
	}
	g.Nodes = append(g.Nodes, img)
	return img
}
