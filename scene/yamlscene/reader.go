// Package yamlscene reads host scene snapshots written as yaml documents.
package yamlscene

import (
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/utils"
)

type document struct {
	Name         string              `yaml:"name"`
	ActiveCamera string              `yaml:"active_camera"`
	Render       render              `yaml:"render"`
	World        []node              `yaml:"world"`
	Objects      []object            `yaml:"objects"`
	Materials    map[string]material `yaml:"materials"`
}

type render struct {
	ResolutionX          int  `yaml:"resolution_x"`
	ResolutionY          int  `yaml:"resolution_y"`
	ResolutionPercentage *int `yaml:"resolution_percentage"`
}

type object struct {
	Name          string         `yaml:"name"`
	Type          string         `yaml:"type"`
	Visible       *bool          `yaml:"visible"`
	MatrixWorld   *[4][4]float32 `yaml:"matrix_world"`
	Camera        *camera        `yaml:"camera"`
	Light         *light         `yaml:"light"`
	Mesh          *mesh          `yaml:"mesh"`
	MaterialSlots []string       `yaml:"material_slots"`
}

type camera struct {
	Angle     float32 `yaml:"angle"`
	ClipStart float32 `yaml:"clip_start"`
	ClipEnd   float32 `yaml:"clip_end"`
	Lens      float32 `yaml:"lens"`
	DOF       struct {
		Enabled       bool    `yaml:"enabled"`
		FocusDistance float32 `yaml:"focus_distance"`
		FStop         float32 `yaml:"fstop"`
	} `yaml:"dof"`
}

type light struct {
	Type      string     `yaml:"type"`
	Color     [3]float32 `yaml:"color"`
	Energy    float32    `yaml:"energy"`
	SpotSize  float32    `yaml:"spot_size"`
	SpotBlend float32    `yaml:"spot_blend"`
}

type mesh struct {
	Vertices [][3]float32 `yaml:"vertices"`
	UVs      [][2]float32 `yaml:"uvs"`
	Normals  [][3]float32 `yaml:"normals"`
	Faces    []struct {
		V []uint32 `yaml:"v"`
		T []uint32 `yaml:"t"`
		N []uint32 `yaml:"n"`
	} `yaml:"faces"`
}

type material struct {
	DiffuseColor *[4]float32 `yaml:"diffuse_color"`
	NodeTree     []node      `yaml:"node_tree"`
}

type node struct {
	Name   string            `yaml:"name"`
	Label  string            `yaml:"label"`
	Type   string            `yaml:"type"`
	Image  string            `yaml:"image"`
	Inputs map[string]socket `yaml:"inputs"`
}

type socket struct {
	Value floats `yaml:"value"`
	Link  string `yaml:"link"`
}

// floats accepts either a single number or a list of numbers.
type floats []float32

func (f *floats) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float32
		if err := value.Decode(&v); err != nil {
			return err
		}
		*f = floats{v}
		return nil
	}
	var list []float32
	if err := value.Decode(&list); err != nil {
		return err
	}
	*f = list
	return nil
}

var defaultDiffuseColor = [4]float32{0.8, 0.8, 0.8, 1}

func Open(path string, log *zap.SugaredLogger) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open scene %q", path)
	}
	defer f.Close()

	sc, err := Decode(f, log)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot load scene %q", path)
	}
	return sc, nil
}

func Decode(r io.Reader, log *zap.SugaredLogger) (*scene.Scene, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log = log.Named("yamlscene")

	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode yaml")
	}

	sc := &scene.Scene{
		Name: doc.Name,
		Render: scene.Render{
			ResolutionX:          doc.Render.ResolutionX,
			ResolutionY:          doc.Render.ResolutionY,
			ResolutionPercentage: 100,
		},
	}
	if doc.Render.ResolutionPercentage != nil {
		sc.Render.ResolutionPercentage = *doc.Render.ResolutionPercentage
	}

	if doc.World != nil {
		g, err := buildGraph(doc.World)
		if err != nil {
			return nil, errors.Wrapf(err, "World")
		}
		sc.World = &scene.World{Graph: g}
	}

	materials := make(map[string]*scene.Material, len(doc.Materials))
	for name, m := range doc.Materials {
		mat, err := buildMaterial(name, m)
		if err != nil {
			return nil, errors.Wrapf(err, "Material %q", name)
		}
		materials[name] = mat
	}

	for i, o := range doc.Objects {
		obj, err := buildObject(o, materials, log)
		if err != nil {
			return nil, errors.Wrapf(err, "Object %d %q", i, o.Name)
		}
		sc.Objects = append(sc.Objects, obj)
	}

	if doc.ActiveCamera != "" {
		sc.ActiveCamera = sc.Object(doc.ActiveCamera)
		if sc.ActiveCamera == nil {
			return nil, errors.Errorf("Active camera %q not found", doc.ActiveCamera)
		}
	}

	log.Debugf("Loaded scene %q: %d objects, %d materials", sc.Name, len(sc.Objects), len(materials))
	return sc, nil
}

func buildObject(o object, materials map[string]*scene.Material, log *zap.SugaredLogger) (*scene.Object, error) {
	obj := &scene.Object{
		Name:        o.Name,
		Type:        scene.ObjectType(strings.ToUpper(o.Type)),
		Visible:     o.Visible == nil || *o.Visible,
		MatrixWorld: mgl32.Ident4(),
	}
	if o.Type == "" {
		obj.Type = scene.TypeEmpty
	}
	if o.MatrixWorld != nil {
		obj.MatrixWorld = utils.MatFromRows(*o.MatrixWorld)
	}

	if c := o.Camera; c != nil {
		obj.Camera = &scene.Camera{
			Angle:     c.Angle,
			ClipStart: c.ClipStart,
			ClipEnd:   c.ClipEnd,
			Lens:      c.Lens,
			DOF: scene.DepthOfField{
				Enabled:       c.DOF.Enabled,
				FocusDistance: c.DOF.FocusDistance,
				FStop:         c.DOF.FStop,
			},
		}
	}
	if l := o.Light; l != nil {
		obj.Light = &scene.Light{
			Type:      scene.LightType(strings.ToUpper(l.Type)),
			Color:     l.Color,
			Energy:    l.Energy,
			SpotSize:  l.SpotSize,
			SpotBlend: l.SpotBlend,
		}
	}
	if m := o.Mesh; m != nil {
		obj.Mesh = &scene.MeshData{
			Vertices: m.Vertices,
			UVs:      m.UVs,
			Normals:  m.Normals,
			Faces:    make([]scene.Face, len(m.Faces)),
		}
		for i, f := range m.Faces {
			obj.Mesh.Faces[i] = scene.Face{V: f.V, T: f.T, N: f.N}
		}
	}

	switch obj.Type {
	case scene.TypeCamera:
		if obj.Camera == nil {
			return nil, errors.Errorf("Camera object without camera data")
		}
	case scene.TypeLight:
		if obj.Light == nil {
			return nil, errors.Errorf("Light object without light data")
		}
	}

	for _, name := range o.MaterialSlots {
		slot := &scene.MaterialSlot{Name: name}
		if name != "" {
			slot.Material = materials[name]
			if slot.Material == nil {
				log.Warnf("Object %q references unknown material %q", o.Name, name)
			}
		}
		obj.MaterialSlots = append(obj.MaterialSlots, slot)
	}
	return obj, nil
}

func buildMaterial(name string, m material) (*scene.Material, error) {
	mat := &scene.Material{Name: name, DiffuseColor: defaultDiffuseColor}
	if m.DiffuseColor != nil {
		mat.DiffuseColor = *m.DiffuseColor
	}
	if m.NodeTree != nil {
		g, err := buildGraph(m.NodeTree)
		if err != nil {
			return nil, err
		}
		mat.Graph = g
	}
	return mat, nil
}

// buildGraph creates the nodes first and then resolves socket links by node name.
func buildGraph(nodes []node) (*scene.Graph, error) {
	g := &scene.Graph{Nodes: make([]*scene.Node, len(nodes))}
	byName := make(map[string]*scene.Node, len(nodes))

	for i, n := range nodes {
		if n.Name == "" {
			return nil, errors.Errorf("Node %d has no name", i)
		}
		if _, exists := byName[n.Name]; exists {
			return nil, errors.Errorf("Duplicate node name %q", n.Name)
		}
		g.Nodes[i] = &scene.Node{
			Name:   n.Name,
			Label:  n.Label,
			Kind:   nodeKind(n),
			Image:  n.Image,
			Inputs: make(map[string]*scene.Socket, len(n.Inputs)),
		}
		byName[n.Name] = g.Nodes[i]
	}

	for i, n := range nodes {
		for socketName, s := range n.Inputs {
			sock := &scene.Socket{Value: s.Value}
			if s.Link != "" {
				sock.Link = byName[s.Link]
				if sock.Link == nil {
					return nil, errors.Errorf("Node %q input %q links to unknown node %q", n.Name, socketName, s.Link)
				}
			}
			g.Nodes[i].Inputs[socketName] = sock
		}
	}
	return g, nil
}

// nodeKind prefers the type identifier, then the label, then the name.
// A custom label ("Red paint") does not hide a recognizable name.
func nodeKind(n node) scene.NodeKind {
	if k := scene.KindFromType(n.Type); k != scene.KindUnknown {
		return k
	}
	if k := scene.KindFromLabel(n.Label); k != scene.KindUnknown {
		return k
	}
	return scene.KindFromLabel(n.Name)
}
