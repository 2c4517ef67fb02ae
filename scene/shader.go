package scene

import "strings"

type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindDiffuse
	KindGlass
	KindGlossy
	KindPrincipled
	KindSpecular
	KindNormalMap
	KindEmission
	KindImageTexture
	KindEnvironmentTexture
	KindBackground
)

var kindLabels = map[NodeKind]string{
	KindDiffuse:            "Diffuse BSDF",
	KindGlass:              "Glass BSDF",
	KindGlossy:             "Glossy BSDF",
	KindPrincipled:         "Principled BSDF",
	KindSpecular:           "Specular",
	KindNormalMap:          "Normal Map",
	KindEmission:           "Emission",
	KindImageTexture:       "Image Texture",
	KindEnvironmentTexture: "Environment Texture",
	KindBackground:         "Background",
}

// host type identifiers, these do not change when the user renames a node
var kindTypes = map[string]NodeKind{
	"ShaderNodeBsdfDiffuse":     KindDiffuse,
	"ShaderNodeBsdfGlass":       KindGlass,
	"ShaderNodeBsdfGlossy":      KindGlossy,
	"ShaderNodeBsdfAnisotropic": KindGlossy,
	"ShaderNodeBsdfPrincipled":  KindPrincipled,
	"ShaderNodeEeveeSpecular":   KindSpecular,
	"ShaderNodeNormalMap":       KindNormalMap,
	"ShaderNodeEmission":        KindEmission,
	"ShaderNodeTexImage":        KindImageTexture,
	"ShaderNodeTexEnvironment":  KindEnvironmentTexture,
	"ShaderNodeBackground":      KindBackground,
	"ShaderNodeBsdfSpecular":    KindSpecular,
}

func (k NodeKind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return "Unknown"
}

// KindFromLabel maps an editor display label ("Diffuse BSDF") to a node kind.
// Numbered duplicates the editor creates ("Diffuse BSDF.001") map to the same kind.
func KindFromLabel(label string) NodeKind {
	label = trimDuplicateSuffix(label)
	for k, l := range kindLabels {
		if l == label {
			return k
		}
	}
	return KindUnknown
}

// KindFromType maps a host node type identifier to a node kind.
func KindFromType(typ string) NodeKind {
	return kindTypes[typ]
}

func trimDuplicateSuffix(label string) string {
	i := strings.LastIndexByte(label, '.')
	if i < 0 || i == len(label)-1 {
		return label
	}
	for _, r := range label[i+1:] {
		if r < '0' || r > '9' {
			return label
		}
	}
	return label[:i]
}

// Socket is a node input. Value holds one component for float sockets and
// three or four for color sockets. Link is nil when nothing is connected.
type Socket struct {
	Value []float32
	Link  *Node
}

func (s *Socket) Linked() bool {
	return s != nil && s.Link != nil
}

func (s *Socket) Float() float32 {
	if s == nil || len(s.Value) == 0 {
		return 0
	}
	return s.Value[0]
}

func (s *Socket) RGB() [3]float32 {
	var c [3]float32
	if s == nil {
		return c
	}
	switch len(s.Value) {
	case 0:
	case 1, 2:
		c = [3]float32{s.Value[0], s.Value[0], s.Value[0]}
	default:
		copy(c[:], s.Value[:3])
	}
	return c
}

type Node struct {
	Name   string
	Label  string
	Kind   NodeKind
	Inputs map[string]*Socket
	// Image is the host path of the image an image or environment texture node samples.
	Image string
}

// Input returns nil when the node has no socket with that name.
func (n *Node) Input(name string) *Socket {
	if n == nil || n.Inputs == nil {
		return nil
	}
	return n.Inputs[name]
}

type Graph struct {
	Nodes []*Node
}

// First returns the first node of the kind in graph order, or nil.
func (g *Graph) First(kind NodeKind) *Node {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

func (g *Graph) Has(kind NodeKind) bool {
	return g.First(kind) != nil
}

func (g *Graph) ByName(name string) *Node {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}
