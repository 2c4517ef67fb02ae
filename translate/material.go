// Package translate maps host shading graphs onto the renderer's fixed set
// of BSDFs. Matching is best effort: known nodes are looked up by kind in a
// fixed priority and anything unknown falls back to a flat diffuse.
package translate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mogaika/nori_exporter/nori"
	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/utils"
)

type Options struct {
	ExportTextures bool
	ExportLights   bool
}

type Translator struct {
	Options
	log *zap.SugaredLogger
}

func NewTranslator(opts Options, log *zap.SugaredLogger) *Translator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Translator{Options: opts, log: log.Named("material")}
}

// Result is the translation of one material slot. Emitter is set only for
// emissive materials when lights are exported.
type Result struct {
	BSDF    nori.BSDF
	Emitter nori.Emitter
}

// Material translates one slot. It never fails: unknown graphs degrade to a diffuse BSDF.
func (t *Translator) Material(slot *scene.MaterialSlot) Result {
	if slot == nil || slot.Material == nil {
		return Result{BSDF: nori.DefaultBSDF()}
	}
	mat := slot.Material
	if mat.Graph == nil {
		t.log.Warnf("Material %q has no node tree, using its diffuse color", mat.Name)
		return Result{BSDF: flatDiffuse(mat)}
	}

	g := mat.Graph
	r := t.resolverFor(scene.KindImageTexture)

	result := Result{BSDF: t.surface(mat, r)}

	if normal := g.First(scene.KindNormalMap); normal != nil {
		result.BSDF = &nori.NormalMap{
			Normal: r.color(normal.Input("Color")),
			Inner:  result.BSDF,
		}
	}

	if emission := g.First(scene.KindEmission); emission != nil && t.ExportLights {
		result.Emitter = &nori.AreaLight{
			Radiance: r.color(emission.Input("Color")),
			Strength: emission.Input("Strength").Float(),
		}
	}

	return result
}

func (t *Translator) surface(mat *scene.Material, r resolver) nori.BSDF {
	g := mat.Graph

	if glass := g.First(scene.KindGlass); glass != nil {
		return &nori.Dielectric{
			Color:  r.color(glass.Input("Color")),
			IntIOR: glass.Input("IOR").Float(),
		}
	} else if glossy := g.First(scene.KindGlossy); glossy != nil {
		return &nori.Microfacet{
			Kd:    r.color(glossy.Input("Color")),
			Alpha: r.float(glossy.Input("Roughness")),
		}
	} else if diffuse := g.First(scene.KindDiffuse); diffuse != nil {
		return &nori.Diffuse{
			Albedo: r.color(diffuse.Input("Color")),
		}
	} else if p := g.First(scene.KindPrincipled); p != nil {
		return &nori.Principled{
			BaseColor:          r.color(p.Input("Base Color")),
			Metallic:           r.float(p.Input("Metallic")),
			Specular:           r.float(p.Input("Specular")),
			SpecularTint:       r.float(p.Input("Specular Tint")),
			Roughness:          r.float(p.Input("Roughness")),
			Anisotropy:         r.float(p.Input("Anisotropic")),
			AniRotation:        r.float(p.Input("Anisotropic Rotation")),
			Sheen:              r.float(p.Input("Sheen")),
			SheenTint:          r.float(p.Input("Sheen Tint")),
			Clearcoat:          r.float(p.Input("Clearcoat")),
			ClearcoatRoughness: r.float(p.Input("Clearcoat Roughness")),
		}
	} else if g.Has(scene.KindSpecular) {
		return &nori.Mirror{}
	}

	t.log.Debugf("Material %q has no supported BSDF node, using its diffuse color", mat.Name)
	return flatDiffuse(mat)
}

// World translates the background graph into an environment light, or nil
// when the world has no background node.
func (t *Translator) World(w *scene.World) *nori.EnvLight {
	if w == nil || w.Graph == nil {
		return nil
	}
	bg := w.Graph.First(scene.KindBackground)
	if bg == nil {
		return nil
	}
	r := t.resolverFor(scene.KindEnvironmentTexture)
	return &nori.EnvLight{
		Radiance: r.color(bg.Input("Color")),
		Strength: bg.Input("Strength").Float(),
		ToWorld:  utils.ZUpToYUp,
	}
}

func flatDiffuse(mat *scene.Material) nori.BSDF {
	c := mat.DiffuseColor
	return &nori.Diffuse{Albedo: nori.RGB{c[0], c[1], c[2]}}
}

// resolver decides between a texture file and a socket constant.
type resolver struct {
	exportTextures bool
	producer       scene.NodeKind
}

func (t *Translator) resolverFor(producer scene.NodeKind) resolver {
	return resolver{exportTextures: t.ExportTextures, producer: producer}
}

func (r resolver) texture(s *scene.Socket) (nori.Texture, bool) {
	if !r.exportTextures || !s.Linked() || s.Link.Kind != r.producer {
		return "", false
	}
	return nori.Texture(TexturePath(s.Link.Image)), true
}

func (r resolver) color(s *scene.Socket) nori.Value {
	if tex, ok := r.texture(s); ok {
		return tex
	}
	return nori.RGB(s.RGB())
}

func (r resolver) float(s *scene.Socket) nori.Value {
	if tex, ok := r.texture(s); ok {
		return tex
	}
	return nori.Float(s.Float())
}

// TexturePath strips the host's "relative to the scene file" marker.
func TexturePath(p string) string {
	return strings.TrimPrefix(p, "//")
}
