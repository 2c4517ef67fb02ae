// Package exporter walks a host scene and writes the renderer scene file
// together with one obj file per visible mesh.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/nori_exporter/config"
	"github.com/mogaika/nori_exporter/mesh"
	"github.com/mogaika/nori_exporter/nori"
	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/translate"
	"github.com/mogaika/nori_exporter/utils"
)

const PreviewFileName = "preview.glb"

type Writer struct {
	opts       config.Options
	log        *zap.SugaredLogger
	translator *translate.Translator

	// Geometry writes per object mesh files, Preview the optional preview file.
	Geometry mesh.Exporter
	Preview  mesh.Exporter
}

func NewWriter(opts config.Options, log *zap.SugaredLogger) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{
		opts: opts,
		log:  log.Named("exporter"),
		translator: translate.NewTranslator(translate.Options{
			ExportTextures: opts.ExportTextures,
			ExportLights:   opts.ExportLights,
		}, log),
		Geometry: mesh.ObjExporter{},
		Preview:  mesh.PreviewExporter{},
	}
}

// Write converts the scene and writes it to path. Mesh files go to the
// meshes directory next to it, which is created when missing.
func (wr *Writer) Write(sc *scene.Scene, path string) error {
	workingDir := filepath.Dir(path)
	if err := os.MkdirAll(filepath.Join(workingDir, nori.MeshesDir), 0777); err != nil {
		return errors.Wrapf(err, "Can't create meshes directory")
	}

	doc := &nori.Scene{
		SampleCount: wr.opts.Samples,
		Camera:      wr.Camera(sc),
	}

	if wr.opts.ExportLights {
		doc.Emitters = wr.Lights(sc)
	}

	meshes := wr.meshObjects(sc)
	for _, m := range meshes {
		entry, err := wr.writeMesh(workingDir, m)
		if err != nil {
			return err
		}
		doc.Meshes = append(doc.Meshes, entry)
	}

	if wr.opts.PreviewGLB {
		objects := make([]*scene.Object, len(meshes))
		for i, m := range meshes {
			objects[i] = m.object
		}
		if err := writeFile(filepath.Join(workingDir, PreviewFileName), func(f *os.File) error {
			return wr.Preview.Export(f, objects)
		}); err != nil {
			return errors.Wrapf(err, "Can't write preview")
		}
	}

	if err := writeFile(path, func(f *os.File) error {
		return doc.Write(f)
	}); err != nil {
		return errors.Wrapf(err, "Can't write scene file")
	}

	wr.log.Infof("Exported %d meshes and %d lights to %s", len(doc.Meshes), len(doc.Emitters), path)
	return nil
}

// Camera converts the scene's single exported camera, nil when there is none.
func (wr *Writer) Camera(sc *scene.Scene) *nori.Camera {
	cameras := sc.ObjectsOfType(scene.TypeCamera)
	if len(cameras) == 0 {
		wr.log.Warn("No camera to export")
		return nil
	}

	cam := sc.ActiveCamera
	if len(cameras) > 1 {
		wr.log.Warn("Does not handle multiple cameras, only export the active one")
	}
	if cam == nil || cam.Type != scene.TypeCamera || cam.Camera == nil {
		cam = cameras[0]
	}
	if cam.Camera == nil {
		wr.log.Warnf("Camera object %q has no camera data", cam.Name)
		return nil
	}
	data := cam.Camera

	percent := float64(sc.Render.ResolutionPercentage) / 100.0
	if sc.Render.ResolutionPercentage <= 0 {
		percent = 1
	}

	c := &nori.Camera{
		FOV:      utils.RadToDeg(data.Angle),
		NearClip: data.ClipStart,
		FarClip:  data.ClipEnd,
		Width:    int(float64(sc.Render.ResolutionX) * percent),
		Height:   int(float64(sc.Render.ResolutionY) * percent),
		ToWorld:  utils.NoriCameraMatrix(cam.MatrixWorld),
	}

	if data.DOF.Enabled {
		c.DOF = &nori.DepthOfField{
			FocalDistance: data.DOF.FocusDistance,
			LensRadius:    LensRadius(data.Lens, data.DOF.FStop),
		}
	}

	wr.log.Debugf("Camera %q: fov %v, %dx%d", cam.Name, c.FOV, c.Width, c.Height)
	return c
}

// LensRadius converts a focal length in millimeters and an f-stop into an
// aperture radius in meters.
func LensRadius(focalLengthMM, fstop float32) float32 {
	if fstop <= 0 {
		return 0
	}
	return (focalLengthMM / 1000) / (2 * fstop)
}

// Lights converts visible point and spot lights and the world background.
func (wr *Writer) Lights(sc *scene.Scene) []nori.Emitter {
	emitters := make([]nori.Emitter, 0)

	for _, o := range sc.ObjectsOfType(scene.TypeLight) {
		if !o.Visible || o.Light == nil {
			continue
		}
		world := utils.ToNoriCoord(o.MatrixWorld)
		l := o.Light

		switch l.Type {
		case scene.LightPoint:
			emitters = append(emitters, &nori.PointLight{
				Position: utils.Translation(world),
				Color:    nori.RGB(l.Color),
				Power:    l.Energy,
			})
		case scene.LightSpot:
			cutoff := utils.RadToDeg(l.SpotSize / 2)
			emitters = append(emitters, &nori.SpotLight{
				Position:    utils.Translation(world),
				Direction:   utils.Forward(world),
				Color:       nori.RGB(l.Color),
				Power:       l.Energy,
				CutoffAngle: cutoff,
				BeamWidth:   cutoff * (1 - l.SpotBlend),
			})
		default:
			wr.log.Debugf("Skipping light %q of unsupported type %s", o.Name, l.Type)
		}
	}

	if env := wr.translator.World(sc.World); env != nil {
		emitters = append(emitters, env)
	}

	return emitters
}

type meshObject struct {
	object   *scene.Object
	filename string
}

// meshObjects lists visible mesh-like objects with unique file names.
func (wr *Writer) meshObjects(sc *scene.Scene) []meshObject {
	result := make([]meshObject, 0)
	used := make(map[string]struct{})

	for _, o := range sc.Objects {
		if !o.IsMeshLike() || !o.Visible {
			continue
		}
		if o.Mesh == nil {
			wr.log.Warnf("Object %q of type %s has no geometry, skipping", o.Name, o.Type)
			continue
		}
		filename := nori.MeshFilename(o.Name)
		for i := 1; ; i++ {
			if _, exists := used[filename]; !exists {
				break
			}
			filename = nori.MeshFilename(fmt.Sprintf("%s.%.3d", o.Name, i))
		}
		used[filename] = struct{}{}
		result = append(result, meshObject{object: o, filename: filename})
	}
	return result
}

func (wr *Writer) writeMesh(workingDir string, m meshObject) (*nori.Mesh, error) {
	o := m.object
	objPath := filepath.Join(workingDir, filepath.FromSlash(m.filename))

	if err := writeFile(objPath, func(f *os.File) error {
		return wr.Geometry.Export(f, []*scene.Object{o})
	}); err != nil {
		return nil, errors.Wrapf(err, "Can't export geometry of %q", o.Name)
	}
	wr.log.Debugf("Mesh %q written to %s", o.Name, objPath)

	entry := &nori.Mesh{Filename: m.filename}
	if !o.HasMaterial() {
		entry.BSDFs = append(entry.BSDFs, nori.DefaultBSDF())
		return entry, nil
	}

	for _, slot := range o.MaterialSlots {
		res := wr.translator.Material(slot)
		entry.BSDFs = append(entry.BSDFs, res.BSDF)
		if res.Emitter != nil {
			entry.Emitters = append(entry.Emitters, res.Emitter)
		}
	}
	return entry, nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
