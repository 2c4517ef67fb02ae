package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type UpAxis string

const (
	UpY UpAxis = "y"
	UpZ UpAxis = "z"
)

type Options struct {
	ExportLights   bool `yaml:"export_lights"`
	ExportTextures bool `yaml:"export_textures"`
	Samples        int  `yaml:"samples"`
	// PreviewGLB also writes all exported meshes into preview.glb.
	PreviewGLB bool `yaml:"preview_glb"`
	// InputUpAxis is the up axis of gltf input files, the gltf standard is y.
	InputUpAxis UpAxis `yaml:"input_up_axis"`
}

func Default() Options {
	return Options{
		ExportLights:   true,
		ExportTextures: true,
		Samples:        32,
		InputUpAxis:    UpY,
	}
}

// Load reads options from a yaml file. Keys missing in the file keep their defaults.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrapf(err, "Cannot read options file %q", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "Cannot parse options file %q", path)
	}
	return opts, opts.Validate()
}

func (o Options) Validate() error {
	if o.Samples <= 0 {
		return errors.Errorf("Samples count must be positive, got %d", o.Samples)
	}
	switch o.InputUpAxis {
	case UpY, UpZ:
	default:
		return errors.Errorf("Unknown up axis %q, expected %q or %q", o.InputUpAxis, UpY, UpZ)
	}
	return nil
}
