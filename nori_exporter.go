package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/nori_exporter/config"
	"github.com/mogaika/nori_exporter/exporter"
	"github.com/mogaika/nori_exporter/scene"
	"github.com/mogaika/nori_exporter/scene/gltfscene"
	"github.com/mogaika/nori_exporter/scene/yamlscene"
	"github.com/mogaika/nori_exporter/utils"
)

func main() {
	var in, out, configPath string
	var lights, textures, preview, verbose bool
	var samples int
	flag.StringVar(&in, "in", "", "Host scene snapshot (.yaml, .yml, .gltf or .glb)")
	flag.StringVar(&out, "out", "", "Path of the scene xml to write, meshes go next to it")
	flag.StringVar(&configPath, "config", "", "Yaml file with export options")
	flag.BoolVar(&lights, "lights", true, "Export lights and emissive materials")
	flag.BoolVar(&textures, "textures", true, "Export image textures linked to shader inputs")
	flag.IntVar(&samples, "samples", 32, "Sampler sample count")
	flag.BoolVar(&preview, "preview", false, "Also write "+exporter.PreviewFileName+" with the exported geometry")
	flag.BoolVar(&verbose, "v", false, "Verbose logging and dump of the loaded scene")
	flag.Parse()

	if in == "" || out == "" {
		flag.PrintDefaults()
		return
	}

	log, err := utils.NewLogger(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	opts := config.Default()
	if configPath != "" {
		if opts, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}

	// flags given on the command line win over the options file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lights":
			opts.ExportLights = lights
		case "textures":
			opts.ExportTextures = textures
		case "samples":
			opts.Samples = samples
		case "preview":
			opts.PreviewGLB = preview
		}
	})
	if err := opts.Validate(); err != nil {
		log.Fatal(err)
	}

	sc, err := load(in, opts, log)
	if err != nil {
		log.Fatal(err)
	}
	utils.LogDump(log, "Loaded scene", sc)

	if err := exporter.NewWriter(opts, log).Write(sc, out); err != nil {
		log.Fatalf("%+v", err)
	}
}

func load(path string, opts config.Options, log *zap.SugaredLogger) (*scene.Scene, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yamlscene.Open(path, log)
	case ".gltf", ".glb":
		return gltfscene.NewReader(opts.InputUpAxis, log).Open(path)
	default:
		return nil, errors.Errorf("Unknown scene format %q", ext)
	}
}
