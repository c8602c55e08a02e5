package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gekko3d/lightpass"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lightpass: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	app, err := lightpass.NewAppBuilder(cfg).
		UseModule(lightpass.DefaultModules(cfg)...).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Run(ctx); err != nil {
		return err
	}
	app.Logger().Infof("Rendered %d frame(s)", app.Rendered())
	return nil
}

// parseConfig loads -config when given and applies the flags that were set
// on top of it.
func parseConfig(args []string) (lightpass.Config, error) {
	fs := flag.NewFlagSet("lightpass", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "YAML config file")
		width      = fs.Int("width", 0, "image width")
		height     = fs.Int("height", 0, "image height")
		light      = fs.String("light", "", "light position x,y (default: image centre)")
		intensity  = fs.Float64("intensity", 0, "light intensity")
		radius     = fs.Float64("radius", 0, "radial kernel radius")
		color      = fs.String("color", "", "base color r,g,b,a")
		kernelName = fs.String("kernel", "", "lighting or radial")
		backend    = fs.String("backend", "", "cpu or gpu")
		workers    = fs.Int("workers", 0, "cpu workers (0: GOMAXPROCS)")
		frames     = fs.Int("frames", 0, "frames to render (0: until interrupted)")
		path       = fs.String("path", "", "light path: static, orbit or sweep")
		out        = fs.String("out", "", "output file; %d is replaced by the frame index")
		format     = fs.String("format", "", "png, png16, bmp, tiff or gif (default: from -out)")
		debug      = fs.Bool("debug", false, "debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return lightpass.Config{}, err
	}

	cfg := lightpass.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = lightpass.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "light":
			var v []int
			if v, err = parseInts(*light, 2); err == nil {
				cfg.Light.Position = &[2]int{v[0], v[1]}
			}
		case "intensity":
			cfg.Light.Intensity = float32(*intensity)
		case "radius":
			cfg.Light.Radius = float32(*radius)
		case "color":
			var v []float32
			if v, err = parseFloats(*color, 4); err == nil {
				cfg.BaseColor = [4]float32(v)
			}
		case "kernel":
			cfg.Kernel = *kernelName
		case "backend":
			cfg.Backend = lightpass.BackendName(*backend)
		case "workers":
			cfg.Workers = *workers
		case "frames":
			cfg.Frames = *frames
		case "path":
			cfg.Light.Path = lightpass.PathKind(*path)
		case "out":
			cfg.Output = *out
		case "format":
			cfg.Format = *format
		case "debug":
			cfg.Debug = *debug
		}
	})
	return cfg, err
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated values, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma separated values, got %q", n, s)
	}
	out := make([]float32, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", s, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
