// Package main renders a single frame of a model offscreen and writes it to
// an image file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/archsim/internal/assets"
	"github.com/Faultbox/archsim/internal/config"
	"github.com/Faultbox/archsim/internal/engine/debug"
	"github.com/Faultbox/archsim/internal/engine/scene"
	"github.com/Faultbox/archsim/internal/engine/window"
	"github.com/Faultbox/archsim/internal/logger"
	"github.com/Faultbox/archsim/pkg/encoding"
	"github.com/Faultbox/archsim/pkg/formats"
	"github.com/Faultbox/archsim/pkg/math"
)

type options struct {
	camera    string
	target    string
	fov       float64
	out       string
	depthOut  string
	depthSize uint
}

func main() {
	flags := config.BindFlags(flag.CommandLine)
	var opts options
	flag.StringVar(&opts.camera, "camera", "", "Camera position x,y,z (default: fit the model)")
	flag.StringVar(&opts.target, "target", "", "Point to look at x,y,z (default: model center)")
	flag.Float64Var(&opts.fov, "fov", 0, "Vertical field of view in degrees")
	flag.StringVar(&opts.out, "out", "snapshot.png", "Output image (.png, .bmp, .tif, .jpg)")
	flag.StringVar(&opts.depthOut, "depth-out", "", "Also write the directional shadow depth map here")
	flag.UintVar(&opts.depthSize, "depth-size", 512, "Longest side of the depth map image")
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, opts); err != nil {
		logger.Fatal("snapshot failed", zap.Error(err))
	}
}

func run(cfg *config.Config, opts options) error {
	if cfg.Mesh.Path == "" {
		return errors.New("no model given (use -model)")
	}

	win, err := window.New(window.Config{
		Title:  "archsim snapshot",
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Hidden: true,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	mgr := assets.NewManager()
	if err := mgr.AddDir(filepath.Dir(cfg.Mesh.Path)); err != nil {
		return err
	}

	sc, err := scene.New(scene.ConfigFromSettings(cfg, int32(cfg.Window.Width), int32(cfg.Window.Height), mgr.Load))
	if err != nil {
		return err
	}
	defer sc.Destroy()

	names, err := encoding.NewDecoder(cfg.Mesh.Encoding)
	if err != nil {
		return err
	}
	src, err := formats.Load(cfg.Mesh.Path, names)
	if err != nil {
		return err
	}
	if _, err := sc.LoadModel(src, scene.BuildOptions(cfg)); err != nil {
		return err
	}

	state, err := scene.StateFromConfig(cfg)
	if err != nil {
		return err
	}
	if opts.fov > 0 {
		state.FOV = float32(opts.fov)
	}
	if err := placeCamera(state, sc.Mesh().Bounds.Min, sc.Mesh().Bounds.Max, opts); err != nil {
		return err
	}

	if err := debug.SaveImage(opts.out, sc.CaptureImage(state)); err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", opts.out))

	if opts.depthOut != "" {
		depth, err := sc.DirectionalDepthImage(state)
		if err != nil {
			return fmt.Errorf("depth map: %w", err)
		}
		if err := debug.SaveImage(opts.depthOut, debug.Thumbnail(depth, opts.depthSize)); err != nil {
			return err
		}
		logger.Info("depth map written", zap.String("path", opts.depthOut))
	}
	return nil
}

// placeCamera applies -camera and -target. Without -camera the camera is
// fitted to the bounds; without -target it looks at their center.
func placeCamera(state *scene.State, min, max [3]float32, opts options) error {
	cam := state.Camera
	if opts.camera == "" {
		cam.FitToBounds(min, max, state.FOV)
	} else {
		pos, err := parseVec3(opts.camera)
		if err != nil {
			return fmt.Errorf("-camera: %w", err)
		}
		cam.Position = pos
		cam.LookAt(math.V3(min).Add(math.V3(max)).Scale(0.5))
	}

	if opts.target != "" {
		target, err := parseVec3(opts.target)
		if err != nil {
			return fmt.Errorf("-target: %w", err)
		}
		cam.LookAt(target)
	}
	return nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("%q: want x,y,z", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return math.V3(v), nil
}
