package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/phong/internal/config"
	"github.com/taigrr/phong/internal/driver"
	"github.com/taigrr/phong/internal/glview"
	"github.com/taigrr/phong/internal/scene"
	"github.com/taigrr/phong/internal/snapshot"
	"github.com/taigrr/phong/internal/termview"
)

// options are the flags shared by every command.
type options struct {
	configPath  string
	logLevel    string
	logFile     string
	model       string
	diffuseMap  string
	specularMap string
	shaderDir   string
	width       int
	height      int
	fps         int
	frames      int
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "phong",
		Short: "Phong-lit spinning cube",
		Long: "Render a cube, or a glTF model, lit per fragment with the Phong model.\n" +
			"Without a subcommand the scene opens in an OpenGL window.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGL(cmd, o)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "JSON scene file")
	f.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	f.StringVar(&o.logFile, "log-file", "", "append logs to this file")
	f.StringVarP(&o.model, "model", "m", "", "glTF binary (.glb) to draw instead of the cube")
	f.StringVar(&o.diffuseMap, "diffuse-map", "", "diffuse texture; enables the textured material")
	f.StringVar(&o.specularMap, "specular-map", "", "specular texture")
	f.StringVar(&o.shaderDir, "shader-dir", "", "directory with phong.vert and phong.frag")
	f.IntVar(&o.width, "width", 0, "width in pixels (default from config)")
	f.IntVar(&o.height, "height", 0, "height in pixels (default from config)")
	f.IntVar(&o.fps, "fps", 0, "target frame rate (default from config)")
	f.IntVar(&o.frames, "frames", 0, "stop after this many frames")

	root.AddCommand(
		&cobra.Command{
			Use:   "gl",
			Short: "Render in an OpenGL window",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runGL(cmd, o)
			},
		},
		&cobra.Command{
			Use:   "term",
			Short: "Render in the terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTerm(cmd, o)
			},
		},
		newSnapshotCmd(o),
	)
	return root
}

func newSnapshotCmd(o *options) *cobra.Command {
	var (
		out      string
		at       float64
		count    int
		interval float64
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames offscreen to PNG",
		Example: "  phong snapshot --out cube.png --time 1.5\n" +
			"  phong snapshot --out spin.png --count 24 --interval 0.1",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}
			rc, _, closeLog, err := setup(cmd, o, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			if count == 1 {
				d := driver.New(snapshot.New(out, rc.Logger), rc)
				d.Clock = func() float64 { return at }
				d.MaxFrames = 1
				return d.Run(cmd.Context())
			}

			times := make([]float64, count)
			for i := range times {
				times[i] = at + float64(i)*interval
			}
			_, err = snapshot.Sequence(cmd.Context(), rc, times, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "phong.png", "output file; a %d verb is replaced by the frame index")
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "seconds into the spin")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of frames")
	cmd.Flags().Float64Var(&interval, "interval", 1.0/30, "seconds between frames")
	return cmd
}

func runGL(cmd *cobra.Command, o *options) error {
	rc, cfg, closeLog, err := setup(cmd, o, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	b := glview.New(rc.Logger)
	d := driver.New(b, rc)
	d.Clock = b.Clock // Paced by vsync
	d.MaxFrames = cfg.Frames
	return d.Run(cmd.Context())
}

func runTerm(cmd *cobra.Command, o *options) error {
	// The alternate screen owns the terminal; only a log file gets output.
	rc, cfg, closeLog, err := setup(cmd, o, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	d := driver.New(termview.New(rc.Logger), rc)
	d.FPS = cfg.FPS
	d.MaxFrames = cfg.Frames
	return d.Run(cmd.Context())
}

// setup resolves the configuration, opens the logger and loads the scene.
func setup(cmd *cobra.Command, o *options, logOut io.Writer) (*driver.RenderContext, config.Config, func(), error) {
	logger, closeLog, err := newLogger(o, logOut)
	if err != nil {
		return nil, config.Config{}, nil, err
	}

	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		closeLog()
		return nil, cfg, nil, err
	}
	logger.Debug("config", "width", cfg.Width, "height", cfg.Height, "lights", len(cfg.Lights),
		"model", cfg.Model, "textured", cfg.Textured())

	s, err := scene.Load(cfg, logger)
	if err != nil {
		closeLog()
		return nil, cfg, nil, err
	}
	return driver.NewRenderContext(cfg, s, logger), cfg, closeLog, nil
}

// resolveConfig layers the config file and then the flags the user set
// over the defaults.
func resolveConfig(cmd *cobra.Command, o *options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Height = o.height
	}
	if flags.Changed("fps") {
		cfg.FPS = o.fps
	}
	if flags.Changed("frames") {
		cfg.Frames = o.frames
	}
	if o.model != "" {
		cfg.Model = o.model
	}
	if o.diffuseMap != "" {
		cfg.Material.DiffuseMap = o.diffuseMap
	}
	if o.specularMap != "" {
		cfg.Material.SpecularMap = o.specularMap
	}
	if o.shaderDir != "" {
		cfg.ShaderDir = o.shaderDir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger for a run. The returned func closes the log
// file, if any.
func newLogger(o *options, out io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	closeLog := func() {}
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "phong",
		ReportTimestamp: true,
	})
	return logger, closeLog, nil
}
