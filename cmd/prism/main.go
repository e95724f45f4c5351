// prism - CPU ray tracer for block and sphere scenes
// Render to a BMP/PNG file, or explore the scene live in your terminal or a
// desktop window.
//
// Controls:
//
//	Mouse drag  - Orbit camera
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Arrows      - Pan focus point
//	+/-         - Zoom in/out
//	R           - Reset view
//	X           - Toggle wireframe overlay
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
)

// config holds the parsed command line.
type config struct {
	Width    int
	Height   int
	Scene    string
	Textures string
	Sprite   int
	Out      string
	Window   bool
	FPS      int
	BG       string
	Ambient  float64
	Workers  int
}

func parseFlags(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	fs.IntVar(&cfg.Width, "width", 320, "Image width in pixels (file and window output)")
	fs.IntVar(&cfg.Height, "height", 180, "Image height in pixels (file and window output)")
	fs.StringVar(&cfg.Scene, "scene", "demo", "Scene to render: demo, or a .glb/.gltf file")
	fs.StringVar(&cfg.Textures, "textures", "", "Directory of <name>.png texture sheets")
	fs.IntVar(&cfg.Sprite, "sprite", 16, "Texture cell size in pixels")
	fs.StringVar(&cfg.Out, "out", "", "Render once to a .bmp or .png file and exit")
	fs.BoolVar(&cfg.Window, "window", false, "Open a desktop window instead of the terminal viewer")
	fs.IntVar(&cfg.FPS, "fps", 30, "Target FPS")
	fs.StringVar(&cfg.BG, "bg", "128,128,128", "Sky color (R,G,B)")
	fs.Float64Var(&cfg.Ambient, "ambient", -1, "Ambient light override, 0..1 (negative keeps the scene's)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Render workers (0 = one per CPU)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Sprite <= 0 {
		return cfg, fmt.Errorf("invalid sprite size %d", cfg.Sprite)
	}
	if cfg.FPS <= 0 {
		return cfg, fmt.Errorf("invalid fps %d", cfg.FPS)
	}
	if cfg.Ambient > 1 {
		return cfg, fmt.Errorf("ambient %v out of range", cfg.Ambient)
	}
	return cfg, nil
}

// parseColor reads an "R,G,B" triple.
func parseColor(s string) (render.Color, error) {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return render.Color{}, fmt.Errorf("parse color %q: channel %d out of range", s, v)
		}
	}
	return render.RGB(uint8(r), uint8(g), uint8(b)), nil
}

func main() {
	fs := flag.NewFlagSet("prism", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "prism - CPU ray tracer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: prism [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Arrows      - Pan\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}

	cfg, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	s, err := loadScene(cfg)
	if err != nil {
		return err
	}
	renderer := raytrace.NewRenderer(cfg.Workers)

	switch {
	case cfg.Out != "":
		return renderToFile(s, renderer, cfg)
	case cfg.Window:
		return runWindow(s, renderer, cfg)
	default:
		return runTerminal(s, renderer, cfg)
	}
}

// loadScene builds the scene named by the flags and applies the overrides.
func loadScene(cfg config) (scene.Scene, error) {
	textures := render.NewTextureStore(cfg.Sprite, nil)
	if cfg.Textures != "" {
		loaded, err := render.LoadTextureStore(cfg.Textures, cfg.Sprite)
		if err != nil {
			fmt.Printf("Warning: could not load textures: %v\n", err)
		} else {
			textures = loaded
		}
	}

	var s scene.Scene
	switch strings.ToLower(cfg.Scene) {
	case "", "demo":
		s = scene.Demo(textures)
	default:
		ext := strings.ToLower(filepath.Ext(cfg.Scene))
		if ext != ".glb" && ext != ".gltf" {
			return s, fmt.Errorf("unsupported scene %q (use demo, .glb or .gltf)", cfg.Scene)
		}
		var err error
		s, err = scene.LoadGLTF(cfg.Scene, textures)
		if err != nil {
			return s, fmt.Errorf("load scene: %w", err)
		}
	}

	sky, err := parseColor(cfg.BG)
	if err != nil {
		return s, err
	}
	s.World.Sky = sky
	if cfg.Ambient >= 0 {
		s.World.Ambient = cfg.Ambient
	}
	return s, nil
}

// errUnknownFormat is returned for output files that are neither BMP nor PNG.
var errUnknownFormat = errors.New("unknown output format")

// renderToFile renders a single frame and writes it to cfg.Out.
func renderToFile(s scene.Scene, renderer *raytrace.Renderer, cfg config) error {
	save := (*render.Framebuffer).Save
	switch ext := strings.ToLower(filepath.Ext(cfg.Out)); ext {
	case ".bmp":
	case ".png":
		save = (*render.Framebuffer).SavePNG
	default:
		return fmt.Errorf("%w %q (use .bmp or .png)", errUnknownFormat, ext)
	}

	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	stats, err := renderer.RenderWithStats(&s.World, s.Camera, fb)
	if err != nil {
		return err
	}
	if err := save(fb, cfg.Out); err != nil {
		return fmt.Errorf("save %s: %w", cfg.Out, err)
	}

	fmt.Printf("Rendered %s (%dx%d, %d objects, %d lights) in %v, %d/%d pixels hit\n",
		cfg.Out, cfg.Width, cfg.Height, len(s.World.Objects), len(s.World.Lights),
		stats.Elapsed.Round(time.Millisecond), stats.Hits, stats.Pixels)
	return nil
}
