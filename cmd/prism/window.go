package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/prism/internal/viewer"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/scene"
)

// windowScale is the initial window size as a multiple of the framebuffer.
const windowScale = 3

// windowKeys maps one-shot key presses to viewer actions.
var windowKeys = []struct {
	key    ebiten.Key
	action viewer.Action
}{
	{ebiten.KeyEscape, viewer.ActionQuit},
	{ebiten.KeyEqual, viewer.ActionZoomIn},
	{ebiten.KeyNumpadAdd, viewer.ActionZoomIn},
	{ebiten.KeyMinus, viewer.ActionZoomOut},
	{ebiten.KeyNumpadSubtract, viewer.ActionZoomOut},
	{ebiten.KeyArrowUp, viewer.ActionPanUp},
	{ebiten.KeyArrowDown, viewer.ActionPanDown},
	{ebiten.KeyArrowLeft, viewer.ActionPanLeft},
	{ebiten.KeyArrowRight, viewer.ActionPanRight},
	{ebiten.KeyR, viewer.ActionReset},
	{ebiten.KeyX, viewer.ActionWireframe},
	{ebiten.KeySlash, viewer.ActionHUD},
}

// windowHeldKeys keep pushing the orbit while held down.
var windowHeldKeys = []struct {
	key    ebiten.Key
	action viewer.Action
}{
	{ebiten.KeyW, viewer.ActionPitchUp},
	{ebiten.KeyS, viewer.ActionPitchDown},
	{ebiten.KeyA, viewer.ActionYawLeft},
	{ebiten.KeyD, viewer.ActionYawRight},
}

// windowGame displays the viewer's framebuffer in a desktop window.
type windowGame struct {
	v          *viewer.Viewer
	img        *ebiten.Image
	dragging   bool
	lastX      int
	lastY      int
	sceneTitle string
}

// runWindow opens a desktop window and blocks until it closes.
func runWindow(s scene.Scene, renderer *raytrace.Renderer, cfg config) error {
	g := &windowGame{
		v:          viewer.New(s, renderer, cfg.FPS, cfg.Width, cfg.Height),
		sceneTitle: cfg.Scene,
	}
	ebiten.SetWindowTitle("prism - " + cfg.Scene)
	ebiten.SetWindowSize(cfg.Width*windowScale, cfg.Height*windowScale)
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

func (g *windowGame) Update() error {
	for _, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k.key) && !g.v.Handle(k.action) {
			return ebiten.Termination
		}
	}
	for _, k := range windowHeldKeys {
		if ebiten.IsKeyPressed(k.key) {
			g.v.Handle(k.action)
		}
	}

	if _, dy := ebiten.Wheel(); dy > 0 {
		g.v.Handle(viewer.ActionZoomIn)
	} else if dy < 0 {
		g.v.Handle(viewer.ActionZoomOut)
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.v.Drag(x-g.lastX, y-g.lastY)
		}
		g.dragging = true
		g.lastX, g.lastY = x, y
	} else {
		g.dragging = false
	}

	rendered, err := g.v.Frame()
	if err != nil {
		return err
	}
	if rendered {
		if g.img == nil || g.img.Bounds().Dx() != g.v.Framebuffer().Width || g.img.Bounds().Dy() != g.v.Framebuffer().Height {
			if g.img != nil {
				g.img.Deallocate()
			}
			g.img = ebiten.NewImage(g.v.Framebuffer().Width, g.v.Framebuffer().Height)
		}
		g.img.WritePixels(g.v.Framebuffer().ToImage().Pix)
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.img != nil {
		screen.DrawImage(g.img, nil)
	}
	if g.v.ShowHUD() {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  %.0f FPS  %v\n%d/%d hit  wireframe %v",
			g.sceneTitle, ebiten.ActualTPS(), g.v.Stats().Elapsed, g.v.Stats().Hits, g.v.Stats().Pixels, g.v.Wireframe()))
	}
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.v.Framebuffer().Width, g.v.Framebuffer().Height
}
