package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/prism/internal/viewer"
	"github.com/taigrr/prism/pkg/raytrace"
	"github.com/taigrr/prism/pkg/render"
	"github.com/taigrr/prism/pkg/scene"
)

// HUD renders an overlay with scene info and render stats
type HUD struct {
	name      string
	objects   int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(name string, objects int) *HUD {
	return &HUD{
		name:    name,
		objects: objects,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, v *viewer.Viewer) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !v.ShowHUD() {
		return
	}

	// Top left: FPS and last frame time
	fmt.Printf("%s%s%s %.0f FPS  %v %s", moveTo(1, 1), bgBlack, fgGreen, h.fps,
		v.Stats().Elapsed.Round(time.Millisecond), reset)

	// Top middle: scene name
	titleStr := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset)
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + titleStr)

	// Top right: object count
	objStr := fmt.Sprintf("%s%s%s %d objects %s", bgBlack, fgCyan, bold, h.objects, reset)
	fmt.Print(moveTo(1, max(width-14, 1)) + objStr)

	checkWire := "[ ]"
	if v.Wireframe() {
		checkWire = "[✓]"
	}
	modeStr := fmt.Sprintf("%s%s %s X-Ray (wireframe)  %d/%d hit %s",
		bgBlack, fgWhite, checkWire, v.Stats().Hits, v.Stats().Pixels, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	f := v.Scene().Camera.Center
	hint := fmt.Sprintf("%s%s%s focus %.1f,%.1f,%.1f %s", bgBlack, dim, fgYellow, f.X, f.Y, f.Z, reset)
	fmt.Print(moveTo(height, max(width-24, 1)) + hint)
}

// terminalAction maps a key press to a viewer action.
func terminalAction(ev uv.KeyPressEvent) viewer.Action {
	switch {
	case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
		return viewer.ActionQuit
	case ev.MatchString("w"):
		return viewer.ActionPitchUp
	case ev.MatchString("s"):
		return viewer.ActionPitchDown
	case ev.MatchString("a"):
		return viewer.ActionYawLeft
	case ev.MatchString("d"):
		return viewer.ActionYawRight
	case ev.MatchString("up"):
		return viewer.ActionPanUp
	case ev.MatchString("down"):
		return viewer.ActionPanDown
	case ev.MatchString("left"):
		return viewer.ActionPanLeft
	case ev.MatchString("right"):
		return viewer.ActionPanRight
	case ev.MatchString("+", "="):
		return viewer.ActionZoomIn
	case ev.MatchString("-", "_"):
		return viewer.ActionZoomOut
	case ev.MatchString("r"):
		return viewer.ActionReset
	case ev.MatchString("x"):
		return viewer.ActionWireframe
	case ev.MatchString("?"), ev.MatchString("shift+/"):
		return viewer.ActionHUD
	}
	return viewer.ActionNone
}

// runTerminal shows the scene in the terminal until the user quits.
func runTerminal(s scene.Scene, renderer *raytrace.Renderer, cfg config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	v := viewer.New(s, renderer, cfg.FPS, fbWidth, fbHeight)

	name := cfg.Scene
	if name != "demo" {
		name = filepath.Base(name)
	}
	hud := NewHUD(name, len(s.World.Objects))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mouseDown bool
	var lastMouseX, lastMouseY int

	handle := func(ev uv.Event) bool {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			v.Resize(termRenderer.FramebufferSize())

		case uv.KeyPressEvent:
			return v.Handle(terminalAction(ev))

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				v.Drag(ev.X-lastMouseX, ev.Y-lastMouseY)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				return v.Handle(viewer.ActionZoomIn)
			case uv.MouseWheelDown:
				return v.Handle(viewer.ActionZoomOut)
			}
		}
		return true
	}

	targetDuration := time.Second / time.Duration(cfg.FPS)
	events := term.Events()

	for {
		now := time.Now()

		// Drain pending input before rendering
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if !handle(ev) {
					return nil
				}
			default:
				break drain
			}
		}

		rendered, err := v.Frame()
		if err != nil {
			return err
		}
		if rendered {
			termRenderer.Render(v.Framebuffer())
			if err := termRenderer.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}
		}

		hud.UpdateFPS()
		hud.Render(width, height, v)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
