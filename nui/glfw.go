package nui

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

var wake = glfw.PostEmptyEvent

type surface struct {
	window *glfw.Window
}

// Open creates a window with an OpenGL 4.5 core context made current on the
// calling thread, which must be the main thread.
func Open(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("nui: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("nui: %w", err)
	}

	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("nui: %w", err)
	}
	glfw.SwapInterval(1)

	w := &Window{cfg: cfg, surface: surface{window}}
	window.SetMouseButtonCallback(func(win *glfw.Window, b glfw.MouseButton, act glfw.Action, mods glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		w.emit(x, y, button(b), direction(act), modifiers(mods))
	})
	window.SetCursorPosCallback(func(win *glfw.Window, x, y float64) {
		w.emit(x, y, mouse.ButtonNone, mouse.DirNone, 0)
	})
	window.SetScrollCallback(func(win *glfw.Window, dx, dy float64) {
		x, y := win.GetCursorPos()
		switch {
		case dy > 0:
			w.emit(x, y, mouse.ButtonWheelUp, mouse.DirStep, 0)
		case dy < 0:
			w.emit(x, y, mouse.ButtonWheelDown, mouse.DirStep, 0)
		}
	})

	fw, fh := window.GetFramebufferSize()
	logger.Info("window open", "width", cfg.Width, "height", cfg.Height, "framebuffer", fmt.Sprintf("%vx%v", fw, fh))
	return w, nil
}

func (w *Window) emit(x, y float64, b mouse.Button, d mouse.Direction, m key.Modifiers) {
	if w.mouse == nil {
		return
	}
	ww, wh := w.surface.window.GetSize()
	fw, fh := w.surface.window.GetFramebufferSize()
	e := toMouse(x, y, f32.Vec2{float32(ww), float32(wh)}, f32.Vec2{float32(fw), float32(fh)})
	e.Button, e.Direction = b, d
	e.Modifiers = m
	w.mouse(e)
}

func (s surface) shouldClose() bool { return s.window.ShouldClose() }
func (s surface) swap()             { s.window.SwapBuffers() }
func (s surface) quit()             { s.window.SetShouldClose(true) }

func (s surface) size() f32.Vec2 {
	w, h := s.window.GetFramebufferSize()
	return f32.Vec2{float32(w), float32(h)}
}

func (s surface) wait(timeout time.Duration) { glfw.WaitEventsTimeout(timeout.Seconds()) }

func (s surface) close() {
	s.window.Destroy()
	glfw.Terminate()
}
