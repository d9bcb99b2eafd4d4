// Package nui aims to be unremarkable in aiding windowing.
//
// A Window owns the main thread while its Loop runs; other goroutines hand
// work to it with Do.
package nui

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/mouse"
)

func init() {
	// glfw and GL calls must come from the main thread.
	runtime.LockOSThread()
}

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nui"})

// eventFuncs are those little things prone to panicking a system.
var eventFuncs = make(chan func())

// Do runs f on the main thread and returns once f has returned. Do must not be
// called from the main thread and blocks until a Loop is running.
func Do(f func()) {
	done := make(chan struct{}, 1)
	wake()
	eventFuncs <- func() { f(); done <- struct{}{} }
	<-done
}

// Config describes the window to open.
type Config struct {
	Width, Height int
	Title         string

	// Timeout bounds the wait for input between frames, a sixtieth of a
	// second if zero.
	Timeout time.Duration
}

// FrameFunc draws a frame for framebuffer size and reports whether anything
// was drawn.
type FrameFunc func(size f32.Vec2) bool

// Window is an open surface with a current GL context.
type Window struct {
	cfg     Config
	surface surface
	mouse   func(mouse.Event)

	mu     sync.Mutex
	quit   bool
	closed bool
}

// OnMouse sets the receiver of mouse events. Positions are framebuffer pixels
// with origin bottom-left.
func (w *Window) OnMouse(f func(mouse.Event)) { w.mouse = f }

// Loop calls frame after every batch of input until the window is closed,
// swapping buffers whenever frame drew.
func (w *Window) Loop(frame FrameFunc) {
	timeout := w.cfg.Timeout
	if timeout == 0 {
		timeout = time.Second / 60
	}
	for !w.quitting() && !w.surface.shouldClose() {
		drain()
		if frame(w.surface.size()) {
			w.surface.swap()
		}
		w.surface.wait(timeout)
	}
	if w.quitting() {
		w.surface.quit()
	}
	drain()
	logger.Debug("loop done")
}

// Quit asks the loop to stop and returns at once. It is safe to call from any
// goroutine, also once Loop has returned.
func (w *Window) Quit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.quit = true
	if !w.closed {
		wake()
	}
}

func (w *Window) quitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quit
}

// Close destroys the window.
func (w *Window) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.surface.close()
}

func drain() {
	for {
		select {
		case f := <-eventFuncs:
			f()
		default:
			return
		}
	}
}
