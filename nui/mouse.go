package nui

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

func button(b glfw.MouseButton) mouse.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return mouse.ButtonLeft
	case glfw.MouseButtonRight:
		return mouse.ButtonRight
	case glfw.MouseButtonMiddle:
		return mouse.ButtonMiddle
	}
	return mouse.ButtonNone
}

func direction(a glfw.Action) mouse.Direction {
	switch a {
	case glfw.Press:
		return mouse.DirPress
	case glfw.Release:
		return mouse.DirRelease
	}
	return mouse.DirNone
}

func modifiers(mods glfw.ModifierKey) key.Modifiers {
	var out key.Modifiers
	if mods&glfw.ModShift != 0 {
		out |= key.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= key.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		out |= key.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= key.ModMeta
	}
	return out
}

// toMouse converts cursor position x, y in window coordinates with origin
// top-left to framebuffer pixels with origin bottom-left.
func toMouse(x, y float64, window, framebuffer f32.Vec2) mouse.Event {
	rx, ry := float32(1), float32(1)
	if window[0] > 0 && window[1] > 0 {
		rx, ry = framebuffer[0]/window[0], framebuffer[1]/window[1]
	}
	return mouse.Event{
		X: float32(x) * rx,
		Y: (window[1] - float32(y)) * ry,
	}
}
