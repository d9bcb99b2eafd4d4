// Package glw draws a plot with OpenGL 4.5 core.
//
// A Renderer is a plot.Uploader: buffers are created on first upload and
// updated in place while the new contents fit. Every call must be made on the
// goroutine owning the current GL context.
package glw

import (
	"embed"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "glw"})

//go:embed shaders
var shaders embed.FS

func must(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// mustReadShader returns the embedded shader source of name.
func mustReadShader(name string) string {
	b, err := shaders.ReadFile("shaders/" + name)
	must(err)
	return string(b)
}

// SetLogLevel sets level of the package logger.
func SetLogLevel(lvl log.Level) { logger.SetLevel(lvl) }
