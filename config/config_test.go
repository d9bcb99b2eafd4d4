package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/config"
	"dasa.cc/pcv/gesture"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/tool"
)

func TestDefaults(t *testing.T) {
	c, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, float32(tool.DefaultScale), c.Scale)
	assert.Equal(t, gesture.DoubleClickTime, c.DoubleClick)
	assert.Equal(t, 1280, c.Window.Width)
	assert.Equal(t, 1, c.Repeat)
	assert.Equal(t, log.InfoLevel, c.Level())
	assert.Equal(t, plot.DefaultPalette, c.Palette())

	opts := c.Options()
	assert.Equal(t, tool.AxisColor, opts.AxisColor)
	assert.Equal(t, float32(tool.AxisThickness), opts.AxisThickness)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scale: 0.5
double_click: 250ms
log_level: debug
window:
  title: iris
colors:
  groups:
    - [1, 0, 0, 1]
  highlight: [0, 1, 0, 1]
`), 0o644))

	c, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), c.Scale)
	assert.Equal(t, 250*time.Millisecond, c.DoubleClick)
	assert.Equal(t, "iris", c.Window.Title)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, log.DebugLevel, c.Level())
	assert.Equal(t, []f32.Vec4{{1, 0, 0, 1}}, c.Palette().Groups)
	assert.Equal(t, f32.Vec4{0, 1, 0, 1}, c.Palette().Highlight)
}

func TestEnvAndFlags(t *testing.T) {
	t.Setenv("PCV_REPEAT", "4")
	t.Setenv("PCV_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("pcv", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	require.NoError(t, fs.Parse([]string{"--log-level", "error"}))

	c, err := config.Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Repeat)
	assert.Equal(t, log.ErrorLevel, c.Level())
}

func TestInvalid(t *testing.T) {
	t.Setenv("PCV_SCALE", "2")
	_, err := config.Load("", nil)
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
