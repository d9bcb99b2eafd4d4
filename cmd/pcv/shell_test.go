package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/plot/plottest"
	"dasa.cc/pcv/set"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	d := plottest.Data(
		[]float32{0.0, 0.5, -0.5, 0.2},
		[]float32{0.8, 0.9, 0.1, -0.9},
		[]float32{0.5, -0.7, 0.3, 0.0},
	)
	s, err := newShell(d, app.Options{}, f32.Vec2{1000, 1000}, &out)
	require.NoError(t, err)
	return s, &out
}

func TestShellDoubleClick(t *testing.T) {
	s, out := newTestShell(t)
	require.NoError(t, s.exec("dblclick 500 500"))
	require.Len(t, s.app.Entries(), 1)
	assert.True(t, s.app.Entries()[0].Is(1, 2))
	assert.Contains(t, out.String(), "1 expansions")

	require.NoError(t, s.exec("dblclick 500 500"))
	assert.Empty(t, s.app.Entries())
}

func TestShellClickDoesNotExpand(t *testing.T) {
	s, _ := newTestShell(t)
	require.NoError(t, s.exec("click 500 500"))
	require.NoError(t, s.exec("click 500 500"))
	assert.Empty(t, s.app.Entries())
}

func TestShellDrag(t *testing.T) {
	s, out := newTestShell(t)
	// axis 1 sits at pixel x 366.7, drop it right of axis 2
	require.NoError(t, s.exec("drag 366.7 500 740 500"))
	assert.Equal(t, []int{0, 2, 1, 3}, s.app.Plot().Order())

	out.Reset()
	require.NoError(t, s.exec("axes"))
	assert.Contains(t, out.String(), "order [0 2 1 3]")
}

func TestShellCommands(t *testing.T) {
	s, out := newTestShell(t)

	require.NoError(t, s.exec("expand 0 2"))
	assert.Contains(t, out.String(), "expansion 0 between 0 and 2")
	assert.Error(t, s.exec("expand 2 0"))
	assert.Error(t, s.exec("expand 0 9"))
	assert.ErrorIs(t, s.exec("expand 2 3"), expansion.ErrConflict)
	assert.ErrorIs(t, s.exec("expand 1 3"), expansion.ErrConflict)
	require.Len(t, s.app.Entries(), 1)

	require.NoError(t, s.exec("handles 0 0.25 0.75"))
	e := s.app.Entries()[0]
	assert.InDelta(t, 0.25, e.Handles[0].T, 1e-6)
	assert.InDelta(t, 0.75, e.Handles[1].T, 1e-6)
	assert.Error(t, s.exec("handles 3 0 0"))

	require.NoError(t, s.exec("reset"))
	assert.Empty(t, s.app.Entries())

	require.NoError(t, s.exec("select -0.6 -0.2 -0.1 0.3"))
	assert.Equal(t, set.Of(0), s.app.Box().Selected())

	out.Reset()
	require.NoError(t, s.exec("stats"))
	assert.Contains(t, out.String(), "mean")
	assert.Error(t, s.exec("stats 4"))

	assert.NoError(t, s.exec(""))
	assert.ErrorIs(t, s.exec("quit"), errQuit)
	assert.Error(t, s.exec("move 1"))
	assert.Error(t, s.exec("frobnicate"))
	assert.Error(t, s.exec("wait soon"))
}

func TestShellFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := newTestShell(t)

	require.NoError(t, s.exec("expand 1 2"))
	require.NoError(t, s.exec("save "+filepath.Join(dir, "layout.yaml")))
	require.NoError(t, s.exec("reset"))
	require.NoError(t, s.exec("load "+filepath.Join(dir, "layout.yaml")))
	require.Len(t, s.app.Entries(), 1)
	assert.True(t, s.app.Entries()[0].Is(1, 2))

	png := filepath.Join(dir, "out.png")
	require.NoError(t, s.exec("snapshot "+png))
	fi, err := os.Stat(png)
	require.NoError(t, err)
	assert.NotZero(t, fi.Size())
}

func TestCompleter(t *testing.T) {
	c := completer()
	assert.Len(t, c.GetChildren(), 19)
}

func TestShellNames(t *testing.T) {
	var out bytes.Buffer
	d := plottest.Data([]float32{0, 0.5, -0.5}, []float32{0.8, 0.9, 0.1})
	d.Names = []string{"sepal_length", "petal_length", "petal_width"}
	s, err := newShell(d, app.Options{}, f32.Vec2{1000, 1000}, &out)
	require.NoError(t, err)

	require.NoError(t, s.exec("expand sepal_length petal_widht"))
	require.Len(t, s.app.Entries(), 1)
	assert.True(t, s.app.Entries()[0].Is(0, 2))
	assert.Error(t, s.exec("expand sepal_length zzz"))

	err = s.exec("entires")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean entries?")
}
