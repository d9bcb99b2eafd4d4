package session_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/plot/plottest"
	"dasa.cc/pcv/session"
	"dasa.cc/pcv/set"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(plottest.Data(
		[]float32{0.0, 0.5, -0.5, 0.2},
		[]float32{0.8, 0.9, 0.1, -0.9},
		[]float32{0.5, -0.7, 0.3, 0.0},
	), app.Options{})
	require.NoError(t, err)
	a.Frame(f32.Vec2{800, 600})
	return a
}

func TestRestore(t *testing.T) {
	a := newApp(t)
	ctx := a.Context()
	a.Plot().SetPositions([]float32{-1, 0.9, -0.2, 0.4})
	a.Plot().Resort()
	e, err := a.Arena().Add(ctx, 0, 3)
	require.NoError(t, err)
	a.Arena().SetHandles(ctx, e.ID, 0.25, 0.75)
	a.Box().Select(ctx, f32.Vec2{0.6, 0.29}, f32.Vec2{0.7, 0.6})
	require.Equal(t, set.Of(0), a.Box().Selected())

	saved := session.Capture(a)
	require.Len(t, saved.Expansions, 1)
	assert.Equal(t, session.Expansion{Left: 0, Right: 3, Handles: [2]float32{0.25, 0.75}}, saved.Expansions[0])

	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, session.Save(path, saved))
	loaded, err := session.Load(path)
	require.NoError(t, err)

	b := newApp(t)
	require.NoError(t, loaded.Apply(b))
	assert.Equal(t, a.Plot().Order(), b.Plot().Order())
	assert.Equal(t, a.Plot().Excluded(), b.Plot().Excluded())
	assert.Equal(t, a.Plot().Indices(), b.Plot().Indices())
	assert.Equal(t, a.Box().Selected(), b.Box().Selected())
	assert.Equal(t, saved, session.Capture(b))

	be := b.Entries()[0]
	assert.Equal(t, set.Of(2), be.Absorbed)
	assert.Equal(t, float32(0.25), be.Handles[0].T)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, session.Encode(&buf, session.Session{
		Version:   session.Version,
		Positions: []float32{-1, 1},
	}))
	assert.Contains(t, buf.String(), "positions: [-1, 1]")
	assert.NotContains(t, buf.String(), "expansions")
}

func TestApplyErrors(t *testing.T) {
	a := newApp(t)

	err := session.Session{Version: 7}.Apply(a)
	assert.ErrorIs(t, err, session.ErrVersion)

	err = session.Session{Version: session.Version, Positions: []float32{0}}.Apply(a)
	assert.ErrorIs(t, err, plot.ErrMismatch)

	err = session.Session{
		Version:    session.Version,
		Positions:  []float32{-1, 0, 0.5, 1},
		Expansions: []session.Expansion{{Left: 1, Right: 1}},
	}.Apply(a)
	assert.ErrorIs(t, err, plot.ErrMismatch)
	assert.Equal(t, []int{0, 0, 0, 0}, a.Plot().Excluded(), "nothing applied")

	err = session.Session{
		Version:    session.Version,
		Positions:  []float32{-1, -0.3, 0.3, 1},
		Expansions: []session.Expansion{{Left: 0, Right: 1}, {Left: 1, Right: 2}},
	}.Apply(a)
	assert.ErrorIs(t, err, expansion.ErrConflict)
	assert.Empty(t, a.Entries())
	assert.Equal(t, []int{0, 0, 0, 0}, a.Plot().Excluded())

	_, err = session.Decode(strings.NewReader("version: ["))
	assert.Error(t, err)
}
