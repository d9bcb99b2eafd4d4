// Package session saves and restores the layout of a plot: axis positions,
// expansions with their handles and the selection rectangle.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/plot"
)

const Version = 1

var ErrVersion = errors.New("session: unsupported version")

type Session struct {
	Version    int         `yaml:"version"`
	Positions  []float32   `yaml:"positions,flow"`
	Expansions []Expansion `yaml:"expansions,omitempty"`
	Selection  *Rect       `yaml:"selection,omitempty"`
}

type Expansion struct {
	Left    int        `yaml:"left"`
	Right   int        `yaml:"right"`
	Handles [2]float32 `yaml:"handles,flow"`
}

// Rect holds opposite corners in data space.
type Rect struct {
	C1 [2]float32 `yaml:"c1,flow"`
	C2 [2]float32 `yaml:"c2,flow"`
}

// Capture returns the current layout of a.
func Capture(a *app.App) Session {
	s := Session{
		Version:   Version,
		Positions: append([]float32(nil), a.Plot().Positions()...),
	}
	for _, e := range a.Entries() {
		s.Expansions = append(s.Expansions, Expansion{
			Left:    e.Left,
			Right:   e.Right,
			Handles: [2]float32{e.Handles[0].T, e.Handles[1].T},
		})
	}
	if box := a.Box(); len(box.Selected()) != 0 || box.C1 != box.C2 {
		s.Selection = &Rect{C1: box.C1, C2: box.C2}
	}
	return s
}

// Apply resets a and restores s onto it. A session whose expansions share
// axes is rejected and leaves a reset.
func (s Session) Apply(a *app.App) error {
	if s.Version != Version {
		return fmt.Errorf("%w: %v", ErrVersion, s.Version)
	}
	p := a.Plot()
	n := p.NumAxes()
	if len(s.Positions) != n {
		return fmt.Errorf("session: %w: %v positions for %v axes", plot.ErrMismatch, len(s.Positions), n)
	}
	for _, x := range s.Expansions {
		if x.Left < 0 || x.Left >= n || x.Right < 0 || x.Right >= n || x.Left == x.Right {
			return fmt.Errorf("session: %w: expansion anchors %v, %v", plot.ErrMismatch, x.Left, x.Right)
		}
	}

	a.Reset()
	p.SetPositions(s.Positions)
	p.Resort()
	ctx := a.Context()
	for _, x := range s.Expansions {
		e, err := a.Arena().Add(ctx, x.Left, x.Right)
		if err != nil {
			a.Reset()
			return fmt.Errorf("session: %w", err)
		}
		a.Arena().SetHandles(ctx, e.ID, x.Handles[0], x.Handles[1])
	}
	a.Axes().Sync(ctx)
	if r := s.Selection; r != nil {
		a.Box().Select(ctx, f32.Vec2(r.C1), f32.Vec2(r.C2))
	}
	log.Debug("session applied", "expansions", len(s.Expansions), "order", p.Order())
	return nil
}

// Encode writes s as yaml.
func Encode(w io.Writer, s Session) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return enc.Close()
}

// Decode reads a yaml session from r.
func Decode(r io.Reader) (Session, error) {
	var s Session
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return s, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// Save writes s to path.
func Save(path string, s Session) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a session from path.
func Load(path string) (Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return Session{}, err
	}
	defer f.Close()
	return Decode(f)
}
