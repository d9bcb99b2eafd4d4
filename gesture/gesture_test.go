package gesture

import (
	"testing"
	"time"

	"golang.org/x/mobile/event/mouse"
)

const ms = time.Millisecond

var clock time.Time

func init() {
	setTime(time.Unix(1000, 0))
}

// setTime replaces the global var func used by Filter to return a static time.
func setTime(t time.Time) { clock = t; now = func() time.Time { return clock } }

func advance(dt time.Duration) { setTime(clock.Add(dt)) }

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

// frame feeds events then advances clock and classifies.
func frame(f *Filter, dt time.Duration, evs ...mouse.Event) Status {
	for _, e := range evs {
		f.Filter(e)
	}
	advance(dt)
	return f.Next()
}

func expect(t *testing.T, have Status, want State) {
	t.Helper()
	t.Logf("%+v", have)
	if have.State != want {
		t.Fatalf("have %v, want %v", have.State, want)
	}
}

func TestClickDragRelease(t *testing.T) {
	var f Filter
	expect(t, frame(&f, 16*ms, move(1, 1)), Default)
	expect(t, frame(&f, 16*ms, press(1, 1)), Click)
	expect(t, frame(&f, 16*ms, move(4, 5)), Drag)
	s := frame(&f, 16*ms, move(4, 8))
	expect(t, s, Drag)
	if s.Distance != 8 {
		t.Fatalf("accumulated distance have %v, want 8", s.Distance)
	}
	if d := s.Delta(); d[0] != 0 || d[1] != 3 {
		t.Fatalf("delta have %v", d)
	}
	expect(t, frame(&f, 16*ms, release(4, 8)), Release)
	expect(t, frame(&f, 16*ms), Default)
}

func TestDoubleClick(t *testing.T) {
	f := Filter{}
	advance(time.Second)
	expect(t, frame(&f, 0, press(0, 0)), Click)
	expect(t, frame(&f, 50*ms, release(0, 0)), Release)
	s := frame(&f, 100*ms, press(0, 0))
	expect(t, s, DoubleClick)
	if s.Distance != 0 {
		t.Fatalf("distance not reset, have %v", s.Distance)
	}
	expect(t, frame(&f, 50*ms, release(0, 0)), Release)

	// outside window
	expect(t, frame(&f, 400*ms, press(0, 0)), Click)
}

func TestDoubleClickBoundary(t *testing.T) {
	f := Filter{Threshold: 100 * ms}
	expect(t, frame(&f, 0, press(0, 0)), Click)
	expect(t, frame(&f, 50*ms, release(0, 0)), Release)
	expect(t, frame(&f, 50*ms, press(0, 0)), DoubleClick)
	expect(t, frame(&f, 50*ms, release(0, 0)), Release)
	expect(t, frame(&f, 51*ms, press(0, 0)), Click)
}

func TestLatchedPress(t *testing.T) {
	var f Filter
	expect(t, frame(&f, time.Second, press(2, 2), release(2, 2)), Click)
	expect(t, frame(&f, 16*ms), Release)
	expect(t, frame(&f, 16*ms), Default)
}

func TestOtherButtonIgnored(t *testing.T) {
	var f Filter
	e := press(3, 3)
	e.Button = mouse.ButtonRight
	s := frame(&f, time.Second, e)
	expect(t, s, Default)
	if s.Pos[0] != 3 {
		t.Fatalf("position not tracked, have %v", s.Pos)
	}
}

func TestInjectedClock(t *testing.T) {
	t0 := time.Unix(5, 0)
	tick := t0
	f := Filter{Now: func() time.Time { return tick }}
	f.Filter(press(0, 0))
	if s := f.Next(); s.State != Click || !s.Time.Equal(t0) {
		t.Fatalf("have %+v", s)
	}
	f.Filter(release(0, 0))
	f.Next()
	tick = tick.Add(200 * ms)
	f.Filter(press(0, 0))
	if s := f.Next(); s.State != DoubleClick {
		t.Fatalf("have %v, want DoubleClick", s.State)
	}
}
