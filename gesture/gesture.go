// Package gesture classifies left mouse button transitions into one state per frame.
package gesture

import (
	"fmt"
	"time"

	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/mouse"

	"dasa.cc/pcv/geom"
)

// DoubleClickTime is the default window between two presses reported as DoubleClick.
const DoubleClickTime = 333 * time.Millisecond

// now is replaced in tests.
var now = time.Now

type State uint8

const (
	Default State = iota // button up on both frames; hover
	Click                // button went down
	Drag                 // button held
	Release              // button went up
	DoubleClick          // button went down within threshold of previous press

	numStates
)

// NumStates is the count of distinct states, for tables indexed by State.
const NumStates = int(numStates)

var stateNames = [...]string{"Default", "Click", "Drag", "Release", "DoubleClick"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Status is the classification of one frame.
type Status struct {
	State     State
	Pos, Prev f32.Vec2
	Pressed   bool

	// Distance travelled with button held since last press.
	Distance float32

	// Time of last press.
	Time time.Time
}

// Delta returns movement since previous frame.
func (s Status) Delta() f32.Vec2 { return f32.Vec2{s.Pos[0] - s.Prev[0], s.Pos[1] - s.Prev[1]} }

// Filter accumulates mouse events between frames and classifies them on Next.
// Zero value is valid.
type Filter struct {
	// Threshold for DoubleClick, defaults to DoubleClickTime if zero.
	Threshold time.Duration

	// Now returns current time, defaults to time.Now if nil.
	Now func() time.Time

	pos         f32.Vec2
	down, latch bool
	last        Status
}

// Filter records e. Position is always tracked, press state only for the left button.
func (f *Filter) Filter(e mouse.Event) {
	f.pos = f32.Vec2{e.X, e.Y}
	if e.Button != mouse.ButtonLeft {
		return
	}
	switch e.Direction {
	case mouse.DirPress:
		f.down, f.latch = true, true
	case mouse.DirRelease:
		f.down = false
	}
}

// Next classifies the transition from previous call to now. A press released
// before Next is called is still reported as pressed once.
func (f *Filter) Next() Status {
	clock, threshold := f.Now, f.Threshold
	if clock == nil {
		clock = now
	}
	if threshold == 0 {
		threshold = DoubleClickTime
	}

	pressed := f.down || f.latch
	f.latch = false

	prev := f.last
	s := Status{Pos: f.pos, Prev: prev.Pos, Pressed: pressed, Distance: prev.Distance, Time: prev.Time}
	switch {
	case !prev.Pressed && pressed:
		t := clock()
		if geom.Elapsed(prev.Time, t) <= threshold {
			s.State = DoubleClick
		} else {
			s.State = Click
		}
		s.Distance = 0
		s.Time = t
	case prev.Pressed && pressed:
		s.State = Drag
		s.Distance += geom.Distance(prev.Pos, s.Pos)
	case prev.Pressed && !pressed:
		s.State = Release
	default:
		s.State = Default
	}
	f.last = s
	return s
}

// Last returns the most recent classification.
func (f *Filter) Last() Status { return f.last }
