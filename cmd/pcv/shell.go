package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/image/math/f32"
	"golang.org/x/mobile/event/mouse"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/dataset"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/session"
	"dasa.cc/pcv/snapshot"
	"dasa.cc/pcv/trigram"
)

var errQuit = errors.New("quit")

const shellHelp = `move X Y             move pointer to pixel X Y, origin bottom-left
press X Y            press left button at X Y
release X Y          release left button at X Y
click X Y            single click at X Y
dblclick X Y         double click at X Y
drag X1 Y1 X2 Y2     hover X1 Y1 then drag to X2 Y2
wait DURATION        advance the clock, such as 500ms
select X1 Y1 X2 Y2   box select in data space
expand L R           expand time between axes L and R, by index or name
handles ID L R       set handles of expansion ID
axes                 print positions, order and exclusion
entries              print live expansions
selected             print selected lines
stats [STEP]         print attribute statistics of STEP
save FILE            save session
load FILE            restore session
snapshot FILE        write a PNG of the current state
reset                restore the initial layout
quit                 leave the shell`

// shell drives an app from text commands with a fake clock, one frame per
// pointer event.
type shell struct {
	app  *app.App
	data plot.Data
	res  f32.Vec2
	out  io.Writer

	clock time.Time
	tick  time.Duration

	commands, attrs *trigram.Index
}

func newShell(d plot.Data, opts app.Options, res f32.Vec2, out io.Writer) (*shell, error) {
	s := &shell{
		data:     d,
		res:      res,
		out:      out,
		clock:    time.Unix(0, 0),
		tick:     16 * time.Millisecond,
		commands: trigram.New(commandNames()...),
		attrs:    trigram.New(d.Names...),
	}
	opts.Now = s.now
	a, err := app.New(d, opts)
	if err != nil {
		return nil, err
	}
	s.app = a
	s.app.Frame(res)
	return s, nil
}

func (s *shell) now() time.Time { return s.clock }

// send delivers e and runs a frame.
func (s *shell) send(p f32.Vec2, dir mouse.Direction) {
	s.app.Mouse(mouse.Event{X: p[0], Y: p[1], Button: mouse.ButtonLeft, Direction: dir})
	s.clock = s.clock.Add(s.tick)
	s.app.Frame(s.res)
	log.Debug("frame", "state", s.app.Status().State, "pos", p)
}

func (s *shell) click(p f32.Vec2) {
	s.send(p, mouse.DirPress)
	s.send(p, mouse.DirRelease)
}

func (s *shell) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit":
		return errQuit
	case "move", "press", "release", "click", "dblclick":
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		p := f32.Vec2{v[0], v[1]}
		switch name {
		case "move":
			s.send(p, mouse.DirNone)
		case "press":
			s.send(p, mouse.DirPress)
		case "release":
			s.send(p, mouse.DirRelease)
		case "click":
			s.clock = s.clock.Add(time.Second)
			s.click(p)
		case "dblclick":
			s.clock = s.clock.Add(time.Second)
			s.click(p)
			s.click(p)
		}
		s.printState()
	case "drag":
		v, err := floats(args, 4)
		if err != nil {
			return err
		}
		s.clock = s.clock.Add(time.Second)
		s.send(f32.Vec2{v[0], v[1]}, mouse.DirNone)
		s.send(f32.Vec2{v[0], v[1]}, mouse.DirPress)
		s.send(f32.Vec2{v[2], v[3]}, mouse.DirNone)
		s.send(f32.Vec2{v[2], v[3]}, mouse.DirRelease)
		s.printState()
	case "wait":
		if len(args) != 1 {
			return fmt.Errorf("wait: want duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return err
		}
		s.clock = s.clock.Add(d)
	case "select":
		v, err := floats(args, 4)
		if err != nil {
			return err
		}
		s.app.Box().Select(s.app.Context(), f32.Vec2{v[0], v[1]}, f32.Vec2{v[2], v[3]})
		fmt.Fprintf(s.out, "selected %v\n", s.app.Box().Selected())
	case "expand":
		if len(args) != 2 {
			return fmt.Errorf("expand: want L R")
		}
		var v [2]int
		for i, arg := range args {
			x, err := s.axis(arg)
			if err != nil {
				return fmt.Errorf("expand: %w", err)
			}
			v[i] = x
		}
		if v[0] == v[1] {
			return fmt.Errorf("expand: anchors %v, %v not distinct", v[0], v[1])
		}
		if e, ok := s.app.Arena().Find(v[0], v[1]); ok {
			return fmt.Errorf("expand: expansion %v exists between %v and %v", e.ID, e.Left, e.Right)
		}
		e, err := s.app.Arena().Add(s.app.Context(), v[0], v[1])
		if err != nil {
			return fmt.Errorf("expand: %w", err)
		}
		fmt.Fprintf(s.out, "expansion %v between %v and %v\n", e.ID, e.Left, e.Right)
	case "handles":
		if len(args) != 3 {
			return fmt.Errorf("handles: want ID L R")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		v, err := floats(args[1:], 2)
		if err != nil {
			return err
		}
		if !s.app.Arena().SetHandles(s.app.Context(), id, v[0], v[1]) {
			return fmt.Errorf("handles: no expansion %v", id)
		}
	case "axes":
		p := s.app.Plot()
		fmt.Fprintf(s.out, "positions %v\norder %v\nexcluded %v\n", p.Positions(), p.Order(), p.Excluded())
	case "entries":
		for _, e := range s.app.Entries() {
			fmt.Fprintf(s.out, "%v: %v-%v angle %.2f absorbed %v handles %.3f %.3f\n",
				e.ID, e.Left, e.Right, e.Angle, e.Absorbed, e.Handles[0].T, e.Handles[1].T)
		}
	case "selected":
		fmt.Fprintf(s.out, "selected %v\n", s.app.Box().Selected())
	case "stats":
		step := 0
		if len(args) == 1 {
			v, err := ints(args, 1)
			if err != nil {
				return err
			}
			step = v[0]
		}
		if step < 0 || step >= s.data.Steps {
			return fmt.Errorf("stats: step %v of %v", step, s.data.Steps)
		}
		for _, x := range dataset.Summarize(s.data, step) {
			fmt.Fprintf(s.out, "%-12s min %8.3f max %8.3f mean %8.3f std %8.3f\n", x.Name, x.Min, x.Max, x.Mean, x.Std)
		}
	case "save", "load", "snapshot":
		if len(args) != 1 {
			return fmt.Errorf("%s: want FILE", name)
		}
		return s.file(name, args[0])
	case "reset":
		s.app.Reset()
	default:
		if guess, ok := s.commands.Best(name, 0.33); ok {
			return fmt.Errorf("unknown command %q, did you mean %s?", name, guess)
		}
		return fmt.Errorf("unknown command %q, try help", name)
	}
	return nil
}

// axis resolves arg as an attribute index or a possibly misspelled name.
func (s *shell) axis(arg string) (int, error) {
	n := s.app.Plot().NumAxes()
	if i, err := strconv.Atoi(arg); err == nil {
		if i < 0 || i >= n {
			return 0, fmt.Errorf("axis %v of %v", i, n)
		}
		return i, nil
	}
	name, ok := s.attrs.Best(arg, 0.5)
	if !ok {
		return 0, fmt.Errorf("no attribute like %q", arg)
	}
	for i := 0; i < n; i++ {
		if s.data.Name(i) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no attribute like %q", arg)
}

func (s *shell) file(name, path string) error {
	switch name {
	case "save":
		return session.Save(path, session.Capture(s.app))
	case "load":
		return restore(s.app, path)
	}
	img := snapshot.Render(s.app, snapshot.Options{Width: int(s.res[0]), Height: int(s.res[1])})
	return snapshot.Save(path, img)
}

func (s *shell) printState() {
	st := s.app.Status()
	fmt.Fprintf(s.out, "%v at %.0f %.0f, order %v, %v expansions\n",
		st.State, st.Pos[0], st.Pos[1], s.app.Plot().Order(), len(s.app.Entries()))
}

func floats(args []string, n int) ([]float32, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %v numbers, have %v", n, len(args))
	}
	out := make([]float32, n)
	for i, a := range args {
		x, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(x)
	}
	return out, nil
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %v integers, have %v", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		x, err := strconv.Atoi(a)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func commandNames() []string {
	var names []string
	for _, line := range strings.Split(shellHelp, "\n") {
		names = append(names, strings.Fields(line)[0])
	}
	return names
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range commandNames() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func newShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell FILE...",
		Short: "Drive the viewer from a prompt without a window",
		Example: heredoc.Doc(`
			$ pcv shell iris.csv
			pcv> dblclick 640 360
			pcv> entries
			pcv> snapshot out.png
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadData(args)
			if err != nil {
				return err
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "pcv> ",
				HistoryFile:       filepath.Join(os.TempDir(), "pcv.history"),
				AutoComplete:      completer(),
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
			})
			if err != nil {
				return err
			}
			defer rl.Close()
			log.SetOutput(rl.Stderr())

			res := f32.Vec2{float32(cfg.Window.Width), float32(cfg.Window.Height)}
			s, err := newShell(d, cfg.Options(), res, rl.Stdout())
			if err != nil {
				return err
			}
			return s.run(rl)
		},
	}
	return cmd
}

// run reads lines until EOF, interrupt on an empty line, or quit.
func (s *shell) run(rl *readline.Instance) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		if err := s.exec(line); errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			fmt.Fprintf(rl.Stderr(), "%v\n", err)
		}
	}
}
