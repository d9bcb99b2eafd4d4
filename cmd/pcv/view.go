package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/glw"
	"dasa.cc/pcv/nui"
	"dasa.cc/pcv/session"
)

func newViewCmd() *cobra.Command {
	var load, save string

	cmd := &cobra.Command{
		Use:   "view FILE...",
		Short: "Open a window on the dataset",
		Long: heredoc.Doc(`
			Open a window on the dataset.

			Drag an axis to move it, drag elsewhere to select lines crossing the
			rectangle and double click between two axes to expand time there.
			Double click the same place again to collapse it.
		`),
		Example: heredoc.Doc(`
			# One table
			$ pcv view iris.csv

			# Three time steps, restoring and saving the layout
			$ pcv view t0.csv t1.csv t2.csv --session layout.yaml --save layout.yaml
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadData(args)
			if err != nil {
				return err
			}

			w, err := nui.Open(nui.Config{
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Title:  cfg.Window.Title,
			})
			if err != nil {
				return err
			}
			defer w.Close()

			r := glw.NewRenderer(d)
			defer r.Delete()

			opts := cfg.Options()
			opts.Uploader = r
			a, err := app.New(d, opts)
			if err != nil {
				return err
			}
			if load != "" {
				if err := restore(a, load); err != nil {
					return err
				}
			}
			w.OnMouse(a.Mouse)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			done := make(chan struct{})
			defer close(done)
			go quitOn(ctx, done, w)

			var size f32.Vec2
			w.Loop(func(fb f32.Vec2) bool {
				changed := a.Frame(fb)
				if !changed && fb == size {
					return false
				}
				size = fb
				r.Draw(a)
				return true
			})

			if save != "" {
				if err := session.Save(save, session.Capture(a)); err != nil {
					return err
				}
				log.Info("session saved", "path", save)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&load, "session", "", "Restore layout from session file")
	cmd.Flags().StringVar(&save, "save", "", "Write layout to session file on exit")
	return cmd
}

func quitOn(ctx context.Context, done <-chan struct{}, w *nui.Window) {
	select {
	case <-ctx.Done():
		log.Info("interrupted")
		w.Quit()
	case <-done:
	}
}

func restore(a *app.App, path string) error {
	s, err := session.Load(path)
	if err != nil {
		return err
	}
	if err := s.Apply(a); err != nil {
		return err
	}
	log.Info("session restored", "path", path, "expansions", len(s.Expansions))
	return nil
}
