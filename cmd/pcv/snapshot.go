package main

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/snapshot"
)

func newSnapshotCmd() *cobra.Command {
	var (
		out   string
		load  string
		thumb uint
	)

	cmd := &cobra.Command{
		Use:   "snapshot FILE...",
		Short: "Render the dataset to a PNG without a window",
		Example: heredoc.Doc(`
			$ pcv snapshot iris.csv -o iris.png
			$ pcv snapshot t0.csv t1.csv --session layout.yaml -o layout.png --thumb 256
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadData(args)
			if err != nil {
				return err
			}
			a, err := app.New(d, cfg.Options())
			if err != nil {
				return err
			}
			if load != "" {
				if err := restore(a, load); err != nil {
					return err
				}
			}
			return writeSnapshot(a, out, thumb)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "pcv.png", "Output file")
	cmd.Flags().StringVar(&load, "session", "", "Restore layout from session file")
	cmd.Flags().UintVar(&thumb, "thumb", 0, "Scale output down to this width")
	return cmd
}

// writeSnapshot renders a at the configured window size to path, scaled to
// width thumb when non-zero.
func writeSnapshot(a *app.App, path string, thumb uint) error {
	img := snapshot.Render(a, snapshot.Options{Width: cfg.Window.Width, Height: cfg.Window.Height})
	if thumb != 0 {
		if err := snapshot.Save(path, snapshot.Thumbnail(img, thumb)); err != nil {
			return err
		}
	} else if err := snapshot.Save(path, img); err != nil {
		return err
	}
	log.Info("snapshot written", "path", path)
	return nil
}
