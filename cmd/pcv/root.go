package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"dasa.cc/pcv/config"
	"dasa.cc/pcv/dataset"
	"dasa.cc/pcv/gesture"
	"dasa.cc/pcv/glw"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/tool"
)

// cfg is loaded before any subcommand runs.
var cfg config.Config

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "pcv",
		Short:         "Parallel coordinates viewer",
		Long:          `Draw multivariate tables as lines across draggable axes, select with a box and expand time between two axes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(cfgFile)
			if err != nil {
				return err
			}
			c, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			cfg = c
			log.SetLevel(c.Level())
			glw.SetLogLevel(c.Level())
			log.Debug("config", "path", path, "scale", c.Scale, "repeat", c.Repeat)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.pcv.yaml if present)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Float32("scale", tool.DefaultScale, "Draw scale of data space")
	pf.Float32("axis-thickness", tool.AxisThickness, "Width of axis hitboxes in data space")
	pf.Duration("double-click", gesture.DoubleClickTime, "Double click window")
	pf.Int("repeat", 1, "Time steps given to a single table")

	cmd.AddCommand(
		newViewCmd(),
		newShellCmd(),
		newSnapshotCmd(),
		newVersionCmd(),
	)
	return cmd
}

// configPath returns path if set, else the default config file when it exists.
func configPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	path = filepath.Join(home, ".pcv.yaml")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return path, nil
}

// loadData reads paths as time steps, repeating a single step as configured.
func loadData(paths []string) (plot.Data, error) {
	d, err := dataset.Load(paths...)
	if err != nil {
		return d, err
	}
	if d.Steps == 1 && cfg.Repeat > 1 {
		d = dataset.Repeat(d, cfg.Repeat)
	}
	log.Info("loaded", "rows", d.Rows, "attrs", d.Attrs, "steps", d.Steps)
	return d, nil
}
