// Package config loads viewer settings from defaults, an optional yaml file,
// PCV_ prefixed environment variables and command line flags, in increasing
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/image/math/f32"

	"dasa.cc/pcv/app"
	"dasa.cc/pcv/expansion"
	"dasa.cc/pcv/gesture"
	"dasa.cc/pcv/plot"
	"dasa.cc/pcv/tool"
)

type Config struct {
	Window        Window        `mapstructure:"window"`
	Scale         float32       `mapstructure:"scale"`
	AxisThickness float32       `mapstructure:"axis_thickness"`
	DoubleClick   time.Duration `mapstructure:"double_click"`
	Repeat        int           `mapstructure:"repeat"` // time steps given to single file datasets
	LogLevel      string        `mapstructure:"log_level"`
	Colors        Colors        `mapstructure:"colors"`
}

type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type Colors struct {
	Groups    [][4]float32 `mapstructure:"groups"`
	GroupSize int          `mapstructure:"group_size"`
	Highlight [4]float32   `mapstructure:"highlight"`
	Axis      [4]float32   `mapstructure:"axis"`
	AxisHot   [4]float32   `mapstructure:"axis_hot"`
	Expansion [4]float32   `mapstructure:"expansion"`
}

func vec(v f32.Vec4) []float32 { return v[:] }

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "pcv")
	v.SetDefault("scale", tool.DefaultScale)
	v.SetDefault("axis_thickness", tool.AxisThickness)
	v.SetDefault("double_click", gesture.DoubleClickTime)
	v.SetDefault("repeat", 1)
	v.SetDefault("log_level", "info")

	groups := make([][]float32, len(plot.DefaultPalette.Groups))
	for i, c := range plot.DefaultPalette.Groups {
		groups[i] = vec(c)
	}
	v.SetDefault("colors.groups", groups)
	v.SetDefault("colors.group_size", plot.DefaultPalette.GroupSize)
	v.SetDefault("colors.highlight", vec(plot.DefaultPalette.Highlight))
	v.SetDefault("colors.axis", vec(tool.AxisColor))
	v.SetDefault("colors.axis_hot", vec(tool.AxisHotColor))
	v.SetDefault("colors.expansion", vec(expansion.HighlightColor))
}

// Load reads configuration. An empty path skips the config file. Flags that
// were set on fs override everything else; flag names use dashes for
// underscores, such as log-level.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("pcv")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		log.Debug("config file", "path", v.ConfigFileUsed())
	}
	if fs != nil {
		for _, key := range v.AllKeys() {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: %w", err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports settings outside their usable range.
func (c Config) Validate() error {
	switch {
	case c.Scale <= 0 || c.Scale > 1:
		return fmt.Errorf("config: scale %v not in (0, 1]", c.Scale)
	case c.AxisThickness <= 0:
		return fmt.Errorf("config: axis_thickness %v must be positive", c.AxisThickness)
	case c.DoubleClick < 0:
		return fmt.Errorf("config: double_click %v is negative", c.DoubleClick)
	case c.Repeat < 1:
		return fmt.Errorf("config: repeat %v must be at least 1", c.Repeat)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: window %vx%v", c.Window.Width, c.Window.Height)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level returns the parsed log level, info if invalid.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Palette returns line colors.
func (c Config) Palette() plot.Palette {
	pal := plot.Palette{GroupSize: c.Colors.GroupSize, Highlight: c.Colors.Highlight}
	for _, g := range c.Colors.Groups {
		pal.Groups = append(pal.Groups, g)
	}
	return pal
}

// Options returns app options for c.
func (c Config) Options() app.Options {
	return app.Options{
		Scale:          c.Scale,
		AxisThickness:  c.AxisThickness,
		Threshold:      c.DoubleClick,
		Palette:        c.Palette(),
		AxisColor:      c.Colors.Axis,
		AxisHotColor:   c.Colors.AxisHot,
		ExpansionColor: c.Colors.Expansion,
	}
}
