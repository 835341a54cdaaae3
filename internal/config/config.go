// Settings for the surfaceiso command, layered from defaults, an optional
// YAML file, SURFACEISO_ environment variables and command line flags.
package config

import (
	"strings"

	"github.com/osuushi/surfaceiso/surface"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "SURFACEISO"
	configFileName = "surfaceiso"
	configFileType = "yaml"

	KeyEpsilon      = "epsilon"
	KeyBoundaryOnly = "boundary_only"
	KeySynthetic    = "synthetic"
	KeyMaxFlips     = "max_flips"
	KeyFormat       = "format"
	KeyScale        = "scale"
	KeyVerbose      = "verbose"
)

type Config struct {
	Epsilon      float64
	BoundaryOnly bool
	Synthetic    bool
	MaxFlips     int
	Format       surface.Format
	Scale        float64
	Verbose      bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEpsilon, surface.DefaultEpsilon)
	v.SetDefault(KeyBoundaryOnly, false)
	v.SetDefault(KeySynthetic, false)
	v.SetDefault(KeyMaxFlips, 0)
	v.SetDefault(KeyFormat, string(surface.FormatAuto))
	v.SetDefault(KeyScale, 1.0)
	v.SetDefault(KeyVerbose, false)
}

// Load the configuration. An explicit path must exist; otherwise a
// surfaceiso.yaml in the working directory is used if there is one.
// Overrides win over everything else, and are keyed by the Key constants.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "reading config")
			}
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	c := &Config{
		Epsilon:      v.GetFloat64(KeyEpsilon),
		BoundaryOnly: v.GetBool(KeyBoundaryOnly),
		Synthetic:    v.GetBool(KeySynthetic),
		MaxFlips:     v.GetInt(KeyMaxFlips),
		Format:       surface.Format(strings.ToLower(v.GetString(KeyFormat))),
		Scale:        v.GetFloat64(KeyScale),
		Verbose:      v.GetBool(KeyVerbose),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Epsilon < 0 {
		return errors.Errorf("epsilon must not be negative, got %v", c.Epsilon)
	}
	if c.Scale <= 0 {
		return errors.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.MaxFlips < 0 {
		return errors.Errorf("max_flips must not be negative, got %d", c.MaxFlips)
	}
	for _, f := range surface.Formats {
		if string(c.Format) == f {
			return nil
		}
	}
	return errors.Errorf("unknown format %q", c.Format)
}

// Options for building a surface with these settings.
func (c *Config) SurfaceOptions() []surface.Option {
	return []surface.Option{
		surface.WithEpsilon(c.Epsilon),
		surface.WithBoundaryOnly(c.BoundaryOnly),
		surface.WithSyntheticVertices(c.Synthetic),
		surface.WithMaxFlips(c.MaxFlips),
	}
}
