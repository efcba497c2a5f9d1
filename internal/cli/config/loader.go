package config

import (
	"fmt"

	"github.com/yndnr/wsprobe/internal/infra/confloader"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = "ws.yaml"

// EnvPrefix prefixes the environment variables overriding settings.
const EnvPrefix = "WS_"

// LoadOptions selects the sources merged over the defaults.
type LoadOptions struct {
	// File is an explicit settings file; it must exist. When empty,
	// DefaultFile is used if present.
	File string
	// Overrides are applied last, keyed like the file.
	Overrides map[string]any
}

// Load merges defaults, the settings file, WS_* variables and overrides,
// then validates the result.
func Load(opts LoadOptions) (*Settings, error) {
	loaderOpts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithoutEnvKeys("extra_headers"),
	}
	if opts.File != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(opts.File))
	} else {
		loaderOpts = append(loaderOpts, confloader.WithOptionalConfigFile(DefaultFile))
	}

	l := confloader.NewLoader(loaderOpts...)
	s := Default()
	if err := l.Load(s); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}

	if len(opts.Overrides) > 0 {
		if err := l.LoadMap(opts.Overrides); err != nil {
			return nil, fmt.Errorf("config: overrides: %w", err)
		}
		if err := l.Unmarshal(s); err != nil {
			return nil, fmt.Errorf("config: overrides: %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
