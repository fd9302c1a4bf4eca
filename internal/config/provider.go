// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions selects where configuration is read from. The zero value
// means the platform default location.
type LoadOptions struct {
	// File, when set, names the exact file to load. Loading fails if it
	// does not exist; the directory lookup is skipped.
	File string

	// Dir, when set, replaces the platform config directory in the lookup.
	Dir string
}

// Provider hands out configuration. The CLI depends on this interface so
// tests can substitute a canned configuration without touching the
// filesystem.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)

	// LoadResolved is Load plus the path of the config file that supplied
	// values; the path is empty when built-in defaults are in effect.
	LoadResolved(ctx context.Context, opts LoadOptions) (*Config, string, error)
}

// NewProvider returns the file-backed Provider.
func NewProvider() Provider {
	return &fileProvider{}
}

type fileProvider struct{}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p *fileProvider) LoadResolved(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
