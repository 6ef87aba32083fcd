// Package release parses the TOML release description that accompanies an
// image build. The migration list it carries replaces a manifest's migration
// set wholesale.
package release

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/updraft-io/updraft-go/common/manifest"
)

// Release is the parsed release description: the datastore version the
// release moves devices to and the migration steps shipped with it, in file
// order.
type Release struct {
	Version    manifest.DataVersion `mapstructure:"version"`
	Migrations []manifest.Migration `mapstructure:"migration"`
}

// Load reads a release description such as:
//
//	version = "1.1"
//
//	[[migration]]
//	from = "1.0"
//	to = "1.1"
//	name = "migrate_v1.1_settings"
func Load(path string) (*Release, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading release %s: %w", path, err)
	}
	if !v.IsSet("version") {
		return nil, fmt.Errorf("release %s: missing required key 'version'", path)
	}

	var r Release
	if err := v.Unmarshal(&r, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("parsing release %s: %w", path, err)
	}
	for i, step := range r.Migrations {
		if step.Name == "" {
			return nil, fmt.Errorf("release %s: migration %d (%s -> %s) has no name",
				path, i, step.From.String(), step.To.String())
		}
		if step.From == step.To {
			return nil, fmt.Errorf("release %s: migration %q goes nowhere (%s -> %s)",
				path, step.Name, step.From.String(), step.To.String())
		}
	}
	return &r, nil
}
