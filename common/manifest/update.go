package manifest

import (
	"fmt"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/go-semver/semver"
)

// Images names the three artifacts a device fetches for one update: the root
// filesystem image, the boot image, and the verity hash tree protecting the
// root image.
type Images struct {
	Root string `json:"root" yaml:"root"`
	Boot string `json:"boot" yaml:"boot"`
	Hash string `json:"hash" yaml:"hash"`
}

// Group keys the updates that share a version ceiling: one group per variant
// and architecture combination.
type Group struct {
	Variant string
	Arch    string
}

func (g Group) String() string {
	return g.Variant + "/" + g.Arch
}

// Match reports whether the group matches the given doublestar globs. An
// empty glob matches everything.
func (g Group) Match(variantGlob, archGlob string) (bool, error) {
	if variantGlob != "" {
		if ok, err := doublestar.Match(variantGlob, g.Variant); err != nil || !ok {
			return false, err
		}
	}
	if archGlob != "" {
		if ok, err := doublestar.Match(archGlob, g.Arch); err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Update is one deployable image build. (Variant, Arch, Version) is unique
// within a manifest. MaxVersion is shared by every update in the same Group
// and is only ever raised, never lowered.
type Update struct {
	Variant          string         `json:"variant" yaml:"variant"`
	Arch             string         `json:"arch" yaml:"arch"`
	Version          semver.Version `json:"version" yaml:"version"`
	MaxVersion       semver.Version `json:"max_version" yaml:"max_version"`
	DatastoreVersion DataVersion    `json:"datastore_version" yaml:"datastore_version"`
	Images           Images         `json:"images" yaml:"images"`
	Waves            []Wave         `json:"waves" yaml:"waves"`
}

func (u *Update) Group() Group {
	return Group{Variant: u.Variant, Arch: u.Arch}
}

// Matches reports whether the update is exactly the given build.
func (u *Update) Matches(variant, arch string, version semver.Version) bool {
	return u.Variant == variant && u.Arch == arch && u.Version.Equal(version)
}

// Name returns the identity triple in the form used by log and error
// messages.
func (u *Update) Name() string {
	return fmt.Sprintf("%s/%s %s", u.Variant, u.Arch, u.Version.String())
}

// semver.Version can unmarshal itself from YAML but has no marshaler, so
// encoding goes through a mirror struct carrying the versions as strings.
func (u Update) MarshalYAML() (any, error) {
	type wire struct {
		Variant          string      `yaml:"variant"`
		Arch             string      `yaml:"arch"`
		Version          string      `yaml:"version"`
		MaxVersion       string      `yaml:"max_version"`
		DatastoreVersion DataVersion `yaml:"datastore_version"`
		Images           Images      `yaml:"images"`
		Waves            []Wave      `yaml:"waves"`
	}
	return wire{
		Variant:          u.Variant,
		Arch:             u.Arch,
		Version:          u.Version.String(),
		MaxVersion:       u.MaxVersion.String(),
		DatastoreVersion: u.DatastoreVersion,
		Images:           u.Images,
		Waves:            u.Waves,
	}, nil
}
