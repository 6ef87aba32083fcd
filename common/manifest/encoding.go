package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the document encoding. JSON is the canonical interchange
// format; YAML is accepted for hand-maintained documents.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "<invalid>"
}

// FormatFromPath picks the encoding from a file extension. Everything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode serializes the manifest. JSON output is indented and newline
// terminated so documents diff cleanly under version control.
func Encode(m *Manifest, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown manifest format %d", f)
}

// Decode parses a manifest and restores the catalog ordering invariant,
// which hand-edited documents frequently break. Semantic checks beyond the
// schema version belong to Validate.
func Decode(data []byte, f Format) (*Manifest, error) {
	m := &Manifest{}
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parsing manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown manifest format %d", f)
	}
	if m.Metadata.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("schema version %d: %w", m.Metadata.SchemaVersion, ErrSchemaVersion)
	}
	sortUpdates(m.Updates)
	return m, nil
}
