package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"method-remapper/internal/diagnostic"
)

// CurrentVersion is the YAML schema version written and accepted.
const CurrentVersion = "1"

// File is the YAML document form of a table, also used to print resolved
// mappings.
type File struct {
	Version string                       `yaml:"version"`
	Classes map[string]map[string]string `yaml:"classes"`
}

// ParseYAML reads the YAML format.
func ParseYAML(data []byte, opts ...Option) (*Table, diagnostic.Diagnostics, error) {
	o := newOptions(opts)

	var diags diagnostic.Diagnostics

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, diags, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	if f.Version != "" && f.Version != CurrentVersion {
		return nil, diags, fmt.Errorf("unsupported mapping version %q", f.Version)
	}

	b := NewBuilder()

	for owner, methods := range f.Classes {
		for sig, newName := range methods {
			if owner == "" || sig == "" || newName == "" {
				o.logger.Warn("invalid mapping", "owner", owner, "signature", sig, "name", newName)
				diags.AddWarning("invalid_mapping", "owner, signature and new name must not be empty", owner, sig)

				continue
			}

			b.Put(owner, Signature(sig), newName)
		}
	}

	return b.Build(), diags, nil
}

// NewFile converts per-owner method sets into a File.
func NewFile(classes map[string]Methods) *File {
	f := &File{Version: CurrentVersion, Classes: make(map[string]map[string]string, len(classes))}

	for owner, m := range classes {
		entry := make(map[string]string, len(m))
		for sig, name := range m {
			entry[string(sig)] = name
		}

		f.Classes[owner] = entry
	}

	return f
}

// Marshal serializes the table to YAML.
func Marshal(t *Table) ([]byte, error) {
	classes := make(map[string]Methods)
	for _, owner := range t.Owners() {
		classes[owner], _ = t.Lookup(owner)
	}

	return yaml.Marshal(NewFile(classes))
}
