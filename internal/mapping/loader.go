package mapping

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"method-remapper/internal/diagnostic"
)

// DefaultFileName is the conventional name of a mapping file.
const DefaultFileName = "remap.txt"

// maxLineSize bounds a single mapping line.
const maxLineSize = 1 << 20

// Option configures loading.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving warnings for skipped lines.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// LoadFile loads a mapping file; .yaml and .yml files use the YAML format,
// everything else the line format.
func LoadFile(path string, opts ...Option) (*Table, diagnostic.Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return parseNamed(path, data, opts)
}

// Load loads a mapping file from fsys, e.g. os.DirFS or an embedded bundle.
func Load(fsys fs.FS, name string, opts ...Option) (*Table, diagnostic.Diagnostics, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, diagnostic.Diagnostics{}, fmt.Errorf("failed to read mapping file %s: %w", name, err)
	}

	return parseNamed(name, data, opts)
}

func parseNamed(name string, data []byte, opts []Option) (*Table, diagnostic.Diagnostics, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data, opts...)
	default:
		return Parse(bytes.NewReader(data), opts...)
	}
}

// Parse reads the line format.
func Parse(r io.Reader, opts ...Option) (*Table, diagnostic.Diagnostics, error) {
	o := newOptions(opts)

	var diags diagnostic.Diagnostics

	b := NewBuilder()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		parts := strings.Split(line, " ")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		if len(parts) != 3 || slices.Contains(parts, "") {
			o.logger.Warn("invalid mapping", "line", lineNo, "text", line)
			diags.Add(diagnostic.Diagnostic{
				Severity: diagnostic.DiagnosticWarning,
				Code:     "invalid_mapping",
				Message:  fmt.Sprintf("invalid mapping %q: want <owner> <name><descriptor> <new name>", line),
				Line:     lineNo,
			})

			continue
		}

		b.Put(parts[0], Signature(parts[1]), parts[2])
	}

	if err := sc.Err(); err != nil {
		return nil, diags, fmt.Errorf("failed to read mappings: %w", err)
	}

	return b.Build(), diags, nil
}
