package jar

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/qiniu/x/errors"
	"golang.org/x/sync/errgroup"

	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
	"method-remapper/internal/remap"
)

// Options configures an archive rewrite.
type Options struct {
	// Jobs is the number of shards rewritten concurrently. Zero means
	// GOMAXPROCS.
	Jobs int
	// Classpath resolves ancestors missing from the archive itself.
	Classpath provider.Provider
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Remap is passed to every shard's Remapper.
	Remap []remap.Option
}

// Stats summarizes a rewrite.
type Stats struct {
	// Classes is the number of class entries processed.
	Classes int
	// Rewritten is the number of classes whose bytes changed.
	Rewritten int
	// Copied is the number of non-class entries copied verbatim.
	Copied int
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}

	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return slog.Default()
}

func isClass(f *zip.File) bool {
	_, ok := provider.ClassName(f.Name)
	return ok && !f.FileInfo().IsDir()
}

// Rewrite remaps the classes of in and writes the resulting archive to out.
// Classes resolve their ancestors against in first, then opts.Classpath.
func Rewrite(ctx context.Context, in *zip.Reader, out io.Writer, t *mapping.Table, opts Options) (Stats, error) {
	var stats Stats

	src := provider.Chain{provider.NewZip(in)}
	if opts.Classpath != nil {
		src = append(src, opts.Classpath)
	}

	logger := opts.logger()
	remapOpts := append([]remap.Option{remap.WithLogger(logger)}, opts.Remap...)

	results := make([]result, len(in.File))

	jobs := min(opts.jobs(), max(len(in.File), 1))

	g, ctx := errgroup.WithContext(ctx)

	for shard := range jobs {
		g.Go(func() error {
			r := remap.New(src, t, remapOpts...)

			for i := shard; i < len(in.File); i += jobs {
				if err := ctx.Err(); err != nil {
					return err
				}

				if f := in.File[i]; isClass(f) {
					results[i] = rewriteEntry(r, f)
				}
			}

			logger.Debug("shard done", "shard", shard, "resolved", r.Resolver().Len())

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	var errs errors.List
	for _, res := range results {
		if res.err != nil {
			errs.Add(res.err)
		}
	}

	if err := errs.ToError(); err != nil {
		return stats, err
	}

	zw := zip.NewWriter(out)

	for i, f := range in.File {
		res := results[i]

		if res.class {
			stats.Classes++
		} else {
			stats.Copied++
		}

		if !res.changed {
			if err := zw.Copy(f); err != nil {
				return stats, fmt.Errorf("copy %s: %w", f.Name, err)
			}

			continue
		}

		stats.Rewritten++

		if err := writeEntry(zw, f, res.data); err != nil {
			return stats, err
		}
	}

	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("finish archive: %w", err)
	}

	logger.Info("archive rewritten", "classes", stats.Classes, "rewritten", stats.Rewritten, "copied", stats.Copied)

	return stats, nil
}

// result is the outcome for one archive entry. Entries that are not
// classes, or whose class did not change, are copied raw.
type result struct {
	class   bool
	changed bool
	data    []byte
	err     error
}

func rewriteEntry(r *remap.Remapper, f *zip.File) result {
	res := result{class: true}

	b, err := readEntry(f)
	if err != nil {
		res.err = err
		return res
	}

	if res.data, err = r.Remap(b); err != nil {
		res.err = fmt.Errorf("%s: %w", f.Name, err)
		return res
	}

	res.changed = !bytes.Equal(res.data, b)

	return res
}

func writeEntry(zw *zip.Writer, f *zip.File, b []byte) error {
	fh := f.FileHeader
	fh.CRC32 = 0
	fh.CompressedSize64 = 0
	fh.UncompressedSize64 = 0

	w, err := zw.CreateHeader(&fh)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}

	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write %s: %w", f.Name, err)
	}

	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}

	return b, nil
}

// RewriteFile rewrites the archive at inPath into outPath. The output file
// is removed when the rewrite fails.
func RewriteFile(ctx context.Context, inPath, outPath string, t *mapping.Table, opts Options) (stats Stats, err error) {
	rc, err := zip.OpenReader(inPath)
	if err != nil {
		return stats, fmt.Errorf("open archive %s: %w", inPath, err)
	}
	defer rc.Close()

	f, err := os.Create(outPath)
	if err != nil {
		return stats, fmt.Errorf("create %s: %w", outPath, err)
	}

	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", outPath, cerr)
		}

		if err != nil {
			_ = os.Remove(outPath)
		}
	}()

	return Rewrite(ctx, &rc.Reader, f, t, opts)
}
