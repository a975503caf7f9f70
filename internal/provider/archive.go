package provider

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Zip provides classes stored in a zip or jar archive.
type Zip struct {
	r *zip.Reader
}

// NewZip wraps an open archive.
func NewZip(r *zip.Reader) *Zip {
	return &Zip{r: r}
}

// ClassBytes implements Provider.
func (z *Zip) ClassBytes(name string) ([]byte, error) {
	return readFS(z.r, name)
}

// Classes implements Lister.
func (z *Zip) Classes() ([]string, error) {
	var names []string

	for _, f := range z.r.File {
		if name, ok := ClassName(f.Name); ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names, nil
}

// ZipFile is a Zip that owns the underlying file.
type ZipFile struct {
	*Zip
	rc *zip.ReadCloser
}

// OpenZip opens an archive on disk. The caller must Close it.
func OpenZip(path string) (*ZipFile, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	return &ZipFile{Zip: NewZip(&rc.Reader), rc: rc}, nil
}

// Close releases the archive.
func (z *ZipFile) Close() error {
	return z.rc.Close()
}

// Dir provides classes laid out as a directory tree, e.g. os.DirFS of a
// compiler output directory.
type Dir struct {
	fsys fs.FS
}

// NewDir wraps a file system whose root is the package root.
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// ClassBytes implements Provider.
func (d *Dir) ClassBytes(name string) ([]byte, error) {
	return readFS(d.fsys, name)
}

// Classes implements Lister.
func (d *Dir) Classes() ([]string, error) {
	var names []string

	err := fs.WalkDir(d.fsys, ".", func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if name, ok := ClassName(path); ok && !e.IsDir() {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}

	return names, nil
}

func readFS(fsys fs.FS, name string) ([]byte, error) {
	entry := EntryName(name)
	if !fs.ValidPath(entry) {
		return nil, notFound(name)
	}

	f, err := fsys.Open(entry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}

		return nil, fmt.Errorf("open %s: %w", entry, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry, err)
	}

	return b, nil
}

// Closer is a Provider holding resources that must be released.
type Closer interface {
	Provider
	io.Closer
}

// Open returns a provider for a classpath element: a directory or an
// archive file.
func Open(path string) (Closer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("classpath element %s: %w", path, err)
	}

	if info.IsDir() {
		return nopCloser{NewDir(os.DirFS(filepath.Clean(path)))}, nil
	}

	return OpenZip(path)
}

type nopCloser struct {
	*Dir
}

func (nopCloser) Close() error { return nil }
