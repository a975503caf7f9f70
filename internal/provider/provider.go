package provider

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"method-remapper/internal/classfile"
)

// ClassExtension is the file extension of class files inside archives and
// directories.
const ClassExtension = ".class"

// ErrNotFound is returned when a provider has no class of the given name.
var ErrNotFound = errors.New("class not found")

// Provider loads class file bytes by internal class name, e.g.
// java/lang/Object.
type Provider interface {
	ClassBytes(name string) ([]byte, error)
}

// Lister is implemented by providers that can enumerate their classes.
type Lister interface {
	Classes() ([]string, error)
}

// EntryName returns the archive path of a class.
func EntryName(class string) string {
	return class + ClassExtension
}

// ClassName returns the class name stored at an archive path, or false if
// the path is not a class file.
func ClassName(entry string) (string, bool) {
	if !strings.HasSuffix(entry, ClassExtension) || len(entry) == len(ClassExtension) {
		return "", false
	}

	return strings.TrimSuffix(entry, ClassExtension), true
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Metadata loads a class and returns its hierarchy information.
func Metadata(p Provider, name string) (classfile.Metadata, error) {
	b, err := p.ClassBytes(name)
	if err != nil {
		return classfile.Metadata{}, err
	}

	cf, err := classfile.Parse(b)
	if err != nil {
		return classfile.Metadata{}, fmt.Errorf("parse %s: %w", name, err)
	}

	return cf.Metadata()
}

// Map is an in-memory provider keyed by class name.
type Map map[string][]byte

// ClassBytes implements Provider.
func (m Map) ClassBytes(name string) ([]byte, error) {
	b, ok := m[name]
	if !ok {
		return nil, notFound(name)
	}

	return b, nil
}

// Classes implements Lister.
func (m Map) Classes() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// Chain searches providers in order, like a classpath. Absence in one
// provider moves on to the next; any other error stops the search.
type Chain []Provider

// ClassBytes implements Provider.
func (c Chain) ClassBytes(name string) ([]byte, error) {
	for _, p := range c {
		b, err := p.ClassBytes(name)
		if err == nil {
			return b, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	return nil, notFound(name)
}

// Classes implements Lister over the members that support it.
func (c Chain) Classes() ([]string, error) {
	var names []string

	for _, p := range c {
		l, ok := p.(Lister)
		if !ok {
			continue
		}

		more, err := l.Classes()
		if err != nil {
			return nil, err
		}

		names = append(names, more...)
	}

	sort.Strings(names)

	return slices.Compact(names), nil
}
