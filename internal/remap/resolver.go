package remap

import (
	"context"
	"errors"
	"maps"

	"method-remapper/internal/classfile"
	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
)

// Resolver computes and memoizes effective mapping sets.
type Resolver struct {
	table    *mapping.Table
	provider provider.Provider
	config   config
	cache    *resolvedCache
}

// NewResolver creates a Resolver with an empty cache.
func NewResolver(p provider.Provider, t *mapping.Table, opts ...Option) *Resolver {
	return &Resolver{
		table:    t,
		provider: p,
		config:   newConfig(opts),
		cache:    newResolvedCache(),
	}
}

// Table returns the explicit mapping table.
func (r *Resolver) Table() *mapping.Table {
	return r.table
}

// Resolve returns the effective mapping set of owner, or nil when neither the
// class nor any ancestor contributes mappings. The returned map is shared
// with the cache and must not be modified.
func (r *Resolver) Resolve(owner string) (mapping.Methods, error) {
	return r.resolve(owner, nil, make(map[string]bool))
}

// Mapping returns the new name of sig as seen through owner.
func (r *Resolver) Mapping(owner string, sig mapping.Signature) (string, bool, error) {
	m, err := r.Resolve(owner)
	if err != nil {
		return "", false, err
	}

	name, ok := m[sig]

	return name, ok, nil
}

// Cached returns the cached set of owner and whether owner was resolved.
func (r *Resolver) Cached(owner string) (mapping.Methods, bool) {
	return r.cache.get(owner)
}

// Len returns the number of resolved classes.
func (r *Resolver) Len() int {
	return r.cache.len()
}

// resolveWith resolves a class whose metadata is already at hand, sparing a
// provider round trip for the class being rewritten.
func (r *Resolver) resolveWith(md *classfile.Metadata) (mapping.Methods, error) {
	return r.resolve(md.Name, md, make(map[string]bool))
}

func (r *Resolver) resolve(name string, md *classfile.Metadata, visiting map[string]bool) (mapping.Methods, error) {
	if m, ok := r.cache.get(name); ok {
		return m, nil
	}

	if m, ok := r.table.Lookup(name); ok {
		r.cache.add(name, m)
		return m, nil
	}

	if visiting[name] {
		return nil, &Error{Owner: name, Err: ErrCyclicHierarchy}
	}

	visiting[name] = true
	defer delete(visiting, name)

	r.config.logger.Log(context.Background(), LevelTrace, "creating mappings", "class", name)

	if md == nil {
		loaded, err := provider.Metadata(r.provider, name)
		if errors.Is(err, provider.ErrNotFound) {
			r.cache.add(name, nil)
			return nil, nil
		}

		if err != nil {
			return nil, &Error{Owner: name, Err: err}
		}

		md = &loaded
	}

	var acc mapping.Methods

	merge := func(ancestor string) error {
		m, err := r.resolve(ancestor, nil, visiting)
		if err != nil || len(m) == 0 {
			return err
		}

		if acc == nil {
			acc = make(mapping.Methods, len(m))
		}

		maps.Copy(acc, m)

		return nil
	}

	if md.Super != "" {
		if err := merge(md.Super); err != nil {
			return nil, err
		}
	}

	for _, iface := range md.Interfaces {
		if err := merge(iface); err != nil {
			return nil, err
		}
	}

	r.cache.add(name, acc)

	return acc, nil
}
