package remap

import "method-remapper/internal/mapping"

// resolvedCache memoizes effective mapping sets per class. A nil set
// records that the class has no mappings. Entries are never replaced.
type resolvedCache struct {
	entries map[string]mapping.Methods
}

func newResolvedCache() *resolvedCache {
	return &resolvedCache{entries: make(map[string]mapping.Methods)}
}

// get returns the cached set and whether the class was resolved before.
func (c *resolvedCache) get(name string) (mapping.Methods, bool) {
	m, ok := c.entries[name]
	return m, ok
}

// add records the result for a class resolved for the first time.
func (c *resolvedCache) add(name string, m mapping.Methods) {
	if _, ok := c.entries[name]; ok {
		return
	}

	c.entries[name] = m
}

func (c *resolvedCache) len() int {
	return len(c.entries)
}
