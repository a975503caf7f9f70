package mapping

import (
	"maps"
	"slices"
	"strings"
)

// Signature is a method name immediately followed by its descriptor.
type Signature string

// NewSignature joins a method name and descriptor.
func NewSignature(name, desc string) Signature {
	return Signature(name + desc)
}

// Split separates the name from the descriptor. It exists for validation
// and diagnostics only; matching always uses the whole signature.
func (s Signature) Split() (string, string) {
	i := strings.IndexByte(string(s), '(')
	if i < 0 {
		return string(s), ""
	}

	return string(s[:i]), string(s[i:])
}

// Methods maps signatures to new method names. Values handed out by Table
// and by the resolver are shared and must not be modified.
type Methods map[Signature]string

// Signatures returns the keys in sorted order.
func (m Methods) Signatures() []Signature {
	return slices.Sorted(maps.Keys(m))
}

// Table is the immutable explicit mapping table.
type Table struct {
	owners map[string]Methods
}

// Lookup returns the explicit entry of owner.
func (t *Table) Lookup(owner string) (Methods, bool) {
	if t == nil {
		return nil, false
	}

	m, ok := t.owners[owner]

	return m, ok
}

// Get returns the new name of sig declared explicitly on owner.
func (t *Table) Get(owner string, sig Signature) (string, bool) {
	m, ok := t.Lookup(owner)
	if !ok {
		return "", false
	}

	name, ok := m[sig]

	return name, ok
}

// Owners returns the owners with an explicit entry, sorted.
func (t *Table) Owners() []string {
	if t == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(t.owners))
}

// Len returns the number of (owner, signature) entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	n := 0
	for _, m := range t.owners {
		n += len(m)
	}

	return n
}

// Builder accumulates entries for a Table.
type Builder struct {
	owners map[string]Methods
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{owners: make(map[string]Methods)}
}

// Put records a rename, replacing an earlier one for the same owner and
// signature.
func (b *Builder) Put(owner string, sig Signature, newName string) {
	m, ok := b.owners[owner]
	if !ok {
		m = make(Methods)
		b.owners[owner] = m
	}

	m[sig] = newName
}

// Build snapshots the accumulated entries. The Builder stays usable.
func (b *Builder) Build() *Table {
	owners := make(map[string]Methods, len(b.owners))
	for owner, m := range b.owners {
		owners[owner] = maps.Clone(m)
	}

	return &Table{owners: owners}
}
