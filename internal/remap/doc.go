// Package remap renames methods in class files according to a mapping
// table while keeping call sites linked across the class hierarchy.
//
// # Resolution
//
// A Resolver computes the effective mapping set of any class on demand:
//
//  1. a class already resolved returns its cached result;
//  2. a class with an explicit table entry resolves to exactly that entry,
//     never merged with anything inherited;
//  3. otherwise the class is loaded from the provider and the effective
//     sets of its superclass and then its interfaces, in declaration order,
//     are merged with later ones overwriting earlier ones.
//
// Classes the provider does not have (typically platform classes such as
// java/lang/Object) contribute nothing and are cached as such. Every result
// is cached for the lifetime of the Resolver, which must be discarded when
// the table changes. A hierarchy that refers back to a class still being
// resolved fails with ErrCyclicHierarchy.
//
// # Rewriting
//
// Remapper.Remap applies the effective sets to one class file:
//
//   - every invokevirtual, invokespecial, invokestatic and invokeinterface
//     is looked up by its static owner and signature; a hit repoints the
//     instruction at a member reference carrying the new name with owner,
//     descriptor and opcode unchanged;
//   - when the class itself has an explicit table entry, its matching
//     method declarations are renamed and flagged ACC_SYNTHETIC.
//
// Constant pool entries are only ever appended, so nothing else in the
// class moves. Rewriting output a second time with the same table yields
// the same bytes.
//
// Neither type is safe for concurrent use; use one Remapper per goroutine.
package remap
