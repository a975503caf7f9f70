// Package provider supplies class file bytes by internal class name.
//
// A Provider answers "give me the bytes of a/b/C" from some storage: a jar
// or zip archive, a directory tree, memory, or an ordered chain of those
// acting like a classpath. A missing class is reported with an error
// matching ErrNotFound; any other error is a storage failure that callers
// must not mistake for absence.
//
// Providers are read-only after construction and safe for concurrent use.
package provider
