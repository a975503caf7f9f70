// Package mapping holds the explicit method rename table and its loaders.
//
// A Table maps an owning class (internal form, e.g. java/lang/Object) to a
// set of method signatures (name immediately followed by the descriptor,
// e.g. toString()Ljava/lang/String;) and the new name each one receives.
// Signatures are opaque, case-sensitive keys: lookups never split them or
// match partially.
//
// # Line format
//
// The default source is a text file (DefaultFileName) with one mapping per
// line and three fields separated by a single space:
//
//	# owner                signature                     new name
//	java/lang/Object toString()Ljava/lang/String; asString
//
// Blank lines and lines starting with '#' are ignored. Lines that do not
// split into exactly three non-empty fields are skipped with a warning
// diagnostic. When the same owner and signature appear twice the last line
// wins.
//
// # YAML format
//
// Files ending in .yaml or .yml use the same table in YAML:
//
//	version: "1"
//	classes:
//	  java/lang/Object:
//	    toString()Ljava/lang/String;: asString
//
// # Validation
//
// Validate checks a table against a class source: well-formed descriptors
// and names, owners that exist, signatures that are actually declared and
// renames that would collide with an existing declaration.
package mapping
