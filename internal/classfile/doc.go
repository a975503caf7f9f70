// Package classfile reads, edits and re-serializes JVM class files.
//
// The package is a structural editor rather than a visitor: Parse produces
// an in-memory ClassFile (header, constant pool, fields, methods, attributes),
// callers patch it, and Bytes writes it back. Everything the editor does not
// understand is carried as raw bytes, so a parsed class that was not modified
// serializes to the exact input.
//
// # Constant pool
//
// Entries keep their original indices. Editing only ever appends entries
// (reusing an existing identical entry when there is one), so indices held by
// unrelated attributes stay valid. Strings are stored in the modified UTF-8
// encoding used by the JVM and converted at the API boundary.
//
// # Bytecode
//
// Code attributes are exposed as byte slices aliasing the attribute data.
// Decode walks a bytecode array and reports every instruction with its offset
// and length, which is enough to patch constant pool operands in place
// without touching branch offsets or stack map frames.
package classfile
