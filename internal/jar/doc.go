// Package jar rewrites every class of a zip or jar archive.
//
// Entries are split into shards processed concurrently, each shard with its
// own remap.Remapper sharing the read-only mapping table and class source.
// The output archive keeps entry order and headers; non-class entries are
// copied without recompression. Nothing is written when any entry fails.
package jar
