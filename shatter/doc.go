// Package shatter implements the content-addressed file sharding engine:
// split a single input file into authenticated encrypted chunks under
// opaque filenames, emit a self-describing authenticated manifest, and
// reassemble in parallel with full integrity verification.
//
// A file is shattered into a sibling "<basename>_sharded" directory
// containing one "<uuid>.enc" per chunk plus a "<basename>.shatter_manifest"
// (and a ".bak" copy of it). The manifest is itself an AEAD record, so
// listing a sharded directory reveals nothing about chunk order, or count
// beyond what file listing trivially shows. The directory and manifest
// file names do carry the original file's base name (without extension).
package shatter
