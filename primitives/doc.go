// Package primitives provides the cryptographic building blocks shared by
// the SHATTER sharding engine and the VAULT folder-encryption engine:
// password-based key derivation, HKDF subkey derivation, authenticated
// encryption, hashing, CSPRNG byte generation, and constant-time
// comparison.
//
// # Design
//
// Nothing here is algorithm-agile at the call site: SHATTER and VAULT each
// bind one fixed KDF into their on-disk format (Argon2id for SHATTER,
// scrypt for VAULT), per the format-versioning rule in the top-level spec.
// The Suite interface bundles AEAD, HKDF, hashing and randomness behind one
// type, with ChaCha20Suite as its only implementation. The shatter and
// vault engines do not hold a Suite value; they call this package's
// functions directly.
//
// # Secret handling
//
// Master keys are carried as *Secret values, which keep the underlying
// bytes in a memguard enclave between derivation and use. Chunk keys and
// derived subkeys are plain byte slices. Callers MUST call Destroy once a
// secret is no longer needed; after Destroy the secret can no longer be
// opened. This is a SHOULD, not a guarantee, against a truly adversarial
// co-resident process, but it keeps master keys out of ordinary heap
// snapshots and GC-retained garbage.
package primitives
