// Package securecore is the local-first secure-data toolkit: two
// cryptographic engines that share a threat model, a key-derivation regime,
// and an at-rest container format.
//
// # Overview
//
//   - SHATTER (package shatter) splits a single input file into
//     authenticated encrypted chunks under opaque filenames and emits a
//     self-describing, authenticated manifest that permits parallel
//     reassembly and integrity verification.
//   - VAULT (package vault) encrypts every regular file inside a chosen
//     directory tree in place, rewrites every file and directory name under
//     authenticated encryption, and gates the whole operation behind a
//     per-folder authenticated manifest sentinel.
//
// Both engines build on package primitives (key derivation, AEAD, hashing,
// CSPRNG, deterministic nonces) and package container (key wrapping, chunk-
// index associated data). This root package holds only the error taxonomy both engines
// report through.
//
// # Basic usage
//
//	dir, err := shatter.Shatter(ctx, shatter.Input{
//	    Path:       "/data/archive.tar",
//	    Passphrase: "correct horse battery staple",
//	})
//
//	err = vault.EncryptFolder(ctx, vault.EncryptInput{
//	    Folder:     "/data/project",
//	    Passphrase: "correct horse battery staple",
//	})
//
// # Security considerations
//
// Protected against: unauthorized access to encrypted files/chunks at rest,
// tampering (every ciphertext is authenticated), offline brute-force
// (memory-hard KDFs on both containers).
//
// Not protected against: memory dumps of a live process holding an unlocked
// secret, side-channel attacks, a compromised host, or metadata leakage
// (file sizes, chunk counts, directory shape).
package securecore
