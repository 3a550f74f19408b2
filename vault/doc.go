// Package vault implements the folder-scoped encryption engine: every
// regular file under a chosen directory tree is encrypted in place
// (streaming, chunked), every file and directory name is rewritten under
// authenticated encryption, and the whole operation is gated by a
// per-folder authenticated sentinel manifest (".vault_manifest").
//
// A folder is one of four states at any time: PLAIN (no sentinel),
// LOCKED-THIS-KEY (sentinel verifies under the supplied passphrase),
// LOCKED-OTHER (sentinel present but does not verify), or CORRUPT (sentinel
// unreadable). EncryptFolder and DecryptFolder refuse to act outside the
// one valid transition for each state.
package vault
