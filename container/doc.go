// Package container implements the crypto container shared by SHATTER and
// VAULT: key wrapping bound to an identity context, and the little-endian
// u64 chunk-index associated data. Deterministic nonces live in package
// primitives; manifest and sentinel framing is done by the shatter and vault
// packages themselves.
package container
