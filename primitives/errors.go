package primitives

import "errors"

// ErrCryptoVerification is the single, indistinguishable failure kind for
// every AEAD authentication failure, hash mismatch, or key-unwrap failure.
// Internal code may annotate a wrapped error with more detail for logging,
// but nothing derived from this error may let a caller distinguish
// "wrong key" from "corrupt ciphertext" from "tampered tag".
var ErrCryptoVerification = errors.New("cryptographic verification failed")
