package primitives

// Suite is the seam the top-level design notes call for in place of
// dynamic dispatch on a source-language mixin: one interface covering AEAD,
// HKDF, hashing and randomness. Password-based key derivation is not part of
// it; Argon2id (SHATTER) and scrypt (VAULT) are plain functions in kdf.go.
// The engines do not use this interface; they call the package functions
// directly.
type Suite interface {
	// AEADSeal encrypts plaintext under key, nonce and ad.
	AEADSeal(key, nonce, plaintext, ad []byte) ([]byte, error)
	// AEADOpen authenticates and decrypts ciphertext under key, nonce and ad.
	AEADOpen(key, nonce, ciphertext, ad []byte) ([]byte, error)
	// HKDF derives a subkey from master, salt and info.
	HKDF(master, salt, info []byte) ([]byte, error)
	// Hash returns a hex-encoded digest of data.
	Hash(data []byte) string
	// Random returns n cryptographically secure random bytes.
	Random(n int) ([]byte, error)
}

// ChaCha20Suite is the sole Suite implementation: ChaCha20-Poly1305 AEAD,
// HKDF-SHA-256 subkeys, SHA-256 hashing, platform CSPRNG.
type ChaCha20Suite struct{}

var _ Suite = ChaCha20Suite{}

func (ChaCha20Suite) AEADSeal(key, nonce, plaintext, ad []byte) ([]byte, error) {
	a, err := NewAEAD(key)
	if err != nil {
		return nil, err
	}
	return a.Seal(nonce, plaintext, ad)
}

func (ChaCha20Suite) AEADOpen(key, nonce, ciphertext, ad []byte) ([]byte, error) {
	a, err := NewAEAD(key)
	if err != nil {
		return nil, ErrCryptoVerification
	}
	return a.Open(nonce, ciphertext, ad)
}

func (ChaCha20Suite) HKDF(master, salt, info []byte) ([]byte, error) {
	return DeriveSubkey(master, salt, info)
}

func (ChaCha20Suite) Hash(data []byte) string {
	return HashSHA256(data)
}

func (ChaCha20Suite) Random(n int) ([]byte, error) {
	return RandomBytes(n)
}
