package primitives

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// Secret holds key material in a locked, non-swappable memory enclave.
// Zero value is not usable; construct with NewSecret.
type Secret struct {
	enclave *memguard.Enclave
	size    int
}

// NewSecret takes ownership of b, copying it into a locked enclave and
// wiping the caller's copy. b must not be used after this call.
func NewSecret(b []byte) *Secret {
	size := len(b)
	enclave := memguard.NewEnclave(b)
	return &Secret{enclave: enclave, size: size}
}

// Len returns the length of the secret in bytes.
func (s *Secret) Len() int {
	return s.size
}

// Use opens the enclave, hands the plaintext bytes to fn, and destroys the
// temporary buffer before returning. fn must not retain the slice it is
// given.
func (s *Secret) Use(fn func(key []byte) error) error {
	if s == nil || s.enclave == nil {
		return fmt.Errorf("use of destroyed or nil secret")
	}
	buf, err := s.enclave.Open()
	if err != nil {
		return fmt.Errorf("open secret enclave: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// Bytes opens the enclave and returns a fresh copy of the secret. The
// caller is responsible for wiping the returned slice with memguard.WipeBytes
// once it is no longer needed. Prefer Use where possible.
func (s *Secret) Bytes() ([]byte, error) {
	buf, err := s.enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("open secret enclave: %w", err)
	}
	defer buf.Destroy()
	out := make([]byte, buf.Size())
	copy(out, buf.Bytes())
	return out, nil
}

// Destroy drops the secret's reference to its enclave, after which Use
// returns an error. Safe to call multiple times.
func (s *Secret) Destroy() {
	if s == nil || s.enclave == nil {
		return
	}
	s.enclave = nil
}
