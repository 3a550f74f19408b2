package primitives

import (
	"crypto/hmac"
	"crypto/sha256"
)

// hmacTruncate returns the first n bytes of HMAC-SHA256(key, data).
func hmacTruncate(key, data []byte, n int) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:n]
}
