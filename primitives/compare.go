package primitives

import "crypto/subtle"

// ConstantTimeEqual reports whether a and b are equal using a constant-time
// comparison. Use this for any MAC-like value (hash digests compared against
// an attacker-influenced manifest field); a plain == invites timing oracles.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
