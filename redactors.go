package expunge

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/netip"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Common replacement functions for the `with=` option. All of them have the
// shape func(string) string so they can be named directly in a tag:
//
//	Email string `expunge:"with=expunge.SHA256Hex"`

// SHA256Hex replaces a value with the hex-encoded SHA-256 of its bytes.
// Deterministic, so equal inputs stay correlatable after sanitization.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HMACRedactor returns a keyed variant of SHA256Hex. Values remain
// correlatable within one deployment but not across key rotations.
func HMACRedactor(key []byte) func(string) string {
	return func(s string) string {
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(s))

		return hex.EncodeToString(mac.Sum(nil))
	}
}

// BcryptRedactor returns a replacement function that bcrypt-hashes the value.
// Non-deterministic (salted); verify with bcrypt.CompareHashAndPassword.
// Hash failures collapse to an empty string rather than leaking the input.
func BcryptRedactor(cost int) func(string) string {
	return func(s string) string {
		sum, err := bcrypt.GenerateFromPassword([]byte(s), cost)
		if err != nil {
			return ""
		}

		return string(sum)
	}
}

// Argon2Redactor returns a replacement function hashing with Argon2id and a
// fixed salt derived from the key. Deterministic for a given key.
func Argon2Redactor(key []byte) func(string) string {
	salt := sha256.Sum256(key)

	return func(s string) string {
		sum := argon2.IDKey([]byte(s), salt[:16], 1, 64*1024, 4, 32)
		return hex.EncodeToString(sum)
	}
}

// MaskEmail keeps the first rune of the local part and the full domain:
// alice@example.com -> a***@example.com. Values without an @ are fully
// masked.
func MaskEmail(s string) string {
	at := strings.LastIndex(s, "@")
	if at < 1 {
		return strings.Repeat("*", len(s))
	}

	local := []rune(s[:at])

	return string(local[0]) + "***" + s[at:]
}

// MaskLast4 keeps only the last four characters: 4111111111111111 ->
// ************1111. Shorter values are fully masked.
func MaskLast4(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}

	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

// MaskLastOctet zeros the final address byte, degrading an address that
// identifies an individual into one that identifies a network:
// 123.89.46.72 -> 123.89.46.0.
func MaskLastOctet(ip netip.Addr) netip.Addr {
	if ip.Is4() {
		b := ip.As4()
		b[3] = 0

		return netip.AddrFrom4(b)
	}

	b := ip.As16()
	b[15] = 0

	return netip.AddrFrom16(b)
}
