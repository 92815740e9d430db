package expunge_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/expunge-go/expunge"
)

func TestSHA256HexDeterministic(t *testing.T) {
	got := expunge.SHA256Hex("101 Some Street")

	// Recomputable by anyone holding the same input.
	assert.Equal(t, expunge.SHA256Hex("101 Some Street"), got)
	assert.Len(t, got, 64)
	assert.NotEqual(t, expunge.SHA256Hex("102 Some Street"), got)
}

func TestHMACRedactor(t *testing.T) {
	f := expunge.HMACRedactor([]byte("key-1"))

	assert.Equal(t, f("alice"), f("alice"))
	assert.NotEqual(t, f("alice"), f("bob"))
	assert.NotEqual(t, expunge.HMACRedactor([]byte("key-2"))("alice"), f("alice"))
}

func TestBcryptRedactor(t *testing.T) {
	f := expunge.BcryptRedactor(bcrypt.MinCost)
	sum := f("hunter2")

	require.NotEmpty(t, sum)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(sum), []byte("hunter2")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(sum), []byte("hunter3")))
}

func TestArgon2Redactor(t *testing.T) {
	f := expunge.Argon2Redactor([]byte("key"))

	assert.Equal(t, f("alice"), f("alice"))
	assert.NotEqual(t, f("alice"), f("bob"))
	assert.Len(t, f("alice"), 64)
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***@example.com"},
		{"a@b.c", "a***@b.c"},
		{"not-an-email", "************"},
		{"@nolocal", "********"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expunge.MaskEmail(tt.in), "input %q", tt.in)
	}
}

func TestMaskLast4(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"4111111111111111", "************1111"},
		{"12345", "*2345"},
		{"1234", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expunge.MaskLast4(tt.in), "input %q", tt.in)
	}
}

func TestMaskLastOctet(t *testing.T) {
	v4 := netip.MustParseAddr("123.89.46.72")
	assert.Equal(t, netip.MustParseAddr("123.89.46.0"), expunge.MaskLastOctet(v4))

	v6 := netip.MustParseAddr("2001:db8::ff")
	assert.Equal(t, netip.MustParseAddr("2001:db8::"), expunge.MaskLastOctet(v6))
}
