package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkorolev/whoopsync/internal/common"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	c, err := New("operator-secret")
	require.NoError(t, err)

	sealed, err := c.Seal("abc")
	require.NoError(t, err)
	assert.True(t, IsEncrypted(sealed))
	assert.NotContains(t, sealed, "abc")

	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc", opened)
}

func TestSeal_RandomNonce(t *testing.T) {
	c, err := New("operator-secret")
	require.NoError(t, err)

	s1, err := c.Seal("same-plaintext")
	require.NoError(t, err)
	s2, err := c.Seal("same-plaintext")
	require.NoError(t, err)

	// fresh nonce per call
	assert.NotEqual(t, s1, s2)
}

func TestOpen_LegacyPlaintextPassthrough(t *testing.T) {
	c, err := New("operator-secret")
	require.NoError(t, err)

	assert.False(t, IsEncrypted("legacy-access-token"))

	opened, err := c.Open("legacy-access-token")
	require.NoError(t, err)
	assert.Equal(t, "legacy-access-token", opened)
}

func TestMissingSecret(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	_, err = c.Seal("abc")
	assert.ErrorIs(t, err, common.ErrEncryptionConfig)

	// legacy plaintext still readable without a secret
	opened, err := c.Open("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", opened)

	_, err = c.Open(encPrefix + "Zm9v")
	assert.ErrorIs(t, err, common.ErrEncryptionConfig)
}

func TestOpen_MalformedPayload(t *testing.T) {
	c, err := New("operator-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{"not base64", encPrefix + "!!!"},
		{"too short", encPrefix + "Zm9v"},
		{"bad auth tag", mustSealTampered(t, c)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Open(tt.value)
			assert.ErrorIs(t, err, common.ErrInvalidEncryptedPayload)
		})
	}
}

func TestOpen_WrongSecret(t *testing.T) {
	c1, err := New("secret-one")
	require.NoError(t, err)
	c2, err := New("secret-two")
	require.NoError(t, err)

	sealed, err := c1.Seal("abc")
	require.NoError(t, err)

	_, err = c2.Open(sealed)
	assert.ErrorIs(t, err, common.ErrInvalidEncryptedPayload)
}

// mustSealTampered returns a sealed value with its last ciphertext byte
// flipped so GCM authentication fails.
func mustSealTampered(t *testing.T, c *Cipher) string {
	t.Helper()
	sealed, err := c.Seal("abc")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed[len(encPrefix):])
	require.NoError(t, err)
	raw[len(raw)-1] ^= 1
	return encPrefix + base64.StdEncoding.EncodeToString(raw)
}
