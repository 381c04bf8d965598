// Package cryptox implements encryption-at-rest for stored OAuth tokens.
//
// Values are sealed with AES-256-GCM under a key derived from an
// operator-supplied secret via scrypt with a fixed application salt. The
// ciphertext is self-describing ("enc:v1:" prefix + base64(nonce||sealed))
// so stored values can be distinguished from legacy plaintext and decrypted
// accordingly.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/mkorolev/whoopsync/internal/common"
)

// encPrefix marks values produced by Seal. Anything without it is treated
// as legacy plaintext from a pre-encryption deployment.
const encPrefix = "enc:v1:"

// keySalt is fixed on purpose: there is a single operator secret and the
// derived key must be stable across restarts.
const keySalt = "whoopsync-token-store"

// Cipher seals and opens token strings with a key derived from the
// operator secret. A Cipher with an empty secret fails every operation
// with common.ErrEncryptionConfig.
type Cipher struct {
	key []byte
}

// New derives the AES key from secret. An empty secret yields a Cipher
// that refuses to seal or open.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return &Cipher{}, nil
	}
	key, err := scrypt.Key([]byte(secret), []byte(keySalt), 32768, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation: %w", err)
	}
	return &Cipher{key: key}, nil
}

// IsEncrypted reports whether value was produced by Seal.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encPrefix)
}

// Seal encrypts plaintext and returns the self-describing ciphertext.
func (c *Cipher) Seal(plaintext string) (string, error) {
	if len(c.key) == 0 {
		return "", common.ErrEncryptionConfig
	}

	aesgcm, err := c.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)
	return encPrefix + base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Open decrypts a value produced by Seal. Legacy plaintext values (no
// "enc:v1:" prefix) are returned unchanged so pre-encryption deployments
// keep working; they are re-encrypted on the next Seal.
func (c *Cipher) Open(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	if len(c.key) == 0 {
		return "", common.ErrEncryptionConfig
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, encPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidEncryptedPayload, err)
	}

	aesgcm, err := c.aead()
	if err != nil {
		return "", err
	}

	if len(raw) < aesgcm.NonceSize() {
		return "", fmt.Errorf("%w: truncated", common.ErrInvalidEncryptedPayload)
	}
	nonce, sealed := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidEncryptedPayload, err)
	}
	return string(plaintext), nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aesgcm, nil
}
