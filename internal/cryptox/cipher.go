// Package cryptox holds the cryptographic primitives of the backend:
// at-rest content encryption, credential digests and opaque session tokens.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"unicode/utf8"

	"boardchat/internal/apperr"
)

// KeySize is the required content-encryption key length (AES-256).
const KeySize = 32

// Cipher seals message content with AES-256-GCM under a single
// process-lifetime key. Every Encrypt call draws a fresh random nonce and
// prepends it to the sealed output, so the envelope is self-contained:
// base64(nonce || ciphertext || tag). There is no key rotation; nonces come
// from crypto/rand, which leaves the usual birthday bound on long-lived keys.
//
// A Cipher is immutable after construction and safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, apperr.Crypto("encryption key must be 32 bytes", nil)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperr.Crypto("creating cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperr.Crypto("creating gcm", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with no associated data and returns the encoded
// envelope.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", apperr.Crypto("generating nonce", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt. It fails with a crypto-kind
// error on bad encoding, an envelope shorter than one nonce, tag-verification
// failure, or non-UTF-8 plaintext; it never returns garbage text.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", apperr.Crypto("invalid envelope encoding", err)
	}
	ns := c.aead.NonceSize()
	if len(data) < ns {
		return "", apperr.Crypto("envelope too short", nil)
	}
	nonce, ciphertext := data[:ns], data[ns:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperr.Crypto("decryption failed", err)
	}
	if !utf8.Valid(plaintext) {
		return "", apperr.Crypto("decrypted content is not valid text", nil)
	}
	return string(plaintext), nil
}
