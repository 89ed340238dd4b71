package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"boardchat/internal/apperr"
)

const tokenBytes = 32

// IssueToken generates an opaque session token and the one-way digest that
// gets persisted in its place. The token itself is shown to the caller
// exactly once and never touches durable storage, so a stolen sessions table
// yields nothing usable.
func IssueToken() (token, digest string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", apperr.Crypto("generating token", err)
	}
	token = base64.StdEncoding.EncodeToString(buf)
	return token, DigestToken(token), nil
}

// DigestToken recomputes the storage digest for a presented token.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(sum[:])
}
