package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"boardchat/internal/apperr"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for credential digests.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashPassword derives an argon2id digest with a random salt and encodes it
// in the standard self-describing form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// The parameters travel inside the digest, so they can be raised later
// without invalidating stored credentials.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", apperr.Crypto("generating salt", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	digest := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
	return digest, nil
}

// VerifyPassword re-derives the digest using the parameters embedded in it
// and compares in constant time. A wrong password is (false, nil); an error
// is returned only when the digest itself is malformed. Nothing in the
// return values distinguishes which part of the comparison failed.
func VerifyPassword(password, digest string) (bool, error) {
	salt, hash, time, memory, threads, err := parseDigest(digest)
	if err != nil {
		return false, err
	}
	candidate := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, candidate) == 1, nil
}

func parseDigest(digest string) (salt, hash []byte, time, memory uint32, threads uint8, err error) {
	malformed := func(cause error) error {
		return apperr.Crypto("malformed password digest", cause)
	}

	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		err = malformed(nil)
		return
	}

	var version int
	if _, e := fmt.Sscanf(parts[2], "v=%d", &version); e != nil || version != argon2.Version {
		err = malformed(e)
		return
	}
	if _, e := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); e != nil {
		err = malformed(e)
		return
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		err = malformed(err)
		return
	}
	if hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		err = malformed(err)
		return
	}
	if len(salt) == 0 || len(hash) == 0 {
		err = malformed(nil)
	}
	return
}
