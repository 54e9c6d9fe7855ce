// Package cryptox hashes and verifies account passwords with argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/venuebook/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltLen = 16
	keyLen  = 32
	time    = 1
	memory  = 64 * 1024
	threads = 4
)

var ErrMalformedHash = errors.New("malformed password hash")

// DeriveKey stretches password with salt using the package parameters.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, time, memory, threads, keyLen)
}

// HashPassword returns a self-describing hash:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func HashPassword(password []byte) string {
	salt := common.GenerateRandByteArray(saltLen)
	key := DeriveKey(password, salt)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memory, time, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifyPassword reports whether password matches encoded. The comparison
// is constant-time.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var (
		m uint32
		t uint32
		p uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}

	got := argon2.IDKey(password, salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
