package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for newly generated hashes. Verification reads the
// parameters from the encoded hash, so hashes made by other argon2 tools
// with different costs still verify.
const (
	memory      = 64 * 1024 // KiB
	iterations  = 3
	parallelism = 4
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrHashFormat    = errors.New("cryptox: invalid hash format")
	ErrHashMismatch  = errors.New("cryptox: password does not match")
	ErrHashAlgorithm = errors.New("cryptox: unsupported hash algorithm")
)

// HashPassword returns a PHC-format Argon2id hash:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword compares password against a PHC-encoded argon2id or
// argon2i hash. It returns nil on match, ErrHashMismatch on a wrong
// password and a format error for anything it cannot parse.
func VerifyPassword(password, encodedHash string) error {
	// ["", alg, "v=19", "m=..,t=..,p=..", salt, hash]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return fmt.Errorf("%w: expected 6 parts", ErrHashFormat)
	}

	alg := parts[1]
	if alg != "argon2id" && alg != "argon2i" {
		return fmt.Errorf("%w: %q", ErrHashAlgorithm, alg)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return fmt.Errorf("%w: wrong version", ErrHashFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrHashFormat, err)
	}
	if iters == 0 || par == 0 {
		return fmt.Errorf("%w: zero cost parameter", ErrHashFormat)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: hash", ErrHashFormat)
	}

	keyLen := uint32(len(expected)) // #nosec G115 -- decoded from a bounded string
	var computed []byte
	if alg == "argon2id" {
		computed = argon2.IDKey([]byte(password), salt, iters, mem, par, keyLen)
	} else {
		computed = argon2.Key([]byte(password), salt, iters, mem, par, keyLen)
	}

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrHashMismatch
}

// CheckPassword reports whether password matches encodedHash. Malformed
// hashes and any other failure count as no match.
func CheckPassword(password, encodedHash string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return VerifyPassword(password, encodedHash) == nil
}
