package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

var errInvalidHashFormat = errors.New("argon2: invalid encoded hash format")

// argon2Params are the Argon2id cost settings embedded in every new hash.
type argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var defaultArgon2Params = argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// hashPassword returns argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>.
// Argon2 accepts passwords of any length.
func hashPassword(password string) (string, error) {
	p := defaultArgon2Params

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return strings.Join([]string{
		argon2Variant,
		argon2Version,
		fmt.Sprintf("m=%d,t=%d,p=%d", p.Memory, p.Iterations, p.Parallelism),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	}, "$"), nil
}

// verifyPassword checks password against a stored hash. Argon2id hashes are
// current. bcrypt hashes and the unsalted hex SHA-256 digests written by
// earlier deployments still verify and are reported as legacy, so the caller
// can re-hash them.
func verifyPassword(stored, password string) (ok, legacy bool) {
	switch {
	case strings.HasPrefix(stored, argon2Variant+"$"):
		return verifyArgon2(stored, password), false
	case isLegacyDigest(stored):
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(strings.ToLower(stored))) == 1, true
	default:
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, true
	}
}

func verifyArgon2(encoded, password string) bool {
	p, salt, expected, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func decodeArgon2Hash(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != argon2Variant {
		return argon2Params{}, nil, nil, errInvalidHashFormat
	}
	if parts[1] != argon2Version {
		return argon2Params{}, nil, nil, fmt.Errorf("argon2: unsupported version %q", parts[1])
	}

	var p argon2Params
	for _, entry := range strings.Split(parts[2], ",") {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return argon2Params{}, nil, nil, errInvalidHashFormat
		}
		var (
			v   uint64
			err error
		)
		switch key {
		case "m":
			v, err = strconv.ParseUint(value, 10, 32)
			p.Memory = uint32(v)
		case "t":
			v, err = strconv.ParseUint(value, 10, 32)
			p.Iterations = uint32(v)
		case "p":
			v, err = strconv.ParseUint(value, 10, 8)
			p.Parallelism = uint8(v)
		default:
			return argon2Params{}, nil, nil, errInvalidHashFormat
		}
		if err != nil {
			return argon2Params{}, nil, nil, fmt.Errorf("argon2: parse %s: %w", key, err)
		}
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return argon2Params{}, nil, nil, errInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return argon2Params{}, nil, nil, fmt.Errorf("argon2: decode salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(hash) == 0 {
		return argon2Params{}, nil, nil, fmt.Errorf("argon2: decode hash: %w", errInvalidHashFormat)
	}
	return p, salt, hash, nil
}

func isLegacyDigest(stored string) bool {
	if len(stored) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}
