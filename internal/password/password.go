package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params controls the argon2id work factor. The defaults cost tens of
// milliseconds per hash on commodity hardware; verification reads the
// parameters back out of the encoded hash, so they can be raised later
// without invalidating stored secrets.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

// DefaultParams is used wherever a caller has no reason to deviate.
var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
	KeyLen:  32,
	SaltLen: 16,
}

var errInvalidHash = errors.New("invalid password hash")

// Hash derives a salted argon2id hash of the plaintext using DefaultParams.
func Hash(plaintext string) (string, error) {
	return HashWithParams(plaintext, DefaultParams)
}

// HashWithParams returns an encoded argon2id hash string embedding the
// parameters and salt alongside the derived key.
func HashWithParams(plaintext string, p Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedSum := base64.RawStdEncoding.EncodeToString(sum)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		encodedSalt,
		encodedSum,
	), nil
}

// Verify checks a plaintext against the encoded argon2id hash. The comparison
// of derived keys is constant-time.
func Verify(plaintext, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errInvalidHash
	}

	version, err := parseVersion(parts[2])
	if err != nil || version != argon2.Version {
		return false, errInvalidHash
	}

	mem, timeCost, threads, err := parseParams(parts[3])
	if err != nil {
		return false, errInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errInvalidHash
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, errInvalidHash
	}

	actual := argon2.IDKey([]byte(plaintext), salt, timeCost, mem, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}

func parseVersion(value string) (int, error) {
	if !strings.HasPrefix(value, "v=") {
		return 0, errInvalidHash
	}
	return strconv.Atoi(strings.TrimPrefix(value, "v="))
}

func parseParams(value string) (uint32, uint32, uint8, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return 0, 0, 0, errInvalidHash
	}

	mem, err := parseUint32Param(parts[0], "m=")
	if err != nil {
		return 0, 0, 0, errInvalidHash
	}
	timeCost, err := parseUint32Param(parts[1], "t=")
	if err != nil {
		return 0, 0, 0, errInvalidHash
	}
	threadsVal, err := parseUint32Param(parts[2], "p=")
	if err != nil || threadsVal > 255 {
		return 0, 0, 0, errInvalidHash
	}
	return mem, timeCost, uint8(threadsVal), nil
}

func parseUint32Param(value, prefix string) (uint32, error) {
	if !strings.HasPrefix(value, prefix) {
		return 0, errInvalidHash
	}
	parsed, err := strconv.ParseUint(strings.TrimPrefix(value, prefix), 10, 32)
	if err != nil {
		return 0, errInvalidHash
	}
	return uint32(parsed), nil
}
