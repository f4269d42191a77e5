package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	SchemePlain    = "plain"
	SchemeArgon2id = "argon2id"
)

var ErrUnknownScheme = errors.New("unknown password scheme")

// PasswordVerifier is the only place stored credentials are produced and
// compared. Call sites never look at the stored form.
type PasswordVerifier interface {
	Seal(password string) (string, error)
	Verify(password string, stored string) bool
}

func NewPasswordVerifier(scheme string) (PasswordVerifier, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemePlain:
		return PlainVerifier{}, nil
	case SchemeArgon2id:
		return Argon2Verifier{Params: defaultParams}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}
}

// PlainVerifier stores the password as given and compares it exactly.
// Demo builds only.
type PlainVerifier struct{}

func (PlainVerifier) Seal(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(password string, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var defaultParams = Argon2Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
	KeyLen:  32,
	SaltLen: 16,
}

type Argon2Verifier struct {
	Params Argon2Params
}

func (v Argon2Verifier) Seal(password string) (string, error) {
	return HashPasswordWithParams(password, v.Params)
}

func (v Argon2Verifier) Verify(password string, stored string) bool {
	ok, err := VerifyPassword(password, stored)
	return err == nil && ok
}

func HashPassword(password string) (string, error) {
	return HashPasswordWithParams(password, defaultParams)
}

func HashPasswordWithParams(password string, params Argon2Params) (string, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$t=%d,m=%d,p=%d$%s$%s",
		argon2.Version,
		params.Time, params.Memory, params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword checks password against an argon2id PHC string produced by
// HashPasswordWithParams.
func VerifyPassword(password string, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != SchemeArgon2id {
		return false, fmt.Errorf("parse hash: invalid format")
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "t=%d,m=%d,p=%d", &params.Time, &params.Memory, &params.Threads); err != nil {
		return false, fmt.Errorf("parse params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	computed := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, computed) == 1, nil
}
