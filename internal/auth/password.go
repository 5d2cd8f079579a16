package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var hashCost = bcrypt.DefaultCost

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// LegacyHash is the unsalted SHA-256 digest, base64 encoded, that older
// deployments stored in the users table.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CheckPassword compares password with the stored value. Besides bcrypt it
// accepts the legacy digest and legacy plaintext rows; legacy reports that
// the stored value should be replaced with a fresh bcrypt hash.
func CheckPassword(stored, password string) (ok, legacy bool) {
	if stored == "" {
		return false, false
	}

	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(LegacyHash(password))) == 1 {
		return true, true
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return true, true
	}
	return false, false
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
