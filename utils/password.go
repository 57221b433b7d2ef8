package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns a bcrypt digest of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares password against a stored digest. Besides bcrypt it
// accepts the unsalted SHA-256 hex digests carried over from the old store.
func CheckPassword(stored, password string) bool {
	if isLegacyDigest(stored) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(stored)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyPasswordHash is a bcrypt digest no password matches. Checking against it
// makes a login for a missing account cost the same as a wrong password.
func DummyPasswordHash() string {
	dummyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("no account has this password"), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		dummyHash = string(hashed)
	})
	return dummyHash
}

// NeedsRehash reports whether stored should be replaced by a bcrypt digest.
func NeedsRehash(stored string) bool {
	return isLegacyDigest(stored)
}

func isLegacyDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
