package crypto

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashMismatch = errors.New("hash mismatch")

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// DigestHasher is the default scheme: a deterministic MD5 hex digest,
// compatible with the digests already stored for existing accounts.
// Comparison recomputes the digest and checks it in constant time.
type DigestHasher struct{}

func (h *DigestHasher) Hash(password string) (string, error) {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h *DigestHasher) Compare(hash string, password string) error {
	computed, _ := h.Hash(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) != 1 {
		return ErrHashMismatch
	}
	return nil
}

type BcryptHasher struct{}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash string, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrHashMismatch
	}
	return nil
}
