// Package cryptox seals small secrets (the opt-in saved password) before they
// reach the local store. Keys come from argon2id; sealing is AES-GCM with a
// random nonce prepended to the ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrijs2005/mycloud/internal/common"
	"golang.org/x/crypto/argon2"
)

// SealedPrefix tags strings produced by SealString.
const SealedPrefix = "sealed:"

var ErrMalformed = errors.New("malformed sealed value")

// DeriveKey derives a 32-byte AES-256 key from secret and salt.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns nonce || ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(key, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrMalformed
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}

// SealString seals s and returns it as SealedPrefix + base64.
func SealString(key []byte, s string) (string, error) {
	sealed, err := Seal(key, []byte(s))
	if err != nil {
		return "", err
	}
	return SealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString. Values without SealedPrefix are returned
// unchanged so that passwords saved before sealing existed still work.
func OpenString(key []byte, s string) (string, error) {
	payload, ok := strings.CutPrefix(s, SealedPrefix)
	if !ok {
		return s, nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformed
	}
	plain, err := Open(key, raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
