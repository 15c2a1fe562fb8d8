package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

var (
	ErrTooManyArgs = errors.New("too many arguments. expected only 1")
	ErrEmptyToken  = errors.New("token and hash cannot be empty")
)

const (
	DefaultTokenLength = 32 // 256 bits
)

// TokenPair is a freshly minted session token and the digest that gets stored.
type TokenPair struct {
	Token string // handed to the client once
	Hash  string // persisted
}

// TokenHasher derives storage digests for opaque session tokens.
//
// Digests are HMAC-SHA256 keyed with the server secret, so a leaked sessions
// table cannot be replayed against a server with a different secret.
type TokenHasher struct {
	key []byte
}

func NewTokenHasher(secret string) *TokenHasher {
	return &TokenHasher{key: []byte(secret)}
}

func generateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Generate mints a URL-safe token of byteLength random bytes (default 32).
func (h *TokenHasher) Generate(byteLength ...int) (*TokenPair, error) {
	if len(byteLength) > 1 {
		return nil, ErrTooManyArgs
	}

	length := DefaultTokenLength
	if len(byteLength) == 1 && byteLength[0] > 0 {
		length = byteLength[0]
	}

	token, err := generateToken(length)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Token: token, Hash: h.Hash(token)}, nil
}

// Hash returns the hex encoded digest of token.
func (h *TokenHasher) Hash(token string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *TokenHasher) Verify(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, ErrEmptyToken
	}

	return subtle.ConstantTimeCompare([]byte(h.Hash(token)), []byte(storedHash)) == 1, nil
}
