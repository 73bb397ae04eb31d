package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func SHA256Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func GenerateAPIToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate API token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ValidateJWT checks an HMAC-signed token against a shared secret. Used for
// optional license tokens; callers treat any error as "not entitled" rather
// than a hard failure.
func ValidateJWT(token, secret string) (bool, error) {
	if token == "" || secret == "" {
		return false, errors.New("token/secret must not be empty")
	}

	keyFn := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}

	parsed, err := jwt.Parse(token, keyFn,
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return false, err
	}
	return parsed.Valid, nil
}

// SignLicenseToken issues an HMAC license token. Only used by tests and the
// configure command's demo-license path.
func SignLicenseToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret must not be empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
