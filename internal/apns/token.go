package apns

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APNs rejects provider tokens older than an hour; Apple's guidance is to
// refresh within 20-60 minutes. Tokens here are issued with a 55 minute
// expiry and regenerated after 50, so a batch never rides a stale token.
const (
	tokenLifetime = 55 * time.Minute
	tokenRefresh  = 50 * time.Minute
)

// LoadSigningKey reads an ES256 private key from a .p8 PEM file.
func LoadSigningKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("signing key is not PEM encoded")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is not an ECDSA key")
	}
	return key, nil
}

// TokenSource issues short-lived ES256 provider tokens and caches them
// until shortly before expiry. Safe for concurrent use.
type TokenSource struct {
	key    *ecdsa.PrivateKey
	keyID  string
	teamID string

	mu       sync.Mutex
	bearer   string
	issuedAt time.Time
}

func NewTokenSource(key *ecdsa.PrivateKey, keyID, teamID string) *TokenSource {
	return &TokenSource{key: key, keyID: keyID, teamID: teamID}
}

// Bearer returns a valid provider token, reusing the cached one while fresh.
func (ts *TokenSource) Bearer() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	if ts.bearer != "" && now.Sub(ts.issuedAt) < tokenRefresh {
		return ts.bearer, nil
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": ts.teamID,
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})
	tok.Header["kid"] = ts.keyID

	signed, err := tok.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign provider token: %w", err)
	}

	ts.bearer = signed
	ts.issuedAt = now
	return signed, nil
}
