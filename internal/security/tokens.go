// Package security issues, verifies, and observes session tokens and hashes passwords.
package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or fails verification.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are the claims carried by a session token. Subject is the user ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	Name      string `json:"name,omitempty"`
}

// TokenIssuer signs session tokens with RS256 or ES256.
type TokenIssuer struct {
	privateKey crypto.Signer
	issuer     string
	audience   string
	ttl        time.Duration
}

// NewTokenIssuer returns an issuer for the given key, iss, aud, and lifetime.
func NewTokenIssuer(privateKey crypto.Signer, issuer, audience string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{privateKey: privateKey, issuer: issuer, audience: audience, ttl: ttl}
}

// PublicKey returns the verification key matching the signing key.
func (p *TokenIssuer) PublicKey() crypto.PublicKey {
	return p.privateKey.Public()
}

// Issue signs a token for the session. Returns the token and its expiry.
func (p *TokenIssuer) Issue(sessionID, userID, name string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		Name:      name,
	}
	var method jwt.SigningMethod
	switch p.privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return "", time.Time{}, ErrInvalidToken
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(p.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// SessionVerifier checks signature, expiry, issuer, and audience of session tokens.
type SessionVerifier struct {
	publicKey crypto.PublicKey
	issuer    string
	audience  string
}

// NewSessionVerifier returns a verifier for tokens signed by the key matching publicKey.
func NewSessionVerifier(publicKey crypto.PublicKey, issuer, audience string) *SessionVerifier {
	return &SessionVerifier{publicKey: publicKey, issuer: issuer, audience: audience}
}

// Verify parses and validates tokenString. Any failure returns ErrInvalidToken.
func (v *SessionVerifier) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			return v.publicKey, nil
		}
		return nil, ErrInvalidToken
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != v.issuer || !slices.Contains([]string(claims.Audience), v.audience) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseUnverified decodes claims without checking the signature. The backend stays authoritative for
// every request; this is only used to observe who the viewer is. Expired tokens are still rejected.
func ParseUnverified(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(time.Now()) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
