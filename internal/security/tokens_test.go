package security

import (
	"crypto"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, ttl time.Duration) (*TokenIssuer, crypto.Signer) {
	t.Helper()
	key, err := GenerateSigningKey()
	require.NoError(t, err)
	return NewTokenIssuer(key, "test-issuer", "test-audience", ttl), key
}

func TestIssueAndVerify(t *testing.T) {
	issuer, key := newTestIssuer(t, time.Hour)

	token, expiresAt, err := issuer.Issue("sess-1", "user-1", "Ada")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	verifier := NewSessionVerifier(key.Public(), "test-issuer", "test-audience")
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "Ada", claims.Name)
}

func TestVerify_WrongAudience(t *testing.T) {
	issuer, key := newTestIssuer(t, time.Hour)
	token, _, err := issuer.Issue("sess-1", "user-1", "")
	require.NoError(t, err)

	verifier := NewSessionVerifier(key.Public(), "test-issuer", "other-audience")
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, _ := newTestIssuer(t, time.Hour)
	token, _, err := issuer.Issue("sess-1", "user-1", "")
	require.NoError(t, err)

	other, err := GenerateSigningKey()
	require.NoError(t, err)
	_, err = NewSessionVerifier(other.Public(), "test-issuer", "test-audience").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	issuer, key := newTestIssuer(t, -time.Minute)
	token, _, err := issuer.Issue("sess-1", "user-1", "")
	require.NoError(t, err)

	_, err = NewSessionVerifier(key.Public(), "test-issuer", "test-audience").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, key := newTestIssuer(t, time.Hour)
	_, err := NewSessionVerifier(key.Public(), "test-issuer", "test-audience").Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUnverified(t *testing.T) {
	issuer, _ := newTestIssuer(t, time.Hour)
	token, _, err := issuer.Issue("sess-2", "user-2", "")
	require.NoError(t, err)

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)
	assert.Equal(t, "sess-2", claims.SessionID)
}

func TestParseUnverified_RejectsExpiredAndGarbage(t *testing.T) {
	expired, _ := newTestIssuer(t, -time.Minute)
	token, _, err := expired.Issue("sess-3", "user-3", "")
	require.NoError(t, err)

	_, err = ParseUnverified(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseUnverified("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseUnverified_AcceptsHS256(t *testing.T) {
	// Tokens from the real backend may be signed with algorithms this client cannot verify.
	claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-4",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "user-4", got.Subject)
}
