package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey_RoundTrip(t *testing.T) {
	key, err := GenerateSigningKey()
	require.NoError(t, err)

	pemStr, err := EncodePublicKey(key.Public())
	require.NoError(t, err)

	pub, err := ParsePublicKey(pemStr)
	require.NoError(t, err)
	assert.Equal(t, "ES256", KeyAlg(pub))
}

func TestParsePrivateKey_RSAFromFile(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der := x509.MarshalPKCS1PrivateKey(rsaKey)
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}), 0o600))

	signer, err := ParsePrivateKey(path)
	require.NoError(t, err)
	assert.Equal(t, "RS256", KeyAlg(signer.Public()))
}

func TestParseKey_Invalid(t *testing.T) {
	_, err := ParsePrivateKey("")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = ParsePublicKey("-----BEGIN PUBLIC KEY-----\nnope\n-----END PUBLIC KEY-----")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = ParsePrivateKey(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}

func TestHasher(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash([]byte("secret1"))
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, h.Compare(hash, []byte("secret1")))
	assert.Error(t, h.Compare(hash, []byte("wrong")))

	assert.Equal(t, 10, NewHasher(0).Cost)
	assert.Equal(t, 4, NewHasher(2).Cost)
}
