package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/procodeli/portal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeKeyPair generates a fresh RSA key pair and writes it to temp PEM files.
func writeKeyPair(t *testing.T) (*rsa.PrivateKey, string, string) {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))
	return privKey, privPath, pubPath
}

func TestProvider_SignVerify_RoundTrip(t *testing.T) {
	_, privPath, pubPath := writeKeyPair(t)
	p, err := NewProvider(&config.Config{JWTPrivateKeyPath: privPath, JWTPublicKeyPath: pubPath, JWTExpiry: time.Hour})
	require.NoError(t, err)

	signed, err := p.Sign("sess-1")
	require.NoError(t, err)
	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestProvider_MissingKeyFile(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTPrivateKeyPath: "/nonexistent.pem"})
	assert.ErrorContains(t, err, "read private key")
}

func TestProvider_RejectsForeignKey(t *testing.T) {
	other, _, _ := writeKeyPair(t)
	mine, _, _ := writeKeyPair(t)
	p := NewProviderFromKeys(mine, &mine.PublicKey, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		SessionID: "sess-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(other)
	require.NoError(t, err)

	_, err = p.Verify(signed)
	assert.Error(t, err)
}

func TestProvider_RejectsExpired(t *testing.T) {
	key, _, _ := writeKeyPair(t)
	p := NewProviderFromKeys(key, &key.PublicKey, -time.Minute)

	signed, err := p.Sign("sess-1")
	require.NoError(t, err)
	_, err = p.Verify(signed)
	assert.Error(t, err)
}
