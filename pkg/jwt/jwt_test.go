package jwt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "partner-commissions"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "reseller", testIssuer, 5)
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, testIssuer, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "reseller", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("otro-secret", "user-1", "admin", testIssuer, 5)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, testIssuer, token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParse_Expirado(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, testIssuer, token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParse_IssuerDistinto(t *testing.T) {
	token, err := Generate(testSecret, "user-1", "admin", "otro-emisor", 5)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, testIssuer, token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	// Sin issuer configurado no se valida el claim.
	userID, _, err := Parse(testSecret, "", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-1", "admin", testIssuer, 5)
	assert.Error(t, err)
}
