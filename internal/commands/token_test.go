package commands

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

	"taskact/backend/internal/auth"
	"taskact/backend/internal/repository/postgres/user"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "private.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	return path
}

func TestGenToken(t *testing.T) {
	path := writeTestKey(t)

	accessToken, refreshToken, err := GenToken(user.AuthClaims{ID: 7, TenantId: 3, Role: auth.RolePartner}, path)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	t.Run("Access Token Round Trips Through Validation", func(t *testing.T) {
		a, err := auth.New(path)
		require.NoError(t, err)

		claims, err := a.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, 7, claims.UserId)
		assert.Equal(t, 3, claims.TenantId)
		assert.Equal(t, auth.RolePartner, claims.Role)
		assert.Equal(t, auth.TokenTypeAccess, claims.Type)
	})

	t.Run("Refresh Token Is Rejected As Access Token", func(t *testing.T) {
		a, err := auth.New(path)
		require.NoError(t, err)

		_, err = a.ValidateToken(refreshToken)
		assert.Error(t, err)
	})
}

func TestVerifyTokens(t *testing.T) {
	path := writeTestKey(t)

	accessToken, refreshToken, err := GenToken(user.AuthClaims{ID: 7, TenantId: 3, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)

	t.Run("Accepts A Matching Pair", func(t *testing.T) {
		accessClaims, refreshClaims, err := VerifyTokens(accessToken, refreshToken, path)
		require.NoError(t, err)
		assert.Equal(t, 7, accessClaims.UserId)
		assert.Equal(t, 7, refreshClaims.UserId)
		assert.Equal(t, 3, refreshClaims.TenantId)
		assert.Equal(t, auth.TokenTypeRefresh, refreshClaims.Type)
	})

	t.Run("Rejects An Access Token Passed As Refresh", func(t *testing.T) {
		_, _, err := VerifyTokens(accessToken, accessToken, path)
		assert.ErrorContains(t, err, "not a refresh token")
	})

	t.Run("Rejects A Pair From Different Users", func(t *testing.T) {
		_, otherRefresh, err := GenToken(user.AuthClaims{ID: 8, TenantId: 3, Role: auth.RoleEmployee}, path)
		require.NoError(t, err)

		_, _, err = VerifyTokens(accessToken, otherRefresh, path)
		assert.ErrorContains(t, err, "token pair mismatch")
	})

	t.Run("Rejects A Tampered Refresh Token", func(t *testing.T) {
		otherPath := writeTestKey(t)
		_, foreignRefresh, err := GenToken(user.AuthClaims{ID: 7, TenantId: 3, Role: auth.RoleEmployee}, otherPath)
		require.NoError(t, err)

		_, _, err = VerifyTokens(accessToken, foreignRefresh, path)
		assert.Error(t, err)
	})
}
