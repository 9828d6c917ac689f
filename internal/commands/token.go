package commands

import (
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"taskact/backend/internal/auth"
	"taskact/backend/internal/repository/postgres/user"
)

const (
	AccessTokenExpiry  = 12 * time.Hour
	RefreshTokenExpiry = 30 * 24 * time.Hour
)

// GenToken signs an access and a refresh token pair for the given user.
func GenToken(claims user.AuthClaims, privateKeyPath string) (string, string, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return "", "", errors.Wrap(err, "reading private key")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing private key")
	}

	now := time.Now()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(AccessTokenExpiry).Unix(),
		},
		UserId:   claims.ID,
		TenantId: claims.TenantId,
		Role:     claims.Role,
		Type:     auth.TokenTypeAccess,
	}).SignedString(privateKey)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(RefreshTokenExpiry).Unix(),
		},
		UserId:   claims.ID,
		TenantId: claims.TenantId,
		Role:     claims.Role,
		Type:     auth.TokenTypeRefresh,
	}).SignedString(privateKey)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens checks a token pair during refresh. The access token may
// already be expired; the refresh token must still be valid and belong
// to the same user.
func VerifyTokens(accessToken, refreshToken, privateKeyPath string) (auth.Claims, auth.Claims, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "reading private key")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "parsing private key")
	}

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &privateKey.PublicKey, nil
	}

	var accessClaims auth.Claims
	if _, err = jwt.ParseWithClaims(accessToken, &accessClaims, keyFunc); err != nil {
		vErr, ok := err.(*jwt.ValidationError)
		if !ok || vErr.Errors != jwt.ValidationErrorExpired {
			return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "parsing access token")
		}
	}

	var refreshClaims auth.Claims
	token, err := jwt.ParseWithClaims(refreshToken, &refreshClaims, keyFunc)
	if err != nil {
		return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "parsing refresh token")
	}
	if !token.Valid {
		return auth.Claims{}, auth.Claims{}, errors.New("invalid refresh token")
	}
	if refreshClaims.Type != auth.TokenTypeRefresh {
		return auth.Claims{}, auth.Claims{}, errors.New("not a refresh token")
	}
	if accessClaims.UserId != refreshClaims.UserId {
		return auth.Claims{}, auth.Claims{}, errors.New("token pair mismatch")
	}

	return accessClaims, refreshClaims, nil
}
