// Package auth validates the RSA signed tokens issued at sign-in and
// carries the resulting claims through the request context. Claims are
// always tenant scoped; repositories read them back with GetClaims.
package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"taskact/backend/foundation/web"
)

const (
	RoleEmployee   = "EMPLOYEE"
	RolePartner    = "PARTNER"
	RoleSuperAdmin = "SUPERADMIN"
	RoleKiosk      = "KIOSK"
)

type ctxKey int

// Key is the context key the authenticate middleware stores Claims under.
const Key ctxKey = 1

// Claims is the token payload. TenantId scopes every query a request
// makes; Type separates access from refresh tokens.
type Claims struct {
	jwt.StandardClaims

	UserId   int    `json:"user_id"`
	TenantId int    `json:"tenant_id"`
	Role     string `json:"role"`
	Type     string `json:"type"`
}

// Authorized reports whether the claims role is one of roles. An empty
// list authorizes any authenticated caller.
func (c Claims) Authorized(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}

	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}

	return false
}

type Auth struct {
	privateKey *rsa.PrivateKey
}

// New reads the PEM encoded RSA private key used to sign and verify
// tokens.
func New(privateKeyPath string) (*Auth, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return &Auth{privateKey: privateKey}, nil
}

// ValidateToken parses and verifies an access token.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &a.privateKey.PublicKey, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.Type != TokenTypeAccess {
		return Claims{}, errors.New("not an access token")
	}

	return claims, nil
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// GetClaims pulls the authenticated claims out of ctx. A missing value
// means the route skipped the authenticate middleware.
func GetClaims(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(Key).(Claims)
	if !ok {
		return Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	return claims, nil
}
