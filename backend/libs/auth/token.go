package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT payload used across services.
type Claims struct {
	UserID       int64    `json:"user_id"`
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// Principal is the authenticated staff member behind a request.
type Principal struct {
	UserID       int64
	Username     string
	Role         string
	Capabilities CapabilitySet
}

// Can reports whether the principal holds c.
func (p Principal) Can(c Capability) bool {
	return p.Capabilities.Has(c)
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &TokenService{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

// GenerateToken issues JWT for given principal.
func (t *TokenService) GenerateToken(p Principal) (string, error) {
	if p.UserID == 0 {
		return "", errors.New("token: user id is required")
	}
	if len(t.secret) == 0 {
		return "", errors.New("token: secret is empty")
	}

	now := t.now().UTC()
	claims := Claims{
		UserID:       p.UserID,
		Username:     p.Username,
		Role:         p.Role,
		Capabilities: ForRole(p.Role, p.Capabilities).Names(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ValidateToken verifies a JWT and returns the principal it carries.
func (t *TokenService) ValidateToken(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("token: invalid claims")
	}
	if claims.UserID == 0 {
		return Principal{}, errors.New("token: user id not present")
	}

	caps, err := ParseCapabilities(claims.Capabilities)
	if err != nil {
		return Principal{}, err
	}
	return Principal{
		UserID:       claims.UserID,
		Username:     claims.Username,
		Role:         claims.Role,
		Capabilities: ForRole(claims.Role, caps),
	}, nil
}
