package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	errUnexpectedSigningMethodFmt = "unexpected signing method: %v"
	errInvalidTokenFmt            = "invalid token: %w"
	errEmptySubject               = "token has no subject"
)

// Claims carries the caller identity issued by the identity provider.
// The subject is the opaque owner identifier bound to every asset.
type Claims struct {
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Generate issues a token for the given owner identity. Used by tests
// and local tooling; production tokens come from the identity provider.
func (s *JWTService) Generate(ownerID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(errUnexpectedSigningMethodFmt, t.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf(errInvalidTokenFmt, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf(errInvalidTokenFmt, jwt.ErrTokenInvalidClaims)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf(errEmptySubject)
	}

	return claims, nil
}
