package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/surdiana/userhub/internal/errors"
)

// TokenService signs and verifies the bearer tokens issued at login.
// Tokens are self-contained: subject (the user's email) plus an absolute
// expiry, MAC'd with HS256. There is no refresh or server-side revocation;
// a verified, unexpired token is valid until its stated expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign issues a token for the given subject with the configured TTL.
func (s *TokenService) Sign(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject. Any failure
// mode (bad signature, malformed payload, expired) maps to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
