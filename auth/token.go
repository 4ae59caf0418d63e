package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued access token stays valid.
const DefaultTokenTTL = 30 * time.Minute

var (
	// ErrTokenExpired indicates the token's expiry timestamp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates a malformed token or a bad signature.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrMissingClaim indicates a valid token without the username claim.
	ErrMissingClaim = errors.New("missing username claim")
)

// TokenService issues and validates signed, time-limited bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with the given secret.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed HS256 token carrying the given claims plus an
// expiry of now + TTL.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	tokenClaims := jwt.MapClaims{}
	for k, v := range claims {
		tokenClaims[k] = v
	}
	tokenClaims["exp"] = jwt.NewNumericDate(time.Now().Add(s.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode validates a token and returns the embedded username. It fails with
// ErrTokenExpired, ErrTokenInvalid or ErrMissingClaim; callers must treat
// all three as unauthenticated.
func (s *TokenService) Decode(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", ErrMissingClaim
	}

	return username, nil
}
