package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrMalformedToken = errors.New("malformed token")

// TokenService issues and validates self-contained session tokens. The
// signing secret and TTL are fixed for the lifetime of the process and are
// injected here so tests can supply deterministic values.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewTokenService(secret []byte, ttl time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the validity duration of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs the user's identity into a compact HS512 token valid for
// [now, now+TTL).
func (s *TokenService) Issue(user *models.User, now time.Time) (string, error) {
	userID := strconv.FormatInt(user.ID, 10)

	claims := &models.Claims{
		ID:        userID,
		Username:  user.Username,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate reports whether the token is well-formed, carries a valid
// signature and is unexpired at the given time. Every failure mode folds
// into false; the reason is logged for diagnostics only.
func (s *TokenService) Validate(tokenString string, now time.Time) bool {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		s.logger.Error("Invalid JWT token", zap.Error(err))
		return false
	}

	return token.Valid
}

// SubjectID extracts the id claim from a token that already passed
// Validate. The signature is re-checked but expiry is not; an absent or
// non-numeric id claim yields ErrMalformedToken.
func (s *TokenService) SubjectID(tokenString string) (int64, error) {
	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	if claims.ID == "" {
		return 0, fmt.Errorf("%w: missing id claim", ErrMalformedToken)
	}

	id, err := strconv.ParseInt(claims.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric id claim %q", ErrMalformedToken, claims.ID)
	}

	return id, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	// Ensure the token's signing method is what we expect
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}
	return s.secret, nil
}
