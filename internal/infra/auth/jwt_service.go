package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yougotthis/config"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/errors"
)

const sessionTTL = time.Hour * 24 * 7

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// The guest provider uses it to mint session tokens that survive restarts
// without keeping any server-side session table.
type jwtService struct {
	secret string
	ttl    time.Duration
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &jwtService{
		secret: cfg.SecretKey.Session,
		ttl:    sessionTTL,
	}, nil
}

// GenerateSessionToken creates a signed HS256 session token for a given user.
func (s *jwtService) GenerateSessionToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,                       // Subject (who the token is for)
		"iat":  time.Now().Unix(),            // Issued At
		"exp":  time.Now().Add(s.ttl).Unix(), // Expiration Time
		"type": "session",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// ValidateSessionToken checks the validity of a token string and returns the subject.
func (s *jwtService) ValidateSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to parse session token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", errors.Wrap(err, "session token has no subject")
	}

	return subject, nil
}

// SessionTTL returns the configured duration for session tokens.
func (s *jwtService) SessionTTL() time.Duration {
	return s.ttl
}
