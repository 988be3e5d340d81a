package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/samui/samui/backend-go/internal/typeid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and validates guest learner tokens. Learners are anonymous:
// a token is the only record of who they are.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

type GuestResult struct {
	Token     string    `json:"token"`
	LearnerID string    `json:"learnerId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Guest issues a token for a new learner.
func (s *Service) Guest() (*GuestResult, error) {
	return s.Renew(typeid.NewLearnerID())
}

// Renew issues a fresh token for an existing learner.
func (s *Service) Renew(learnerID string) (*GuestResult, error) {
	if err := typeid.Validate(learnerID, typeid.PrefixLearner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	exp := s.now().Add(s.ttl)
	token, err := s.issueToken(learnerID, exp)
	if err != nil {
		return nil, err
	}
	return &GuestResult{Token: token, LearnerID: learnerID, ExpiresAt: exp.UTC()}, nil
}

// ValidateToken returns the learner id carried by tokenString.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	learnerID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if err := typeid.Validate(learnerID, typeid.PrefixLearner); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return learnerID, nil
}

func (s *Service) issueToken(learnerID string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": learnerID,
		"iat": s.now().Unix(),
		"exp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
