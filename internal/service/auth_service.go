package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shark-krahs/game-platform/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// AuthService handles guest participant sessions. There is no password
// flow; every client gets a generated identity and a signed token.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		jwtSecret: []byte(secret),
	}
}

// CreateGuestSession mints a new participant identity and its token
func (s *AuthService) CreateGuestSession(displayName string) (*model.GuestSessionResponse, error) {
	participantID := uuid.New().String()
	if displayName == "" {
		displayName = "Guest-" + participantID[:8]
	}

	claims := &model.ParticipantClaims{
		ParticipantID: participantID,
		DisplayName:   displayName,
		Anonymous:     true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.GuestSessionResponse{
		Token:         tokenString,
		ParticipantID: participantID,
		DisplayName:   displayName,
	}, nil
}

// ValidateToken validates a participant JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.ParticipantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ParticipantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ParticipantClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
