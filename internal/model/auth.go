package model

import "github.com/golang-jwt/jwt/v5"

// ParticipantClaims are JWT claims identifying one participant,
// whether registered or guest.
type ParticipantClaims struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	Anonymous     bool   `json:"anonymous"`
	jwt.RegisteredClaims
}

// GuestSessionRequest is the request body for creating a guest session
type GuestSessionRequest struct {
	DisplayName string `json:"display_name"`
}

// GuestSessionResponse is returned after a guest session is created
type GuestSessionResponse struct {
	Token         string `json:"token"`
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"display_name"`
}
