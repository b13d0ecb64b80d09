package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestSessionRoundTrip(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.CreateGuestSession("Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ParticipantID)
	assert.Equal(t, "Alice", resp.DisplayName)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ParticipantID, claims.ParticipantID)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.True(t, claims.Anonymous)
}

func TestGuestSessionDefaultName(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.CreateGuestSession("")
	require.NoError(t, err)
	assert.Contains(t, resp.DisplayName, "Guest-")
}

func TestGuestSessionsGetDistinctIDs(t *testing.T) {
	svc := NewAuthService()

	a, err := svc.CreateGuestSession("A")
	require.NoError(t, err)
	b, err := svc.CreateGuestSession("B")
	require.NoError(t, err)
	assert.NotEqual(t, a.ParticipantID, b.ParticipantID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
