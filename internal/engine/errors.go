package engine

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotParticipant  = errors.New("not a participant of this session")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidMove     = errors.New("invalid move")
	ErrWrongPhase      = errors.New("session does not accept moves in this phase")
	ErrMalformedMove   = errors.New("malformed move payload")
)
