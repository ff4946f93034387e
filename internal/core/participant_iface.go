package core

import "github.com/dkeye/Stage/internal/domain"

// ClientID identifies one connected signal client (browser tab).
type ClientID string

// ParticipantSession binds domain.Participant and its transport endpoint.
// This is what a session stores and fans out to.
type ParticipantSession interface {
	Meta() *domain.Participant
	Signal() SignalConnection
	UpdateSignal(SignalConnection) ParticipantSession
}
