package core

import "github.com/dkeye/Stage/internal/domain"

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []ParticipantSession
}

// ParticipantDTO is a read-only view for APIs (no transport fields).
type ParticipantDTO struct {
	ID          domain.ParticipantID `json:"id"`
	DisplayName string               `json:"display_name"`
}

// SessionService is the core-facing API of a meeting session.
// It owns the membership set but never touches transport resources.
// Membership is reported in join order; the attention core relies on a
// stable roster order for its no-speaker fallback.
type SessionService interface {
	Session() *domain.Session
	ParticipantCount() int
	ParticipantsSnapshot() []ParticipantDTO
	Roster() []domain.ParticipantID

	AddParticipant(cid ClientID, ps ParticipantSession)
	RemoveParticipant(cid ClientID)
	Broadcast(from ClientID, data Frame) PublishResult
	Send(to domain.ParticipantID, data Frame) error
}

type SessionInfo struct {
	ID               domain.SessionID   `json:"id"`
	Name             domain.SessionName `json:"name"`
	ParticipantCount int                `json:"participant_count"`
}

// SessionDirectory is the read-only listing surface the HTTP API serves.
type SessionDirectory interface {
	List() []SessionInfo
}
