package app

import "github.com/dkeye/Stage/internal/domain"

// Control-plane events fanned out to every client in a session. The signal
// adapter owns request/response messages; these are the ones the attention
// core originates on its own.

type qualityEvent struct {
	Type        string               `json:"type"`
	Participant domain.ParticipantID `json:"participant"`
	Tier        string               `json:"tier"`
}

type primaryEvent struct {
	Type        string               `json:"type"`
	Participant domain.ParticipantID `json:"participant,omitempty"`
}

type sessionClosedEvent struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
