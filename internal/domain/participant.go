// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

// ParticipantID is an opaque stable identifier for a session participant.
// Never reused after a participant leaves.
type ParticipantID string

type Participant struct {
	ID          ParticipantID `json:"id"`
	DisplayName string        `json:"display_name"`
	Local       bool          `json:"local"`
}

// DefaultDisplayName is what a participant is called until they rename
// themselves.
const DefaultDisplayName = "guest"

// NewParticipant creates a participant under the default display name. The
// registry assigns the identity; the client renames itself afterwards. An
// empty id gets a generated one.
func NewParticipant(id ParticipantID) *Participant {
	if id == "" {
		id = ParticipantID(uuid.NewString())
	}
	return &Participant{ID: id, DisplayName: DefaultDisplayName}
}

func (p *Participant) SetDisplayName(name string) error {
	if len(name) == 0 {
		return ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrDisplayNameTooLong
	}
	p.DisplayName = name
	return nil
}
