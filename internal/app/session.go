package app

import (
	"sync"

	"github.com/dkeye/Stage/internal/attention"
	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

// ManagedSession pairs one session's membership with its attention
// controller and aggregates the clients' speaking reports into the
// active-speakers set the controller consumes.
type ManagedSession struct {
	svc core.SessionService
	ctl *attention.Controller

	mu       sync.Mutex
	speaking map[domain.ParticipantID]bool
}

func newManagedSession(svc core.SessionService, ctl *attention.Controller) *ManagedSession {
	return &ManagedSession{
		svc:      svc,
		ctl:      ctl,
		speaking: make(map[domain.ParticipantID]bool),
	}
}

func (s *ManagedSession) Service() core.SessionService { return s.svc }

func (s *ManagedSession) Controller() *attention.Controller { return s.ctl }

func (s *ManagedSession) Primary() (domain.ParticipantID, bool) { return s.ctl.Primary() }

// SetSpeaking updates one participant's voice-activity flag and feeds the
// resulting set to the controller. Clients re-report while talking, so a
// lost update is corrected by the next one.
func (s *ManagedSession) SetSpeaking(id domain.ParticipantID, active bool) {
	s.mu.Lock()
	if active {
		s.speaking[id] = true
	} else {
		delete(s.speaking, id)
	}
	ids := make([]domain.ParticipantID, 0, len(s.speaking))
	for p := range s.speaking {
		ids = append(ids, p)
	}
	s.mu.Unlock()

	s.ctl.HandleActiveSpeakers(ids)
}

func (s *ManagedSession) forget(id domain.ParticipantID) {
	s.mu.Lock()
	delete(s.speaking, id)
	s.mu.Unlock()
}
