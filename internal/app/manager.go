package app

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/attention"
	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
	"github.com/dkeye/Stage/internal/metrics"
)

// Manager owns every running session and the attention controller bound to
// it. Controllers are created on session start and closed on session stop;
// their tickers never outlive the session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*ManagedSession
	metrics  *metrics.Metrics
}

var _ core.SessionDirectory = (*Manager)(nil)

func NewManager(m *metrics.Metrics) *Manager {
	return &Manager{
		sessions: make(map[domain.SessionID]*ManagedSession),
		metrics:  m,
	}
}

// Create starts a new session hosted by the given participant and arms its
// attention controller.
func (m *Manager) Create(name domain.SessionName, host *domain.Participant) *ManagedSession {
	id := domain.SessionID(uuid.NewString())
	svc := core.NewSessionService(&domain.Session{ID: id, Name: name})
	provider := newFanoutProvider(svc, m.metrics)

	ctl := attention.NewController(host.ID, provider,
		attention.WithSessionName(name),
		attention.WithPrimaryChanged(func(p domain.ParticipantID) {
			m.broadcastPrimary(svc, p)
		}),
		attention.WithAutoDisconnect(func() {
			m.metrics.IncAutoDisconnects()
			m.Stop(id)
		}),
	)

	ms := newManagedSession(svc, ctl)
	m.mu.Lock()
	m.sessions[id] = ms
	n := len(m.sessions)
	m.mu.Unlock()

	ctl.Start()
	m.metrics.SetActiveSessions(n)
	log.Info().Str("module", "app.manager").Str("session", string(id)).Str("name", string(name)).Msg("session created")
	return ms
}

func (m *Manager) Get(id domain.SessionID) (*ManagedSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.sessions[id]
	return ms, ok
}

func (m *Manager) List() []core.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.SessionInfo, 0, len(m.sessions))
	for id, ms := range m.sessions {
		s := ms.svc.Session()
		out = append(out, core.SessionInfo{
			ID:               id,
			Name:             s.Name,
			ParticipantCount: ms.svc.ParticipantCount(),
		})
	}
	return out
}

// Stop terminates a session, notifying its clients and tearing down the
// attention controller. Safe to call for an already-stopped session.
func (m *Manager) Stop(id domain.SessionID) {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return
	}
	ms.ctl.Terminate()
	m.metrics.SetActiveSessions(n)
	log.Info().Str("module", "app.manager").Str("session", string(id)).Msg("session stopped")
}

// StopAll tears down every session, used on server shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	ids := make([]domain.SessionID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Stop(id)
	}
}

func (m *Manager) broadcastPrimary(svc core.SessionService, p domain.ParticipantID) {
	b, err := json.Marshal(primaryEvent{Type: "primary_changed", Participant: p})
	if err != nil {
		log.Error().Err(err).Str("module", "app.manager").Msg("marshal primary event")
		return
	}
	svc.Broadcast("", core.Frame(b))
	if p != "" {
		m.metrics.IncPrimarySwitches()
	}
}
