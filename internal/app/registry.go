package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

type clientEntry struct {
	SessionID domain.SessionID
	Session   core.ParticipantSession
	Cancel    context.CancelFunc
}

// Registry maps connected clients to their participant identity and the
// session they are in. It is the single place that knows which client token
// belongs to which participant.
type Registry struct {
	mu           sync.RWMutex
	clients      map[core.ClientID]*clientEntry
	participants map[core.ClientID]*domain.Participant
}

func NewRegistry() *Registry {
	return &Registry{
		clients:      make(map[core.ClientID]*clientEntry),
		participants: make(map[core.ClientID]*domain.Participant),
	}
}

func (r *Registry) GetOrCreateParticipant(cid core.ClientID) *domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[cid]; ok {
		return p
	}
	p := domain.NewParticipant(domain.ParticipantID(cid))
	r.participants[cid] = p
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("created new participant")
	return p
}

func (r *Registry) UpdateDisplayName(cid core.ClientID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[cid]
	if !ok {
		return nil
	}
	if err := p.SetDisplayName(name); err != nil {
		return err
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("name", name).Msg("updated display name")
	return nil
}

func (r *Registry) BindSignal(cid core.ClientID, ps core.ParticipantSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[cid] = &clientEntry{Session: ps, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("bound signal")
}

func (r *Registry) GetSession(cid core.ClientID) (core.ParticipantSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.clients[cid]; ok {
		return e.Session, true
	}
	return nil, false
}

func (r *Registry) Unbind(cid core.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unbound client")
}

// SessionOf returns the session a client is currently in, if any.
func (r *Registry) SessionOf(cid core.ClientID) (domain.SessionID, core.ParticipantSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.clients[cid]
	if !ok || entry.SessionID == "" {
		return "", nil, false
	}
	return entry.SessionID, entry.Session, true
}

func (r *Registry) UpdateSession(cid core.ClientID, id domain.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.clients[cid]
	if !ok {
		return false
	}
	entry.SessionID = id
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("session", string(id)).Msg("updated session")
	return true
}

func (r *Registry) RemoveSession(cid core.ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.clients[cid]; ok {
		entry.SessionID = ""
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("removed session association")
}

type regSnap struct {
	CID     core.ClientID
	Session core.ParticipantSession
}

func (r *Registry) MembersOfSession(id domain.SessionID) []regSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]regSnap, 0, len(r.clients))
	for cid, e := range r.clients {
		if e.SessionID == id {
			out = append(out, regSnap{CID: cid, Session: e.Session})
		}
	}
	return out
}

func (r *Registry) Cancel(cid core.ClientID) bool {
	r.mu.RLock()
	e, ok := r.clients[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("canceled client")
	return true
}
