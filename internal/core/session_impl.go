package core

import (
	"errors"
	"sync"

	"github.com/dkeye/Stage/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrNoSuchParticipant = errors.New("no such participant")

// sessionImpl is a threadsafe in-memory session.
// It never closes adapter-owned resources.
type sessionImpl struct {
	session *domain.Session
	mu      sync.RWMutex
	byCID   map[ClientID]ParticipantSession
	byPID   map[domain.ParticipantID]ClientID
	order   []ClientID // join order, drives the roster
}

func NewSessionService(session *domain.Session) SessionService {
	return &sessionImpl{
		session: session,
		byCID:   make(map[ClientID]ParticipantSession),
		byPID:   make(map[domain.ParticipantID]ClientID),
	}
}

func (s *sessionImpl) Session() *domain.Session { return s.session }

func (s *sessionImpl) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCID)
}

func (s *sessionImpl) AddParticipant(cid ClientID, ps ParticipantSession) {
	pid := ps.Meta().ID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCID[cid]; !ok {
		s.order = append(s.order, cid)
	}
	s.byCID[cid] = ps
	s.byPID[pid] = cid
	log.Info().Str("module", "core.session").Str("cid", string(cid)).Str("participant", string(pid)).Msg("participant added")
}

func (s *sessionImpl) RemoveParticipant(cid ClientID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ps, ok := s.byCID[cid]; ok {
		delete(s.byPID, ps.Meta().ID)
	}
	delete(s.byCID, cid)
	for i, c := range s.order {
		if c == cid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "core.session").Str("cid", string(cid)).Msg("participant removed")
}

func (s *sessionImpl) Broadcast(from ClientID, data Frame) PublishResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := PublishResult{}
	for cid, p := range s.byCID {
		if cid == from {
			continue
		}
		if p.Signal() == nil {
			continue
		}
		if err := p.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, p)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.session").Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (s *sessionImpl) Send(to domain.ParticipantID, data Frame) error {
	s.mu.RLock()
	var p ParticipantSession
	if cid, ok := s.byPID[to]; ok {
		p = s.byCID[cid]
	}
	s.mu.RUnlock()
	if p == nil || p.Signal() == nil {
		return ErrNoSuchParticipant
	}
	return p.Signal().TrySend(data)
}

func (s *sessionImpl) ParticipantsSnapshot() []ParticipantDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ParticipantDTO, 0, len(s.order))
	for _, cid := range s.order {
		meta := s.byCID[cid].Meta()
		out = append(out, ParticipantDTO{ID: meta.ID, DisplayName: meta.DisplayName})
	}
	return out
}

func (s *sessionImpl) Roster() []domain.ParticipantID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ParticipantID, 0, len(s.order))
	for _, cid := range s.order {
		out = append(out, s.byCID[cid].Meta().ID)
	}
	return out
}
