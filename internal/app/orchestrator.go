package app

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
	"github.com/dkeye/Stage/internal/metrics"
)

var ErrNoSuchSession = errors.New("session does not exist")

// Orchestrator is the application entry point the signal adapter drives. It
// keeps the registry, the session manager and the attention controllers
// consistent with each other.
type Orchestrator struct {
	Registry *Registry
	Sessions *Manager
	Metrics  *metrics.Metrics
}

// Create starts a new session with the client as host and joins them to it.
func (o *Orchestrator) Create(cid core.ClientID, name domain.SessionName) (*ManagedSession, error) {
	host := o.Registry.GetOrCreateParticipant(cid)
	ms := o.Sessions.Create(name, host)
	if err := o.joinExisting(cid, ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// Join adds a client to a session, leaving any session they were in first.
func (o *Orchestrator) Join(cid core.ClientID, id domain.SessionID) (*ManagedSession, error) {
	ms, ok := o.Sessions.Get(id)
	if !ok {
		return nil, ErrNoSuchSession
	}
	if err := o.joinExisting(cid, ms); err != nil {
		return nil, err
	}
	return ms, nil
}

func (o *Orchestrator) joinExisting(cid core.ClientID, ms *ManagedSession) error {
	if prev, _, ok := o.Registry.SessionOf(cid); ok {
		if prev == ms.svc.Session().ID {
			return nil
		}
		o.Leave(cid)
		log.Info().Str("module", "app.orch").Str("cid", string(cid)).Str("from", string(prev)).Msg("left previous session")
	}
	ps, ok := o.Registry.GetSession(cid)
	if !ok {
		return errors.New("client has no bound signal")
	}
	ms.svc.AddParticipant(cid, ps)
	ms.ctl.HandleParticipantJoined(ps.Meta().ID)
	o.Registry.UpdateSession(cid, ms.svc.Session().ID)
	o.Metrics.IncParticipantsJoined()
	return nil
}

// Leave removes a client from their current session. An emptied session is
// stopped. Fire-and-forget: used both for explicit leave and for the
// best-effort page-unload path, so it never fails.
func (o *Orchestrator) Leave(cid core.ClientID) {
	id, ps, ok := o.Registry.SessionOf(cid)
	if !ok {
		return
	}
	o.Registry.RemoveSession(cid)
	ms, ok := o.Sessions.Get(id)
	if !ok {
		return
	}
	pid := ps.Meta().ID
	ms.forget(pid)
	ms.svc.RemoveParticipant(cid)
	ms.ctl.HandleParticipantLeft(pid)
	if ms.svc.ParticipantCount() == 0 {
		o.Sessions.Stop(id)
	}
}

// Speaking feeds one client's voice-activity flag into their session.
// Clients outside any session are ignored.
func (o *Orchestrator) Speaking(cid core.ClientID, active bool) {
	id, ps, ok := o.Registry.SessionOf(cid)
	if !ok {
		return
	}
	if ms, ok := o.Sessions.Get(id); ok {
		ms.SetSpeaking(ps.Meta().ID, active)
	}
}

// Override installs or clears a manual primary designation in the client's
// session. A non-clearing override must name a participant; targets absent
// from the roster are accepted but stay inert.
func (o *Orchestrator) Override(cid core.ClientID, ov domain.Override) {
	if ov.Kind != domain.OverrideNone && !ov.Active() {
		log.Warn().Str("module", "app.orch").Str("cid", string(cid)).Str("kind", ov.Kind.String()).Msg("override without target ignored")
		return
	}
	id, _, ok := o.Registry.SessionOf(cid)
	if !ok {
		return
	}
	if ms, ok := o.Sessions.Get(id); ok {
		ms.ctl.SetOverride(ov.Kind, ov.Participant)
	}
}

// SessionOf resolves the managed session a client currently belongs to.
func (o *Orchestrator) SessionOf(cid core.ClientID) (*ManagedSession, bool) {
	id, _, ok := o.Registry.SessionOf(cid)
	if !ok {
		return nil, false
	}
	return o.Sessions.Get(id)
}
