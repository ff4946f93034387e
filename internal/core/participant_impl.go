package core

import "github.com/dkeye/Stage/internal/domain"

// participantSession implements ParticipantSession by pairing meta + transport.
type participantSession struct {
	meta *domain.Participant
	sig  SignalConnection
}

func NewParticipantSession(meta *domain.Participant) ParticipantSession {
	return &participantSession{meta: meta}
}

func (p *participantSession) Meta() *domain.Participant { return p.meta }
func (p *participantSession) Signal() SignalConnection  { return p.sig }

func (p *participantSession) UpdateSignal(sig SignalConnection) ParticipantSession {
	p.sig = sig
	return p
}
