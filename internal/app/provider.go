package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
	"github.com/dkeye/Stage/internal/metrics"
)

// fanoutProvider implements core.MediaProvider over a session's signal
// plane: quality instructions go to the affected publisher, the terminate
// notice to everyone; the clients apply them to their media tracks. Calls
// stay fire-and-forget end to end.
type fanoutProvider struct {
	svc core.SessionService
	m   *metrics.Metrics
}

func newFanoutProvider(svc core.SessionService, m *metrics.Metrics) *fanoutProvider {
	return &fanoutProvider{svc: svc, m: m}
}

// RequestVideoQuality instructs the targeted participant's client to encode
// at the given tier. Directed, not broadcast: only the publisher needs to
// act, and a dropped frame is healed by the next allocation.
func (p *fanoutProvider) RequestVideoQuality(id domain.ParticipantID, tier domain.QualityTier) {
	b, err := json.Marshal(qualityEvent{Type: "quality", Participant: id, Tier: tier.String()})
	if err != nil {
		log.Error().Err(err).Str("module", "app.provider").Msg("marshal quality event")
		return
	}
	_ = p.svc.Send(id, core.Frame(b))
	p.m.IncQualityRequests()
}

func (p *fanoutProvider) Disconnect() {
	b, err := json.Marshal(sessionClosedEvent{Type: "session_closed", Reason: "idle"})
	if err != nil {
		log.Error().Err(err).Str("module", "app.provider").Msg("marshal close event")
		return
	}
	p.svc.Broadcast("", core.Frame(b))
}
