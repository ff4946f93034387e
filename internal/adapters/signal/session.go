package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/app"
	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

const maxSessionNameLen = 36

// truncateName caps a client-supplied name without splitting a multi-byte
// character.
func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func (ctl *SignalWSController) handleCreate(
	cid core.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad create payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)
	if !ctl.limiter.Allow(participant.ID) {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "rate_limited",
		})
		return
	}
	raw := truncateName(p.Name, maxSessionNameLen)

	ms, err := ctl.Orch.Create(cid, domain.SessionName(raw))
	if err != nil {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}
	ctl.sendJSON(conn, struct {
		Type    string           `json:"type"`
		Session domain.SessionID `json:"session"`
	}{
		"session_created",
		ms.Service().Session().ID,
	})
	ctl.sendState(conn, ms)
}

func (ctl *SignalWSController) handleJoin(
	cid core.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type    string `json:"type"`
		Session string `json:"session"`
		Name    string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)
	if !ctl.limiter.Allow(participant.ID) {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "rate_limited",
		})
		return
	}
	if p.Name != "" {
		if err := ctl.Orch.Registry.UpdateDisplayName(cid, p.Name); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("cid", string(cid)).Msg("rename on join rejected")
		}
	}

	ms, err := ctl.Orch.Join(cid, domain.SessionID(p.Session))
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("session", p.Session).Msg("join failed")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("session", p.Session).Msg("join")
	ctl.sendState(conn, ms)

	ctl.BroadcastFrom(cid, struct {
		Type        string             `json:"type"`
		Participant domain.Participant `json:"participant"`
	}{
		Type:        "member_joined",
		Participant: *participant,
	})
}

func (ctl *SignalWSController) handleLeave(
	cid core.ClientID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("leave")
	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)

	// Announce before tearing the membership down so roommates still get it.
	ctl.BroadcastFrom(cid, struct {
		Type        string             `json:"type"`
		Participant domain.Participant `json:"participant"`
	}{
		Type:        "member_left",
		Participant: *participant,
	})

	ctl.Orch.Leave(cid)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}

func (ctl *SignalWSController) sendState(conn *WsSignalConn, ms *app.ManagedSession) {
	primary, _ := ms.Primary()
	ctl.sendJSON(conn, struct {
		Type         string                `json:"type"`
		Session      domain.SessionID      `json:"session"`
		SessionName  domain.SessionName    `json:"session_name"`
		Participants []core.ParticipantDTO `json:"participants"`
		Count        int                   `json:"count"`
		Primary      domain.ParticipantID  `json:"primary,omitempty"`
	}{
		Type:         "session_state",
		Session:      ms.Service().Session().ID,
		SessionName:  ms.Service().Session().Name,
		Participants: ms.Service().ParticipantsSnapshot(),
		Count:        ms.Service().ParticipantCount(),
		Primary:      primary,
	})
}
