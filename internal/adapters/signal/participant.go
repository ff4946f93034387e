package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
	"github.com/dkeye/Stage/internal/domain"
)

func (ctl *SignalWSController) handleSpeaking(cid core.ClientID, data []byte) {
	type speakingPayload struct {
		Type   string `json:"type"`
		Active bool   `json:"active"`
	}
	var p speakingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad speaking payload")
		return
	}
	ctl.Orch.Speaking(cid, p.Active)
}

func parseOverrideKind(s string) (domain.OverrideKind, bool) {
	switch s {
	case "pinned":
		return domain.OverridePinned, true
	case "spotlighted":
		return domain.OverrideSpotlighted, true
	case "none":
		return domain.OverrideNone, true
	}
	return domain.OverrideNone, false
}

func (ctl *SignalWSController) handleOverride(
	cid core.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type overridePayload struct {
		Type        string `json:"type"`
		Kind        string `json:"kind"`
		Participant string `json:"participant"`
	}
	var p overridePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad override payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	kind, ok := parseOverrideKind(p.Kind)
	if !ok {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_override_kind",
		})
		return
	}
	ov := domain.Override{Kind: kind, Participant: domain.ParticipantID(p.Participant)}
	if ov.Kind != domain.OverrideNone && !ov.Active() {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "missing_participant",
		})
		return
	}
	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("kind", p.Kind).Str("participant", p.Participant).Msg("override")
	ctl.Orch.Override(cid, ov)
}

// handleState returns the caller's view: who is primary and who is speaking,
// for rendering tiles after a reconnect.
func (ctl *SignalWSController) handleState(cid core.ClientID, conn *WsSignalConn) {
	ms, ok := ctl.Orch.SessionOf(cid)
	if !ok {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "not_in_session",
		})
		return
	}
	speaking := make(map[domain.ParticipantID]bool)
	for _, id := range ms.Controller().Roster() {
		speaking[id] = ms.Controller().IsSpeaking(id)
	}
	primary, _ := ms.Primary()
	ctl.sendJSON(conn, struct {
		Type     string                        `json:"type"`
		Primary  domain.ParticipantID          `json:"primary,omitempty"`
		Speaking map[domain.ParticipantID]bool `json:"speaking"`
	}{
		Type:     "state",
		Primary:  primary,
		Speaking: speaking,
	})
}

func (ctl *SignalWSController) handleRename(
	cid core.ClientID,
	conn *WsSignalConn,
	data []byte,
) {
	type renamePayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p renamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rename payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	if err := ctl.Orch.Registry.UpdateDisplayName(cid, p.Name); err != nil {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "invalid_name",
		})
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(cid)).Str("name", p.Name).Msg("rename")
	ctl.handleWhoAmI(cid, conn)

	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)
	ctl.BroadcastFrom(cid, struct {
		Type        string             `json:"type"`
		Participant domain.Participant `json:"participant"`
	}{
		Type:        "member_updated",
		Participant: *participant,
	})
}

func (ctl *SignalWSController) handleWhoAmI(cid core.ClientID, conn *WsSignalConn) {
	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)

	resp := struct {
		Type        string               `json:"type"`
		ID          domain.ParticipantID `json:"id"`
		DisplayName string               `json:"display_name"`
		Session     domain.SessionID     `json:"session,omitempty"`
		SessionName domain.SessionName   `json:"session_name,omitempty"`
	}{
		Type:        "whoami",
		ID:          participant.ID,
		DisplayName: participant.DisplayName,
	}
	if ms, ok := ctl.Orch.SessionOf(cid); ok {
		resp.Session = ms.Service().Session().ID
		resp.SessionName = ms.Service().Session().Name
	}
	ctl.sendJSON(conn, resp)
}
