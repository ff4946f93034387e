package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/core"
)

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	})
}

// handleBye is the page-unload path: the tab is closing, so clean up
// membership synchronously and drop the connection. No response is sent and
// none is expected. The registry cancel tears both pumps down right away
// instead of waiting for the read side to notice the closed socket.
func (ctl *SignalWSController) handleBye(cid core.ClientID, conn *WsSignalConn) {
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("bye")
	ctl.Orch.Leave(cid)
	ctl.Orch.Registry.Cancel(cid)
	conn.Close()
}
