package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Stage/internal/app"
	"github.com/dkeye/Stage/internal/config"
	"github.com/dkeye/Stage/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch       *app.Orchestrator
	limiter    *JoinRateLimiter
	readLimit  int64
	pingPeriod time.Duration
}

func NewSignalWSController(orch *app.Orchestrator, cfg *config.Config) *SignalWSController {
	pp := cfg.PingPeriod
	if pp <= 0 {
		pp = 54 * time.Second
	}
	return &SignalWSController{
		Orch:       orch,
		limiter:    NewJoinRateLimiter(10, time.Minute),
		readLimit:  cfg.ReadLimit,
		pingPeriod: pp,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := core.ClientID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("cid", string(cid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.readLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	participant := ctl.Orch.Registry.GetOrCreateParticipant(cid)
	sess := core.NewParticipantSession(participant).UpdateSignal(conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Registry.BindSignal(cid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}

func (ctl *SignalWSController) BroadcastFrom(cid core.ClientID, v any) {
	id, _, ok := ctl.Orch.Registry.SessionOf(cid)
	if !ok {
		return
	}
	for _, snap := range ctl.Orch.Registry.MembersOfSession(id) {
		if snap.CID == cid {
			continue
		}
		ctl.sendJSON(snap.Session.Signal(), v)
	}
}
