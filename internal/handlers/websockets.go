package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000 // 10s in ms
	eventBuffer      = 64
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsState is the periodic snapshot of the user's active appliances.
type wsState struct {
	At         time.Time                `json:"at"`
	Appliances []models.ActiveAppliance `json:"appliances"`
}

// wsEvent is the wire form of a lifecycle event.
type wsEvent struct {
	Type      string                  `json:"type"`
	At        time.Time               `json:"at"`
	Appliance *models.ActiveAppliance `json:"appliance,omitempty"`
	Record    *models.UsageRecord     `json:"record,omitempty"`
	Alert     *models.PersistentAlert `json:"alert,omitempty"`
	Actions   []string                `json:"actions,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

func toWSEvent(ev lifecycle.Event) wsEvent {
	out := wsEvent{
		Type:      string(ev.Type),
		At:        ev.At,
		Appliance: ev.Appliance,
		Record:    ev.Record,
		Alert:     ev.Alert,
		Actions:   ev.Actions,
	}
	if ev.Err != nil {
		out.Error = ev.Err.Error()
	}
	return out
}

// Upgrader for HTTP -> WebSocket.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origins once the dashboard host is configurable
}

// @Summary      Event stream
// @Description  WebSocket. Sends {"type":"state"} snapshots every interval and {"type":"event"} for each lifecycle event. The token may be passed as access_token.
// @Tags         appliances
// @Param        interval      query  string  false  "State interval, e.g. 2s (max 10s)"
// @Param        interval_ms   query  int     false  "State interval in milliseconds"
// @Param        access_token  query  string  false  "JWT when headers cannot be set"
// @Success      101  {string}  string  "switching protocols"
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	ctx := c.Request.Context()
	uid := userID(c)

	events, cancel, err := h.services.Appliances.Subscribe(ctx, uid, eventBuffer)
	if err != nil {
		h.respondError(c, err, "ws_subscribe_failed", "user_id", uid)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	// Prepare periodic writers: state updates and pings.
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	// Send initial state immediately.
	if err := h.sendState(ctx, conn, uid); err != nil {
		h.log.Infow("ws_write_failed_initial", "user_id", uid, "err", err)
		return
	}

	// Writer/select loop.
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				// The session closed; let the client reconnect.
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(wsEnvelope{Type: "event", Data: toWSEvent(ev)}); err != nil {
				h.log.Infow("ws_write_failed", "user_id", uid, "err", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "user_id", uid, "err", err)
				return
			}
		case <-ticker.C:
			if err := h.sendState(ctx, conn, uid); err != nil {
				h.log.Infow("ws_write_failed", "user_id", uid, "err", err)
				return
			}
		}
	}
}

// Helper: parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// Helper: sendState fetches and writes the active appliances with a write deadline.
func (h *Handler) sendState(ctx context.Context, conn *websocket.Conn, uid int) error {
	list, err := h.services.Appliances.ListActive(ctx, uid)
	if err != nil {
		h.log.Errorw("ws_get_state_failed", "user_id", uid, "err", err)
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "state", Data: wsState{At: time.Now().UTC(), Appliances: list}})
}
