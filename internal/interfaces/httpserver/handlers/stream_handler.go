package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"focusframe-server/internal/config"
	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/notice"
	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/domain/session"
	"focusframe-server/internal/infrastructure/auth"
	"focusframe-server/internal/infrastructure/metrics"
	"focusframe-server/internal/interfaces/httpserver/middlewares"
	"focusframe-server/internal/utils/platformerrors"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsMaxMessageSize = 16 * 1024

	MessageIdentify = "identify"
	MessageSignOut  = "sign_out"
	MessagePing     = "ping"
)

// ClientMessage is what a WebSocket client sends.
type ClientMessage struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// StreamHandler serves live item sessions over SSE and WebSocket.
type StreamHandler struct {
	store     item.Store
	notices   session.Registrar
	owners    *owner.Service
	validator *auth.Validator
	heartbeat time.Duration
	upgrader  websocket.Upgrader
	log       zerolog.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewStreamHandler wires the live session transports.
func NewStreamHandler(cfg *config.Config, store item.Store, hub *notice.Hub, owners *owner.Service, validator *auth.Validator, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		store:     store,
		notices:   hub,
		owners:    owners,
		validator: validator,
		heartbeat: cfg.StreamHeartbeat,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.CORSOrigins),
		},
		log:  log.With().Str("component", "stream-handler").Logger(),
		done: make(chan struct{}),
	}
}

// Shutdown ends every open stream and refuses new ones.
func (h *StreamHandler) Shutdown() {
	h.doneOnce.Do(func() { close(h.done) })
}

// ServeSSE streams snapshots and notices for the caller's identity until the
// client disconnects.
func (h *StreamHandler) ServeSSE(c *gin.Context) {
	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		platformerrors.WriteInternalError(c, "streaming is not supported")
		return
	}

	ctx := c.Request.Context()
	box := newOutbox("sse")
	sess := session.New(h.store, h.notices, box, h.log)
	defer sess.Close()

	metrics.ActiveSubscriptions.WithLabelValues("sse").Inc()
	defer metrics.ActiveSubscriptions.WithLabelValues("sse").Dec()

	h.identify(ctx, sess, box, auth.IdentityFrom(c))

	c.Status(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case <-box.signal:
			for _, ev := range box.drain() {
				if err := writeSSE(c.Writer, ev); err != nil {
					h.log.Debug().Err(err).Msg("sse write failed")
					return
				}
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(c.Writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// ServeWS upgrades to a WebSocket session. The client may identify, switch
// identity, or sign out without reconnecting.
func (h *StreamHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	box := newOutbox("websocket")
	sess := session.New(h.store, h.notices, box, h.log)
	client := &wsClient{conn: conn, box: box, heartbeat: h.heartbeat, done: h.done, log: h.log}

	metrics.ActiveSubscriptions.WithLabelValues("websocket").Inc()
	defer metrics.ActiveSubscriptions.WithLabelValues("websocket").Dec()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		client.writePump(ctx)
	}()

	h.identify(ctx, sess, box, auth.IdentityFrom(c))
	h.readPump(ctx, client, sess)

	cancel()
	wg.Wait()
	sess.Close()
	_ = conn.Close()
}

func (h *StreamHandler) readPump(ctx context.Context, client *wsClient, sess *session.Session) {
	conn := client.conn
	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Msg("websocket read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.box.Error("invalid message format")
			continue
		}

		switch msg.Type {
		case MessageIdentify:
			identity, err := h.validator.ValidateToken(ctx, msg.Token)
			if err != nil {
				client.box.Error("invalid token")
				continue
			}
			h.identify(ctx, sess, client.box, identity)
		case MessageSignOut:
			sess.SignOut()
		case MessagePing:
			client.box.push(EventPong, nil)
		default:
			client.box.Error(fmt.Sprintf("unknown message type %q", msg.Type))
		}
	}
}

// identify records the sign-in and moves the session to the identity's
// owner. Anonymous identities sign the session out.
func (h *StreamHandler) identify(ctx context.Context, sess *session.Session, box *outbox, identity owner.Identity) {
	if identity.Anonymous() {
		if sess.Owner() == "" {
			box.State(session.StateUnsubscribed, "")
			box.Snapshot("", nil)
			return
		}
		sess.SignOut()
		return
	}

	if _, err := h.owners.Touch(ctx, identity); err != nil {
		h.log.Warn().Err(err).Str("owner_id", identity.ID).Msg("record sign-in")
	}
	sess.Identify(identity.ID)
}

type wsClient struct {
	conn      *websocket.Conn
	box       *outbox
	heartbeat time.Duration
	done      <-chan struct{}
	log       zerolog.Logger

	writeMu sync.Mutex
}

func (c *wsClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.heartbeat)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-c.box.signal:
			for _, ev := range c.box.drain() {
				if err := c.writeJSON(ev); err != nil {
					c.log.Debug().Err(err).Msg("websocket write failed")
					return
				}
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *wsClient) write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(messageType, data)
}

func writeSSE(w io.Writer, ev StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
	return err
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
