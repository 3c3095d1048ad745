package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	customMiddleware "github.com/Rrens/ai-debate/internal/api/middleware"
	"github.com/Rrens/ai-debate/internal/bus"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsMaxMessage = 16 << 10
)

// Client frame types
const (
	frameStart   = "start"
	frameStarted = "started"
	frameError   = "error"
)

// clientFrame is a message sent by the browser over the socket
type clientFrame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Topic     string          `json:"topic"`
	Turns     json.RawMessage `json:"turns,omitempty"`
}

// controlFrame answers a client frame
type controlFrame struct {
	Type           string `json:"type"`
	SessionID      string `json:"sessionId,omitempty"`
	Message        string `json:"message,omitempty"`
	TurnLimit      int    `json:"turnLimit,omitempty"`
	RequestedTurns int    `json:"requestedTurns,omitempty"`
}

// WSHandler streams debate updates to a browser and accepts start triggers
type WSHandler struct {
	debateService *service.DebateService
	subscriber    domain.EventSubscriber
	limiter       customMiddleware.Limiter
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a websocket handler. allowedOrigins of "*" or empty
// accepts any origin. limiter guards start frames per client IP; nil
// disables it.
func NewWSHandler(
	debateService *service.DebateService,
	subscriber domain.EventSubscriber,
	limiter customMiddleware.Limiter,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		debateService: debateService,
		subscriber:    subscriber,
		limiter:       limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// wsConn serializes writes; gorilla allows one concurrent writer
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(v)
}

// reply computes and writes an answer while holding the write lock, so the
// answer to a start frame precedes every update of the run it starts
func (c *wsConn) reply(answer func() controlFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	frame := answer()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(frame)
}

func (c *wsConn) writeControl(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(messageType, data, time.Now().Add(wsWriteWait))
}

// Serve subscribes the socket to the session topic before any trigger is
// accepted, forwards every update and closes after the terminal one
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := uuid.Parse(sessionID); err != nil {
		writeError(w, domain.InvalidInput("invalid session ID"))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Warn().Err(err).Str("session_id", sessionID).Msg("websocket upgrade failed")
		return
	}
	c := &wsConn{conn: conn}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	updates, unsubscribe, err := h.subscriber.Subscribe(ctx, bus.Topic(sessionID))
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to subscribe to debate updates")
		_ = c.writeJSON(controlFrame{Type: frameError, SessionID: sessionID, Message: "update channel unavailable"})
		return
	}
	defer unsubscribe()

	logger := log.With().Str("session_id", sessionID).Logger()
	logger.Debug().Msg("websocket client connected")

	go h.readLoop(ctx, cancel, c, sessionID, customMiddleware.ClientIP(r))

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("websocket client gone")
			return
		case <-ticker.C:
			if err := c.writeControl(websocket.PingMessage, nil); err != nil {
				return
			}
		case event, ok := <-updates:
			if !ok {
				return
			}
			if err := c.writeJSON(event); err != nil {
				logger.Warn().Err(err).Msg("failed to forward debate update")
				return
			}
			if event.IsCompleted {
				_ = c.writeControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "debate finished"))
				return
			}
		}
	}
}

// readLoop handles client frames until the socket closes
func (h *WSHandler) readLoop(ctx context.Context, cancel context.CancelFunc, c *wsConn, sessionID, client string) {
	defer cancel()

	c.conn.SetReadLimit(wsMaxMessage)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("session_id", sessionID).Msg("websocket read failed")
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = c.writeJSON(controlFrame{Type: frameError, SessionID: sessionID, Message: "invalid message"})
			continue
		}
		_ = c.reply(func() controlFrame { return h.handleFrame(ctx, frame, sessionID, client) })
	}
}

func (h *WSHandler) handleFrame(ctx context.Context, frame clientFrame, sessionID, client string) controlFrame {
	if frame.Type != frameStart {
		return controlFrame{Type: frameError, SessionID: sessionID, Message: "unknown message type"}
	}
	if frame.SessionID != "" && frame.SessionID != sessionID {
		return controlFrame{Type: frameError, SessionID: sessionID, Message: "session ID does not match this connection"}
	}
	if !h.allow(ctx, client) {
		return controlFrame{Type: frameError, SessionID: sessionID, Message: "rate limit exceeded"}
	}

	ticket, err := h.debateService.Start(sessionID, domain.DebateRequest{
		Topic: frame.Topic,
		Turns: turnsString(frame.Turns),
	})
	if err != nil {
		message := err.Error()
		if statusFor(err) == http.StatusInternalServerError {
			log.Error().Err(err).Str("session_id", sessionID).Msg("failed to start debate")
			message = "failed to start debate"
		}
		return controlFrame{Type: frameError, SessionID: sessionID, Message: message}
	}

	return controlFrame{
		Type:           frameStarted,
		SessionID:      ticket.SessionID,
		TurnLimit:      ticket.TurnLimit,
		RequestedTurns: ticket.RequestedTurns,
	}
}

// allow applies the limiter to a start frame, failing open like the HTTP middleware
func (h *WSHandler) allow(ctx context.Context, client string) bool {
	if h.limiter == nil {
		return true
	}
	allowed, _, _, err := h.limiter.Allow(ctx, client)
	if err != nil {
		log.Warn().Err(err).Str("client", client).Msg("rate limiter unavailable")
		return true
	}
	return allowed
}
