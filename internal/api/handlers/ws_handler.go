package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/session"
)

const (
	writeTimeout   = 10 * time.Second
	maxMessageSize = 1 << 20 // 1 MiB per frame
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browser clients connect from the desktop app shell; origin checks are
	// enforced at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts one websocket connection to the session Transport. Writes
// are serialized; a failed write marks the connection dead so later sends
// return false instead of erroring.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	dead bool
}

func (w *wsConn) Send(ev session.Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dead {
		return false
	}

	w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := w.conn.WriteJSON(ev); err != nil {
		w.dead = true
		return false
	}
	return true
}

func (w *wsConn) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dead = true
	w.conn.Close()
}

// controlMessage is an inbound text frame. Binary frames are audio.
type controlMessage struct {
	Type string `json:"type"`
}

type VoiceHandler struct {
	registry *session.Registry
	deps     session.Deps
	cfg      session.Config
	log      *logrus.Logger
}

func NewVoiceHandler(registry *session.Registry, deps session.Deps, cfg session.Config, log *logrus.Logger) *VoiceHandler {
	return &VoiceHandler{registry: registry, deps: deps, cfg: cfg, log: log}
}

// Serve upgrades the connection and runs the session read loop until the
// client disconnects.
func (h *VoiceHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	transport := &wsConn{conn: conn}
	id := uuid.NewString()
	sess := session.New(id, transport, h.deps, h.cfg)

	h.registry.Add(sess)
	// The request context dies with the upgrade; lifecycle records use their
	// own context.
	h.deps.Sessions.Start(context.Background(), id)
	h.log.WithFields(logrus.Fields{
		"session_id": id,
		"sessions":   h.registry.Len(),
	}).Info("voice session connected")

	defer func() {
		h.registry.Remove(id)
		sess.Close()
		transport.close()
		h.deps.Sessions.End(context.Background(), id)
		h.log.WithField("session_id", id).Info("voice session disconnected")
	}()

	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("session_id", id).Warn("websocket read failed")
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			sess.Append(payload)
		case websocket.TextMessage:
			var msg controlMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				transport.Send(session.Event{Type: session.EventError, Message: "malformed control message"})
				continue
			}
			switch msg.Type {
			case "ping":
				transport.Send(session.Event{Type: session.EventPong})
			case "end_of_utterance":
				sess.EndOfUtterance()
			case "close":
				return
			default:
				transport.Send(session.Event{Type: session.EventError, Message: "unknown control message type"})
			}
		}
	}
}
