package realtime

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

// WSConfig tunes the websocket transport.
type WSConfig struct {
	SendBuffer      int
	MaxMessageBytes int64
	PingInterval    time.Duration
	AllowedOrigins  []string
}

// Server upgrades HTTP requests to websocket connections and attaches them to a Hub.
type Server struct {
	hub      *Hub
	cfg      WSConfig
	upgrader websocket.Upgrader
	logger   *log.Entry
}

func NewServer(hub *Hub, cfg WSConfig, logger *log.Entry) *Server {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 64 * 1024
	}
	if logger == nil {
		logger = log.WithField("component", "websocket")
	}
	return &Server{
		hub:    hub,
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// originChecker accepts same-origin requests and the configured origins. An
// empty list or "*" allows any origin, matching the CORS middleware.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 || sameOrigin(origin, r.Host) {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := NewClient(s.cfg.SendBuffer)
	s.hub.OnConnect(client)

	go s.writePump(conn, client)
	s.readPump(conn, client)
}

func (s *Server) readPump(conn *websocket.Conn, client *Client) {
	defer func() {
		s.hub.OnClose(client)
		_ = conn.Close()
	}()

	pongWait := 2 * s.cfg.PingInterval
	conn.SetReadLimit(s.cfg.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.WithError(err).WithField("conn_id", client.ID()).Warn("websocket read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		s.hub.OnMessage(client, Message{Binary: kind == websocket.BinaryMessage, Data: payload})
	}
}

// writePump is the only goroutine writing data frames to conn.
func (s *Server) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Outbound():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			kind := websocket.TextMessage
			if msg.Binary {
				kind = websocket.BinaryMessage
			}
			if err := conn.WriteMessage(kind, msg.Data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
