package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// WebSocket timing
const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ServerConfig configures the spectator HTTP server.
type ServerConfig struct {
	Address       string   // host:port to listen on
	CORSOrigins   []string // Allowed origins; empty allows any
	MaxSpectators int
}

// DefaultServerConfig returns a config with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:       "127.0.0.1:8080",
		MaxSpectators: 100,
	}
}

// NewRouter builds the HTTP routes. It starts no goroutines, so it can be
// served with httptest directly.
//
//	GET /healthz        liveness
//	GET /api/snapshot   latest snapshot as JSON
//	GET /api/rank       rank of the observed human
//	GET /ws             event stream
//	GET /metrics        Prometheus exposition
func NewRouter(hub *Hub, metrics *Metrics, cfg ServerConfig, logger *log.Logger) *chi.Mux {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &handlers{hub: hub, cfg: cfg, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.allowedOrigin,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", h.snapshot)
		r.Get("/rank", h.rank)
	})
	r.Get("/ws", h.stream)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

type handlers struct {
	hub      *Hub
	cfg      ServerConfig
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"spectators": h.hub.Count(),
	})
}

func (h *handlers) snapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.hub.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no match observed yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RankResponse is the body of GET /api/rank.
type RankResponse struct {
	Name    string     `json:"name"`
	Ordinal int        `json:"ordinal"`
	Needed  int        `json:"needed"`
	AtTop   bool       `json:"at_top"`
	State   rank.State `json:"state"`
}

func (h *handlers) rank(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.hub.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no match observed yet")
		return
	}
	st := snap.Rank
	writeJSON(w, http.StatusOK, RankResponse{
		Name:    st.Name(),
		Ordinal: st.Ordinal(),
		Needed:  rank.PointsNeeded(st.RankIndex, st.TierIndex),
		AtTop:   st.AtTop(),
		State:   st,
	})
}

func (h *handlers) allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.CORSOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.CORSOrigins, origin)
}

func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxSpectators > 0 && h.hub.Count() >= h.cfg.MaxSpectators {
		writeError(w, http.StatusServiceUnavailable, "too many spectators")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := h.hub.Subscribe()
	go h.readPump(conn, sub)
	h.writePump(conn, sub)
}

// readPump discards client messages and unsubscribes when the peer goes away.
func (h *handlers) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer h.hub.Unsubscribe(sub.ID())

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards the subscriber's frames and keeps the connection alive.
func (h *handlers) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
		h.hub.Unsubscribe(sub.ID())
	}()

	// Late joiners get the current state right away
	if snap, ok := h.hub.Latest(); ok {
		if frame, err := Encode(SnapshotEvent{Snapshot: snap}); err == nil {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	}

	for {
		select {
		case <-sub.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case frame := <-sub.Frames():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// Server runs a Hub and its HTTP front end.
type Server struct {
	cfg    ServerConfig
	hub    *Hub
	http   *http.Server
	logger *log.Logger
}

// NewServer wires a hub to a router. Nothing runs until Start.
func NewServer(cfg ServerConfig, hub *Hub, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		cfg:    cfg,
		hub:    hub,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           NewRouter(hub, metrics, cfg, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start listens on the configured address, runs the hub and serves until
// ctx is cancelled. The listener is bound before Start returns, so a bad
// address fails immediately.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("spectate: listen %s: %w", s.cfg.Address, err)
	}
	s.logger.Info("spectator server listening", "address", ln.Addr().String())

	hubCtx, cancelHub := context.WithCancel(ctx)
	go s.hub.Run(hubCtx)

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("spectator server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		cancelHub()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.http.Shutdown(shutdownCtx)
		s.logger.Info("spectator server stopped")
	}()
	return nil
}
