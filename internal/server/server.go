package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/hub"
)

// Server accepts websocket clients and hands each one a Session bound
// to the shared hub.
type Server struct {
	addr     string
	hub      *hub.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*Session]bool
}

// NewServer builds the server and boots every table the configuration
// names.
func NewServer(cfg *ServerConfig, h *hub.Hub, logger *log.Logger) (*Server, error) {
	s := &Server{
		addr:   cfg.GetServerAddress(),
		hub:    h,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[*Session]bool),
	}

	for _, tc := range cfg.Tables {
		err := h.CreateSystem(hub.CreateParams{
			Name:       tc.Name,
			SmallBlind: tc.SmallBlind,
			BigBlind:   tc.BigBlind,
			BuyIn:      tc.BuyIn,
			MaxPlayers: tc.MaxPlayers,
			Password:   tc.Password,
		}, tc.Bots)
		if err != nil {
			return nil, fmt.Errorf("boot table %q: %w", tc.Name, err)
		}
	}

	return s, nil
}

// Run serves until ctx is cancelled, then drains the listener and
// closes every session.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)

		s.mu.Lock()
		for session := range s.sessions {
			_ = session.Close()
		}
		s.mu.Unlock()
		return nil
	})

	return g.Wait()
}

// handleWebSocket upgrades a client. An optional player_id query
// parameter reattaches a previous identity after a reconnect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	var prior *uuid.UUID
	if raw := r.URL.Query().Get("player_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			prior = &id
		}
	}

	session := NewSession(conn, s.hub, s.logger, prior)
	s.mu.Lock()
	s.sessions[session] = true
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)

	session.Start()
	go func() {
		<-session.Done()
		s.mu.Lock()
		delete(s.sessions, session)
		total := len(s.sessions)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "total", total)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
