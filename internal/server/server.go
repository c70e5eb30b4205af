// Package server exposes the engine over HTTP: a JSON API for logs, balances,
// progression, and redemptions, plus a websocket feed for live leaderboard
// updates. The caller's identity arrives in the X-Eco-Principal header;
// establishing that identity is someone else's job.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/verdantlabs/ecocycle/internal/service"
)

// PrincipalHeader carries the caller's opaque principal string.
const PrincipalHeader = "X-Eco-Principal"

// Server wires the store and the live-update hub behind a mux router.
type Server struct {
	store    service.Store
	router   *mux.Router
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a server over the given store. The hub starts running
// immediately; Shutdown stops it.
func New(store service.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  store,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}

	s.setupRoutes()
	go s.hub.Run()

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/logs", s.handleGetLogs).Methods(http.MethodGet)
	api.HandleFunc("/logs", s.handleCreateLog).Methods(http.MethodPost)
	api.HandleFunc("/balance", s.handleGetBalance).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.handleGetLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics", s.handleGetAnalytics).Methods(http.MethodGet)
	api.HandleFunc("/achievements", s.handleGetAchievements).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleSaveProfile).Methods(http.MethodPut)
	api.HandleFunc("/redemptions", s.handleGetRedemptions).Methods(http.MethodGet)
	api.HandleFunc("/redemptions", s.handleCreateRedemption).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("server listening", "addr", addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
