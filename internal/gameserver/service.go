// Package gameserver exposes the game engine over an HTTP JSON API with a
// websocket event stream per game.
package gameserver

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/config"
	"github.com/jdalgaard/rondo/internal/game/preset"
	"github.com/jdalgaard/rondo/internal/game/session"
)

// Service is the HTTP game server. It owns the session manager, the
// websocket hub, and the per-game auto-resolve timers.
type Service struct {
	cfg      config.Config
	logger   *zap.Logger
	sessions *session.Manager
	hub      *Hub
	presets  []*preset.Preset

	timerMu sync.Mutex
	timers  map[string]*ChoiceTimer

	httpServer *http.Server
}

// NewService creates the game server.
//
// Precondition: cfg must be validated; logger must be non-nil; presets may
// be empty.
func NewService(cfg config.Config, logger *zap.Logger, presets []*preset.Preset) *Service {
	s := &Service{
		cfg:      cfg,
		logger:   logger,
		sessions: session.NewManager(),
		hub:      NewHub(logger),
		presets:  presets,
		timers:   make(map[string]*ChoiceTimer),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

// Router builds the gin engine with all routes attached.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/presets", s.handleListPresets)
		api.POST("/games", s.handleCreateGame)
		api.GET("/games/:id", s.handleGetGame)
		api.DELETE("/games/:id", s.handleDeleteGame)
		api.POST("/games/:id/roll", s.handleRoll)
		api.POST("/games/:id/stop", s.handleChooseStop)
		api.POST("/games/:id/resolve", s.handleResolveTask)
		api.GET("/games/:id/ws", s.handleWebsocket)
	}
	return r
}

// Start begins serving HTTP. It blocks until Stop is called or the
// listener fails.
func (s *Service) Start() error {
	s.logger.Info("game server listening",
		zap.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully: stop timers, drop websocket
// clients, then drain in-flight HTTP requests.
func (s *Service) Stop() {
	s.timerMu.Lock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.timerMu.Unlock()

	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warn("http shutdown incomplete", zap.Error(err))
	}
}
