package gameserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/game/dice"
	"github.com/jdalgaard/rondo/internal/game/preset"
	"github.com/jdalgaard/rondo/internal/game/session"
	"github.com/jdalgaard/rondo/internal/game/task"
	"github.com/jdalgaard/rondo/internal/game/turn"
)

// createGameRequest is the POST /api/games body. Either preset_id or an
// explicit board shape is given; explicit values override the preset.
type createGameRequest struct {
	PresetID  string `json:"preset_id"`
	BoxCount  int    `json:"box_count"`
	TaskCount int    `json:"task_count"`
	Players   int    `json:"players"`
	Target    int    `json:"target"`
}

// gameResponse is the envelope for every game state reply and for each
// websocket broadcast frame.
type gameResponse struct {
	GameID   string        `json:"game_id"`
	Events   []turn.Event  `json:"events,omitempty"`
	Snapshot turn.Snapshot `json:"snapshot"`
}

// stopRequest is the POST /api/games/:id/stop body.
type stopRequest struct {
	Tile int `json:"tile"`
}

// resolveRequest is the POST /api/games/:id/resolve body.
type resolveRequest struct {
	Steps int `json:"steps"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is same-origin behind the dev proxy and origin-agnostic in
	// standalone play.
	CheckOrigin: func(*http.Request) bool { return true },
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"games":  s.sessions.Count(),
	})
}

func (s *Service) handleListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": s.presets})
}

func (s *Service) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	setup, presetID, err := s.buildSetup(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roller := dice.NewLoggedRoller(dice.NewSource(), s.logger)
	g, err := turn.NewGame(setup, roller, s.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := s.sessions.Create(g, presetID)
	s.logger.Info("game created",
		zap.String("game_id", sess.ID),
		zap.String("preset", presetID),
		zap.Int("box_count", setup.BoxCount),
		zap.Int("players", setup.Players),
	)

	c.JSON(http.StatusCreated, gameResponse{
		GameID:   sess.ID,
		Snapshot: g.Snapshot(),
	})
}

// buildSetup merges the request with its preset (if any) and clamps the
// result into the configured bounds.
func (s *Service) buildSetup(req createGameRequest) (turn.Setup, string, error) {
	gc := s.cfg.Game
	setup := turn.Setup{
		Target: gc.DefaultTarget,
		Ranges: task.Ranges{
			PayoutMin: gc.PayoutMin,
			PayoutMax: gc.PayoutMax,
			StepsMin:  gc.StepsMin,
			StepsMax:  gc.StepsMax,
		},
	}

	presetID := "custom"
	if req.PresetID != "" {
		p := s.findPreset(req.PresetID)
		if p == nil {
			return turn.Setup{}, "", errors.New("unknown preset_id")
		}
		presetID = p.ID
		setup.BoxCount = p.BoxCount
		setup.TaskCount = p.TaskCount
		setup.Target = p.Target
	}

	if req.BoxCount > 0 {
		setup.BoxCount = req.BoxCount
	}
	if req.TaskCount > 0 {
		setup.TaskCount = req.TaskCount
	}
	if req.Target > 0 {
		setup.Target = req.Target
	}
	setup.Players = req.Players

	setup.BoxCount = clamp(setup.BoxCount, gc.MinBoxCount, gc.MaxBoxCount)
	setup.Players = clamp(setup.Players, gc.MinPlayers, gc.MaxPlayers)
	if setup.TaskCount < 0 {
		setup.TaskCount = 0
	}
	return setup, presetID, nil
}

func (s *Service) findPreset(id string) *preset.Preset {
	for _, p := range s.presets {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Service) handleGetGame(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, gameResponse{
		GameID:   sess.ID,
		Snapshot: sess.Game.Snapshot(),
	})
}

func (s *Service) handleDeleteGame(c *gin.Context) {
	id := c.Param("id")
	if err := s.sessions.Remove(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	s.stopTimer(id)
	s.hub.CloseGame(id)
	c.Status(http.StatusNoContent)
}

func (s *Service) handleRoll(c *gin.Context) {
	s.handleAction(c, func(sess *session.GameSession) ([]turn.Event, error) {
		return sess.Game.Roll()
	})
}

func (s *Service) handleChooseStop(c *gin.Context) {
	var req stopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s.handleAction(c, func(sess *session.GameSession) ([]turn.Event, error) {
		return sess.Game.ChooseStop(req.Tile)
	})
}

func (s *Service) handleResolveTask(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s.handleAction(c, func(sess *session.GameSession) ([]turn.Event, error) {
		return sess.Game.ResolveTask(req.Steps)
	})
}

// handleAction runs one engine call against the addressed game and maps
// engine rejections to 409. Successful actions are broadcast to the
// game's websocket watchers.
func (s *Service) handleAction(c *gin.Context, action func(*session.GameSession) ([]turn.Event, error)) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	events, err := action(sess)
	if err != nil {
		switch {
		case errors.Is(err, turn.ErrWrongPhase),
			errors.Is(err, turn.ErrGameOver),
			errors.Is(err, turn.ErrNotAllowed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	resp := s.afterAction(sess, events)
	c.JSON(http.StatusOK, resp)
}

func (s *Service) handleWebsocket(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	client := s.hub.Register(sess.ID, conn)

	// Seed the new watcher with the current state.
	payload, err := encodeResponse(gameResponse{
		GameID:   sess.ID,
		Snapshot: sess.Game.Snapshot(),
	})
	if err == nil {
		select {
		case client.send <- payload:
		default:
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
