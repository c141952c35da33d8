// Package main provides the game server binary that serves the board game
// engine over an HTTP JSON API with per-game websocket event streams.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/jdalgaard/rondo/internal/config"
	"github.com/jdalgaard/rondo/internal/game/preset"
	"github.com/jdalgaard/rondo/internal/gameserver"
	"github.com/jdalgaard/rondo/internal/observability"
	"github.com/jdalgaard/rondo/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	boardsDir := flag.String("boards", "", "path to board preset YAML directory; overrides the configured game.boards_dir")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *boardsDir != "" {
		cfg.Game.BoardsDir = *boardsDir
	}

	logger, err := observability.NewLogger(cfg.Logging, "gameserver")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server",
		zap.String("addr", cfg.Server.Addr()),
	)

	// Load board presets
	presetStart := time.Now()
	presets, err := preset.LoadDir(cfg.Game.BoardsDir)
	if err != nil {
		logger.Fatal("loading board presets", zap.Error(err))
	}
	logger.Info("board presets loaded",
		zap.Int("count", len(presets)),
		zap.Duration("elapsed", time.Since(presetStart)),
	)

	svc := gameserver.NewService(cfg, logger, presets)

	lc := server.NewLifecycle(logger, cfg.Server.ShutdownGrace)
	lc.Add("http", svc)

	if err := lc.Run(ctx); err != nil {
		logger.Fatal("lifecycle failed", zap.Error(err))
	}
}
