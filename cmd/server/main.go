package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/config"
	"github.com/matchforge/vendormatch/internal/core"
	"github.com/matchforge/vendormatch/internal/llm"
	"github.com/matchforge/vendormatch/internal/logger"
	"github.com/matchforge/vendormatch/internal/server"
	"github.com/matchforge/vendormatch/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults with env overrides", cfgPath, err)
		cfg = config.Default()
	}

	zl, err := logger.New(cfg.Server.JSONLogs, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	st, err := store.NewMemgraphStore(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, zl)
	if err != nil {
		zl.Fatal("failed to connect to Memgraph", zap.String("uri", cfg.Memgraph.URI), zap.Error(err))
	}

	registry, err := llm.NewRegistry(ctx, cfg.LLM)
	if err != nil {
		zl.Fatal("failed to initialize LLM clients", zap.Error(err))
	}

	matcher := core.NewMatcher(st, registry, cfg.Limits, zl)
	defer matcher.Close(ctx)

	srv := server.New(matcher, cfg, zl)
	r := srv.SetupRouter()

	zl.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("default_provider", registry.Default().String()))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}
