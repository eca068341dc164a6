package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/querykit/internal/cli/config"
	"github.com/conduit-lang/querykit/internal/cli/logging"
	"github.com/conduit-lang/querykit/internal/orm/query"
	"github.com/conduit-lang/querykit/internal/orm/schema"
)

// environment is what every command needs before doing its work
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *schema.Registry
	compiler *query.Compiler
}

// loadEnvironment reads the configuration and the entity models
func loadEnvironment() (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	registry, err := schema.LoadRegistry(cfg.Models.Dir, cfg.Query.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load models from %s: %w", cfg.Models.Dir, err)
	}

	return &environment{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		compiler: query.NewCompiler(registry, cfg.QueryConfig(), logger.Named("query")),
	}, nil
}
