/*
Package cli implements the command-line interface for sales-pipeline.

Each command is implemented as a separate function that returns a *cobra.Command,
allowing for clean separation and easy testing. Commands share a *Globals that
the root command fills from its persistent flags.
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/khanglvm/sales-pipeline/internal/config"
	"github.com/khanglvm/sales-pipeline/internal/journal"
	"github.com/khanglvm/sales-pipeline/internal/pipeline"
	"github.com/khanglvm/sales-pipeline/internal/search"
	"github.com/khanglvm/sales-pipeline/internal/stages"
	"github.com/khanglvm/sales-pipeline/internal/storage"
	"github.com/khanglvm/sales-pipeline/internal/telemetry"
	"github.com/khanglvm/sales-pipeline/internal/version"
)

// Globals holds state shared by every subcommand.
type Globals struct {
	ConfigPath string
	Verbose    bool

	// Logger is built by InitLogger. Nil means logging is discarded.
	Logger *zap.Logger

	// Getenv reads environment overrides. Nil means os.Getenv.
	Getenv func(string) string

	level    zap.AtomicLevel
	hasLevel bool
}

// InitLogger builds the production zap logger. --verbose forces debug level.
func (g *Globals) InitLogger() error {
	cfg := zap.NewProductionConfig()
	if g.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	g.Logger = logger
	g.level = cfg.Level
	g.hasLevel = true
	return nil
}

// Sync flushes buffered log entries.
func (g *Globals) Sync() {
	if g.Logger != nil {
		_ = g.Logger.Sync()
	}
}

func (g *Globals) logger() *zap.Logger {
	if g == nil || g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Globals) getenv() func(string) string {
	if g.Getenv != nil {
		return g.Getenv
	}
	return os.Getenv
}

// applyLogLevel lowers or raises the logger to the configured level unless
// --verbose already pinned it to debug.
func (g *Globals) applyLogLevel(level string) {
	if !g.hasLevel || g.Verbose || level == "" {
		return
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return
	}
	g.level.SetLevel(lvl)
}

// loadConfig resolves the config file and environment overrides.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(g.ConfigPath, g.getenv())
	if err != nil {
		return nil, err
	}
	g.applyLogLevel(cfg.LogLevel)
	return cfg, nil
}

// App is the wired pipeline: storage, insight, journal and the stage runner.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   *storage.SQLiteStorage
	Journal *journal.Journal
	Runner  *pipeline.Runner

	shutdownTelemetry telemetry.Shutdown
}

// NewApp loads configuration and wires every collaborator.
func NewApp(ctx context.Context, g *Globals) (*App, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(ctx, cfg, g.logger())
}

func newAppFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	shutdown, err := telemetry.Init(ctx, cfg.Telemetry.Endpoint, cfg.Telemetry.ServiceName, version.Version, cfg.Telemetry.Insecure)
	if err != nil {
		return nil, err
	}

	store := storage.NewStorage(cfg.Storage.DBPath, logger)
	if err := store.Init(); err != nil {
		// The historical stage degrades to 0 without a database.
		logger.Warn("historical sales unavailable", zap.String("db", cfg.Storage.DBPath), zap.Error(err))
	}

	j := journal.New(cfg.Journal.Path, logger)

	runner := stages.NewRunner(stages.Deps{
		Averages: store,
		Insight: stages.InsightConfig{
			DocsDir:  cfg.Insight.DocsDir,
			Mode:     cfg.Insight.Mode,
			Embedder: newEmbedder(cfg.Insight, logger),
			Cache:    store,
			Source:   cfg.Insight.Source,
		},
		Journal: j,
		Logger:  logger,
	})

	return &App{
		Config:            cfg,
		Logger:            logger,
		Store:             store,
		Journal:           j,
		Runner:            runner,
		shutdownTelemetry: shutdown,
	}, nil
}

// newEmbedder returns nil when keyword mode is selected or no API key is set.
func newEmbedder(s config.InsightSettings, logger *zap.Logger) search.Embedder {
	if s.Mode == config.ModeKeyword {
		return nil
	}

	embedder, err := search.NewOpenAIEmbedder(search.OpenAIConfig{
		APIKey:  s.APIKey,
		BaseURL: s.OpenAIBaseURL,
		Model:   s.EmbeddingModel,
	})
	if err != nil {
		logger.Debug("embeddings disabled", zap.Error(err))
		return nil
	}
	return embedder
}

// Close releases the database and flushes telemetry.
func (a *App) Close() error {
	var firstErr error
	if err := a.Store.Close(); err != nil {
		firstErr = err
	}
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
