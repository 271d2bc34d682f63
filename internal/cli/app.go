package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/customizer/internal/ai"
	"github.com/mrz1836/customizer/internal/backup"
	"github.com/mrz1836/customizer/internal/cache"
	"github.com/mrz1836/customizer/internal/config"
	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/customize"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/logging"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/store"
	"github.com/mrz1836/customizer/internal/syncer"
	"github.com/mrz1836/customizer/internal/tui"
)

// redisPingTimeout bounds the startup check of a redis cache.
const redisPingTimeout = 2 * time.Second

// app is the set of components built from the loaded configuration.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     *store.FileStore
	registry  modulegroup.Registry
	engine    *syncer.Engine
	backups   *backup.Writer
	cache     cache.Cache
	parseOpts []csvconfig.Option
	svc       *customize.Service
}

// appOption configures newApp.
type appOption func(*appSettings)

type appSettings struct {
	needsRunner bool
}

// withLLM builds an LLM client from the environment. A missing API key is
// not an error here; LLM-backed operations fail with ErrAPIKeyMissing.
func withLLM() appOption {
	return func(s *appSettings) { s.needsRunner = true }
}

// output returns the output for the invoking command.
func (s *session) output(cmd *cobra.Command) tui.Output {
	return newOutput(cmd.OutOrStdout(), s.flags)
}

// newApp wires store, registry, sync engine, cache, backups and service.
func (s *session) newApp(ctx context.Context, opts ...appOption) (*app, error) {
	if s.cfg == nil {
		return nil, cerrors.ErrConfigNil
	}
	cfg := s.cfg
	logger := GetLogger()

	var settings appSettings
	for _, opt := range opts {
		opt(&settings)
	}

	policy, err := csvconfig.ParseColumnPolicy(cfg.Storage.ColumnPolicy)
	if err != nil {
		return nil, err
	}
	parseOpts := []csvconfig.Option{csvconfig.WithColumnPolicy(policy)}

	registry := modulegroup.Default()
	if cfg.Storage.GroupsFile != "" {
		if registry, err = modulegroup.LoadFile(cfg.Storage.GroupsFile); err != nil {
			return nil, err
		}
	}

	st := store.NewFileStore(cfg.Storage.DataDir,
		store.WithLockTimeout(cfg.Storage.LockTimeout),
		store.WithLogger(logger),
	)
	engine := syncer.NewEngine(st, registry,
		syncer.WithLogger(logger),
		syncer.WithParseOptions(parseOpts...),
	)

	runner := s.runner
	if runner == nil && settings.needsRunner {
		if runner, err = newRunner(cfg, logger); err != nil {
			return nil, err
		}
	}

	c := newCache(ctx, cfg.Cache, logger)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		registry:  registry,
		engine:    engine,
		cache:     c,
		parseOpts: parseOpts,
	}

	svcOpts := []customize.Option{
		customize.WithCache(c, cfg.Cache.TTL),
		customize.WithTimeouts(customize.Timeouts{
			Chat:     cfg.Server.ChatTimeout,
			Finalize: cfg.Server.FinalizeTimeout,
			Summary:  cfg.Server.SummaryTimeout,
		}),
		customize.WithMaxTokens(cfg.AI.MaxTokens),
		customize.WithParseOptions(parseOpts...),
		customize.WithLogger(logger),
	}
	if cfg.Backup.Enabled {
		a.backups = backup.NewWriter(cfg.BackupConfigDir(), cfg.BackupCodesetDir(),
			backup.WithRetention(cfg.Backup.Retention),
			backup.WithLogger(logger),
		)
		svcOpts = append(svcOpts, customize.WithBackups(a.backups))
	}
	if cfg.Backup.MirrorDir != "" {
		svcOpts = append(svcOpts, customize.WithMirror(backup.NewMirror(cfg.Backup.MirrorDir, logger)))
	}

	a.svc = customize.New(st, runner, engine, svcOpts...)
	return a, nil
}

// Close releases the cache.
func (a *app) Close() error {
	return a.cache.Close()
}

// closeApp closes a and logs a failure.
func closeApp(a io.Closer, logger zerolog.Logger) {
	if err := a.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close cache")
	}
}

// newRunner creates the LLM client, or nil when no API key is set.
func newRunner(cfg *config.Config, logger zerolog.Logger) (ai.Runner, error) {
	client, err := ai.NewClientFromEnv(cfg.AI.APIKeyEnvVar,
		ai.WithBaseURL(cfg.AI.BaseURL),
		ai.WithDefaultModel(cfg.AI.Model),
		ai.WithDefaultMaxTokens(cfg.AI.MaxTokens),
		ai.WithRateLimit(cfg.AI.RequestsPerSecond, cfg.AI.Burst),
		ai.WithRetry(cfg.AI.MaxRetries, cfg.AI.Timeout),
		ai.WithClientLogger(logger),
	)
	switch {
	case errors.Is(err, cerrors.ErrAPIKeyMissing):
		logger.Debug().Str("env_var", cfg.AI.APIKeyEnvVar).Msg("no api key, llm operations disabled")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	return client, nil
}

// newCache creates the summary cache. An unreachable redis falls back to
// the in-memory cache.
func newCache(ctx context.Context, cc config.CacheConfig, logger zerolog.Logger) cache.Cache {
	c, err := cache.New(cc)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid cache configuration, using memory cache")
		return cache.NewMemory()
	}

	if r, ok := c.(*cache.Redis); ok {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			logger.Warn().Err(err).Str("addr", logging.SafeValue("redis_addr", cc.RedisAddr)).Msg("redis unreachable, using memory cache")
			_ = r.Close()
			return cache.NewMemory()
		}
	}
	return c
}
