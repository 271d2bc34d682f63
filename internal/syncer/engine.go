package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/customizer/internal/clock"
	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/ctxutil"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/store"
)

// ModuleResult is the outcome for one sibling module.
type ModuleResult struct {
	ModuleKey string `json:"moduleKey"`
	Name      string `json:"name"`
	Diff      Diff   `json:"diff"`
}

// Result is the outcome of one group sync.
type Result struct {
	RunID   string         `json:"runId"`
	Grouped bool           `json:"grouped"`
	Group   string         `json:"group,omitempty"`
	Modules []ModuleResult `json:"modules,omitempty"`
	Elapsed time.Duration  `json:"elapsed"`
}

// SyncedKeys returns the module keys that were written.
func (r *Result) SyncedKeys() []string {
	keys := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		keys = append(keys, m.ModuleKey)
	}
	return keys
}

// Summary describes a module's group without running a sync.
type Summary struct {
	GroupName     string    `json:"groupName"`
	ModuleType    string    `json:"moduleType"`
	SyncedModules []string  `json:"syncedModules"`
	Timestamp     time.Time `json:"timestamp"`
}

// Engine runs group syncs against a store.
type Engine struct {
	store     store.Store
	registry  modulegroup.Registry
	logger    zerolog.Logger
	clock     clock.Clock
	parseOpts []csvconfig.Option
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the clock used for summaries.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithParseOptions sets the options used to parse configuration documents.
func WithParseOptions(opts ...csvconfig.Option) EngineOption {
	return func(e *Engine) { e.parseOpts = opts }
}

// NewEngine creates an Engine. The registry is copied in and never changes.
func NewEngine(st store.Store, registry modulegroup.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		store:    st,
		registry: registry,
		logger:   zerolog.Nop(),
		clock:    clock.RealClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's group registry.
func (e *Engine) Registry() modulegroup.Registry {
	return e.registry
}

// Run propagates seed, the new configuration of params.ModuleKey, to every
// sibling in the module's group, one sibling at a time. Each sibling is
// read, updated with Apply and written back under its own header lines.
// Sibling codesets are replaced by seed.Codesets when it is non-empty;
// either way their header rows are stamped with params.OrgKey.
//
// An ungrouped module returns a Result with Grouped false. The first sibling
// failure aborts the run with an error wrapping ErrGroupSyncFailed; siblings
// written before it keep their new content.
func (e *Engine) Run(ctx context.Context, params domain.ConfigParams, seed domain.SyncConfig) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	start := time.Now()

	result := &Result{RunID: "sync-" + uuid.New().String()[:8]}
	group, siblings, ok := e.registry.Lookup(params.ModuleKey)
	if !ok {
		e.logger.Debug().Str("module_key", params.ModuleKey).Msg("module not grouped, sync skipped")
		return result, nil
	}
	result.Grouped = true
	result.Group = group.Name

	log := e.logger.With().
		Str("run_id", result.RunID).
		Str("group", group.Name).
		Str("source_module", params.ModuleKey).
		Logger()

	source, err := csvconfig.Parse(seed.Config, e.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: parse source: %w", cerrors.ErrGroupSyncFailed, err)
	}

	for _, sib := range siblings {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", cerrors.ErrGroupSyncFailed, err)
		}

		var diff Diff
		sibParams := params.WithModule(sib.Key)
		err := e.store.Update(ctx, sibParams, func(current *domain.ConfigFiles) (string, string, error) {
			target, err := csvconfig.Parse(current.ConfigContent, e.parseOpts...)
			if err != nil {
				return "", "", err
			}

			var updated *csvconfig.Document
			updated, diff = Apply(source, target)

			codesets := seed.Codesets
			if codesets == "" {
				codesets = current.CodesetContent
			}
			if codesets != "" {
				codesets = codeset.ApplyOrgKey(codesets, params.OrgKey)
			}
			return csvconfig.Serialize(updated, params.OrgKey), codesets, nil
		})
		if err != nil {
			log.Error().Err(err).Str("module_key", sib.Key).Msg("sibling sync failed")
			return nil, fmt.Errorf("%w: module %s: %w", cerrors.ErrGroupSyncFailed, sib.Key, err)
		}

		log.Info().
			Str("module_key", sib.Key).
			Int("appended", len(diff.Appended)).
			Int("changed", len(diff.Changed)).
			Msg("sibling synced")
		result.Modules = append(result.Modules, ModuleResult{ModuleKey: sib.Key, Name: sib.Name, Diff: diff})
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// Summary reports the group of params.ModuleKey. ok is false when ungrouped.
func (e *Engine) Summary(params domain.ConfigParams) (Summary, bool) {
	group, siblings, ok := e.registry.Lookup(params.ModuleKey)
	if !ok {
		return Summary{}, false
	}

	member, _ := group.Member(params.ModuleKey)
	keys := make([]string, len(siblings))
	for i, s := range siblings {
		keys[i] = s.Key
	}
	return Summary{
		GroupName:     group.Name,
		ModuleType:    string(member.Kind),
		SyncedModules: keys,
		Timestamp:     e.clock.Now(),
	}, true
}
