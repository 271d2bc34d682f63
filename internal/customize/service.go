// Package customize turns customization conversations into configuration
// changes.
//
// Service reads a module's files from the store, asks the LLM for summaries,
// chat replies and finalized CSV content, and runs the write pipeline:
//
//	primary write (user tier)   all-or-nothing, failure fails the call
//	backups                     best effort
//	mirror                      best effort
//	group sync                  best effort, failure reports "skipped"
package customize

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/customizer/internal/ai"
	"github.com/mrz1836/customizer/internal/backup"
	"github.com/mrz1836/customizer/internal/cache"
	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/ctxutil"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/metrics"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/prompts"
	"github.com/mrz1836/customizer/internal/store"
	"github.com/mrz1836/customizer/internal/syncer"
	"github.com/mrz1836/customizer/internal/validation"
)

// LLM call purposes, used as metric labels.
const (
	purposeSummary  = "summary"
	purposeChat     = "chat"
	purposeFinalize = "finalize"
)

// Timeouts bounds each LLM-backed operation.
type Timeouts struct {
	Chat     time.Duration
	Finalize time.Duration
	Summary  time.Duration
}

// DefaultTimeouts returns the chat, finalize and summary defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Chat:     constants.DefaultChatTimeout,
		Finalize: constants.DefaultFinalizeTimeout,
		Summary:  constants.DefaultSummaryTimeout,
	}
}

// Service runs customization operations for one data directory.
type Service struct {
	store     store.Store
	runner    ai.Runner
	engine    *syncer.Engine
	backups   *backup.Writer
	mirror    *backup.Mirror
	cache     cache.Cache
	cacheTTL  time.Duration
	timeouts  Timeouts
	maxTokens int
	parseOpts []csvconfig.Option
	logger    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBackups enables timestamped backups.
func WithBackups(w *backup.Writer) Option {
	return func(s *Service) { s.backups = w }
}

// WithMirror enables the secondary mirror.
func WithMirror(m *backup.Mirror) Option {
	return func(s *Service) { s.mirror = m }
}

// WithCache sets the summary cache and entry lifetime.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithTimeouts overrides the per-operation timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(s *Service) { s.timeouts = t }
}

// WithMaxTokens sets the token cap of chat and finalize calls.
func WithMaxTokens(n int) Option {
	return func(s *Service) { s.maxTokens = n }
}

// WithParseOptions sets the configuration parse options.
func WithParseOptions(opts ...csvconfig.Option) Option {
	return func(s *Service) { s.parseOpts = opts }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. runner may be nil for operations that need no LLM
// (Load, CheckConfig, Apply).
func New(st store.Store, runner ai.Runner, engine *syncer.Engine, opts ...Option) *Service {
	s := &Service{
		store:     st,
		runner:    runner,
		engine:    engine,
		cache:     cache.Noop{},
		cacheTTL:  constants.DefaultSummaryCacheTTL,
		timeouts:  DefaultTimeouts(),
		maxTokens: constants.DefaultMaxTokens,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// layoutEnsurer is implemented by stores that create their directory tree.
type layoutEnsurer interface {
	EnsureLayout(ctx context.Context) error
}

// LoadResult is returned by Load.
type LoadResult struct {
	// Exists reports whether a user-tier copy existed before the call.
	Exists bool                `json:"exists"`
	Tier   domain.Tier         `json:"type"`
	Rows   []*csvconfig.Row    `json:"config"`
	Files  *domain.ConfigFiles `json:"-"`
}

// Load prepares a module for customization: the data layout is created, the
// template is copied into the user tier when needed, and the resolved
// configuration is parsed.
func (s *Service) Load(ctx context.Context, params domain.ConfigParams) (*LoadResult, error) {
	params = params.Normalize()
	if err := validation.Params(params); err != nil {
		return nil, err
	}

	if l, ok := s.store.(layoutEnsurer); ok {
		if err := l.EnsureLayout(ctx); err != nil {
			return nil, err
		}
	}

	exists, err := s.store.UserConfigExists(ctx, params.OrgKey, params.ModuleKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		if _, err := s.store.MaterializeUserCopy(ctx, params); err != nil {
			return nil, err
		}
	}

	files, err := s.store.Read(ctx, params)
	if err != nil {
		return nil, err
	}
	doc, err := csvconfig.Parse(files.ConfigContent, s.parseOpts...)
	if err != nil {
		return nil, err
	}

	return &LoadResult{Exists: exists, Tier: files.Tier, Rows: doc.Rows(), Files: files}, nil
}

// CheckConfig reports whether the user tier has a configuration.
func (s *Service) CheckConfig(ctx context.Context, orgKey, moduleKey string) (bool, error) {
	if err := validation.Keys(orgKey, moduleKey); err != nil {
		return false, err
	}
	return s.store.UserConfigExists(ctx, orgKey, moduleKey)
}

// Summary returns a short business summary of the module's current
// configuration. Summaries are cached per organization, module and content.
func (s *Service) Summary(ctx context.Context, params domain.ConfigParams) (string, error) {
	params = params.Normalize()
	if err := validation.Params(params); err != nil {
		return "", err
	}

	files, err := s.store.Read(ctx, params)
	if err != nil {
		return "", err
	}

	key := cache.SummaryKey(params.OrgKey, params.ModuleKey, files.ConfigContent)
	if cached, ok := s.cachedSummary(ctx, key); ok {
		return cached, nil
	}

	prompt, err := prompts.Render(prompts.Summary, prompts.SummaryData{Config: files.ConfigContent})
	if err != nil {
		return "", err
	}

	text, err := s.call(ctx, purposeSummary, s.timeouts.Summary, ai.NewAIRequest(prompt,
		ai.WithMaxTokens(constants.SummaryMaxTokens),
		ai.WithTemperature(constants.ConversationTemperature),
	))
	if err != nil {
		return "", err
	}

	summary := modulegroup.ReplaceModuleCodes(ExtractContent(text))
	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache summary")
	}
	return summary, nil
}

// Chat answers one requirements-gathering message. history holds earlier
// turns; the reply greets the user only when no assistant turn exists yet.
// Module keys in the reply are replaced by their labels.
func (s *Service) Chat(ctx context.Context, message string, params domain.ConfigParams, history ...domain.ChatMessage) (string, error) {
	params = params.Normalize()
	if err := validation.Params(params); err != nil {
		return "", err
	}
	if message == "" {
		return "", cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"message is required"})
	}

	data := prompts.ConversationData{
		ModuleKey:   params.ModuleKey,
		ModuleLabel: moduleLabel(params.ModuleKey),
		Industry:    params.Industry,
		SubIndustry: params.SubIndustry,
		FirstTurn:   !hasAssistantTurn(history),
		Message:     message,
	}
	if files, err := s.store.Read(ctx, params); err == nil {
		data.Summary, _ = s.cachedSummary(ctx, cache.SummaryKey(params.OrgKey, params.ModuleKey, files.ConfigContent))
	}

	prompt, err := prompts.Render(prompts.Conversation, data)
	if err != nil {
		return "", err
	}

	text, err := s.call(ctx, purposeChat, s.timeouts.Chat, ai.NewAIRequest(prompt,
		ai.WithHistory(history),
		ai.WithMaxTokens(s.maxTokens),
		ai.WithTemperature(constants.ConversationTemperature),
	))
	if err != nil {
		return "", err
	}
	return FormatConversational(modulegroup.ReplaceModuleCodes(ExtractContent(text))), nil
}

// Snapshot is a configuration and codeset pair as shown to the user.
type Snapshot struct {
	Config   string      `json:"config"`
	Codesets string      `json:"codesets"`
	Tier     domain.Tier `json:"type,omitempty"`
}

// FinalizeResult is returned by Finalize.
type FinalizeResult struct {
	CurrentConfig   Snapshot    `json:"currentConfig"`
	ProposedConfig  Snapshot    `json:"proposedConfig"`
	CodesetsChanged bool        `json:"codesetsChanged"`
	Commit          *CommitInfo `json:"commit"`
}

// Finalize turns the conversation into a new configuration: the user turns
// become the requirements, the LLM returns the complete CSV content, and
// the result goes through the write pipeline.
func (s *Service) Finalize(ctx context.Context, history []domain.ChatMessage, params domain.ConfigParams) (*FinalizeResult, error) {
	params = params.Normalize()
	if err := validation.Params(params); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, cerrors.NewValidationError(cerrors.ErrMissingParameters,
			[]string{"conversationHistory is required"})
	}

	current, err := s.store.Read(ctx, params)
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.Render(prompts.Finalize, prompts.FinalizeData{
		ModuleKey:       params.ModuleKey,
		ModuleLabel:     moduleLabel(params.ModuleKey),
		Industry:        params.Industry,
		SubIndustry:     params.SubIndustry,
		OrgKey:          params.OrgKey,
		CurrentConfig:   current.ConfigContent,
		CurrentCodesets: current.CodesetContent,
		Requirements:    RequirementsSummary(history),
	})
	if err != nil {
		return nil, err
	}
	system, err := prompts.Render(prompts.System, nil)
	if err != nil {
		return nil, err
	}

	text, err := s.call(ctx, purposeFinalize, s.timeouts.Finalize, ai.NewAIRequest(prompt,
		ai.WithSystemPrompt(system),
		ai.WithMaxTokens(s.maxTokens),
		ai.WithTemperature(constants.FinalizeTemperature),
	))
	if err != nil {
		return nil, err
	}

	proposal, err := ParseResponse(ExtractContent(text), params.OrgKey)
	if err != nil {
		s.logger.Error().Err(err).Str("module_key", params.ModuleKey).Msg("unparsable finalization response")
		return nil, err
	}
	proposal.CompareCodesets(current.CodesetContent)

	userCodesets, err := s.ensureUserCopy(ctx, params, current)
	if err != nil {
		return nil, err
	}

	codesets := ""
	if proposal.CodesetsChanged {
		codesets = proposal.Codesets
	}
	commit, err := s.commit(ctx, params, proposal.Configuration, codesets, current, sourceFinalize)
	if err != nil {
		return nil, err
	}

	proposed := Snapshot{Config: commit.Config, Codesets: userCodesets}
	if commit.Codesets != "" {
		proposed.Codesets = commit.Codesets
	}
	return &FinalizeResult{
		CurrentConfig: Snapshot{
			Config:   current.ConfigContent,
			Codesets: current.CodesetContent,
			Tier:     current.Tier,
		},
		ProposedConfig:  proposed,
		CodesetsChanged: proposal.CodesetsChanged,
		Commit:          commit,
	}, nil
}

// Apply writes a configuration reviewed by the user through the same
// pipeline as Finalize, without an LLM call. An empty codesets leaves the
// codeset file untouched.
func (s *Service) Apply(ctx context.Context, params domain.ConfigParams, config, codesets string) (*CommitInfo, error) {
	params = params.Normalize()
	if err := validation.Params(params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(config) == "" {
		return nil, cerrors.NewValidationError(cerrors.ErrMissingParameters, []string{"config is required"})
	}

	current, err := s.store.Read(ctx, params)
	if err != nil && !errors.Is(err, cerrors.ErrNoConfigurationFound) {
		return nil, err
	}
	if _, err := s.ensureUserCopy(ctx, params, current); err != nil {
		return nil, err
	}
	return s.commit(ctx, params, config, codesets, current, sourceApply)
}

// ensureUserCopy copies the templates behind current into the user tier
// before a write, so a config-only write does not leave the organization
// without its codesets. It returns the codeset content the user tier holds.
func (s *Service) ensureUserCopy(ctx context.Context, params domain.ConfigParams, current *domain.ConfigFiles) (string, error) {
	if current == nil {
		return "", nil
	}
	if current.Tier == domain.TierUser {
		return current.CodesetContent, nil
	}

	if _, err := s.store.MaterializeUserCopy(ctx, params); err != nil {
		return "", err
	}
	files, err := s.store.Read(ctx, params)
	if err != nil {
		return "", err
	}
	return files.CodesetContent, nil
}

// call renders one LLM request under timeout and records its metrics.
func (s *Service) call(ctx context.Context, purpose string, timeout time.Duration, req *domain.AIRequest) (string, error) {
	if s.runner == nil {
		return "", cerrors.ErrAPIKeyMissing
	}

	ctx, cancel := ctxutil.WithTimeout(ctx, timeout)
	defer cancel()
	req.Timeout = timeout

	start := time.Now()
	result, err := s.runner.Run(ctx, req)
	if err != nil {
		metrics.RecordLLMCall(purpose, time.Since(start), 0, 0, err)
		s.logger.Error().Err(err).Str("purpose", purpose).Dur("elapsed", time.Since(start)).Msg("llm call failed")
		return "", ctxutil.MapTimeout(err)
	}
	metrics.RecordLLMCall(purpose, time.Since(start), result.InputTokens, result.OutputTokens, nil)

	s.logger.Debug().
		Str("purpose", purpose).
		Str("model", result.Model).
		Int("attempts", result.Attempts).
		Int64("duration_ms", result.DurationMs).
		Msg("llm call completed")
	return result.Output, nil
}

func (s *Service) cachedSummary(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("summary cache lookup failed")
		return "", false
	}
	metrics.RecordCacheLookup(ok)
	return v, ok
}

func moduleLabel(key string) string {
	if !modulegroup.IsModuleCode(key) {
		return ""
	}
	return modulegroup.Label(key)
}

func hasAssistantTurn(history []domain.ChatMessage) bool {
	for _, m := range history {
		if m.Role == domain.RoleAssistant {
			return true
		}
	}
	return false
}
