package customize

import (
	"context"
	"strings"

	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/metrics"
)

// Write sources, used as metric labels.
const (
	sourceFinalize = "finalize"
	sourceApply    = "apply"
)

// CommitInfo describes one run of the write pipeline.
type CommitInfo struct {
	// Config is the configuration as written.
	Config string `json:"config"`

	// Codesets is the codeset file as written, empty when it was left alone.
	Codesets string `json:"codesets,omitempty"`

	Backups   []string               `json:"backups,omitempty"`
	Mirrored  bool                   `json:"mirrored"`
	GroupSync domain.GroupSyncReport `json:"groupSync"`

	// Warnings lists structural problems found in the written content.
	// They never block the write.
	Warnings []string `json:"warnings,omitempty"`
}

// commit normalizes config and codesets for the organization and writes
// them: the primary write decides the outcome, backups, mirror and group
// sync only add to the report. current, when non-nil, is the content being
// replaced and is used to check NEVER rows.
func (s *Service) commit(ctx context.Context, params domain.ConfigParams, config, codesets string,
	current *domain.ConfigFiles, source string,
) (*CommitInfo, error) {
	log := s.logger.With().
		Str("org_key", params.OrgKey).
		Str("module_key", params.ModuleKey).
		Str("source", source).
		Logger()

	doc, err := csvconfig.Parse(config, s.parseOpts...)
	if err != nil {
		return nil, err
	}
	info := &CommitInfo{Config: csvconfig.Serialize(doc, params.OrgKey)}

	info.Warnings = append(info.Warnings, cerrors.Details(csvconfig.ValidateStructure(doc))...)
	if current != nil && current.ConfigContent != "" {
		if before, err := csvconfig.Parse(current.ConfigContent, s.parseOpts...); err == nil {
			info.Warnings = append(info.Warnings, cerrors.Details(csvconfig.ValidateNeverRows(before, doc))...)
		}
	}

	if strings.TrimSpace(codesets) != "" {
		info.Codesets, err = normalizeCodesets(codesets, params.OrgKey)
		if err != nil {
			info.Warnings = append(info.Warnings, err.Error())
		}
	}

	if err := s.store.Write(ctx, params, info.Config, info.Codesets); err != nil {
		log.Error().Err(err).Msg("primary write failed")
		return nil, err
	}
	metrics.ConfigWrites.WithLabelValues(source).Inc()
	log.Info().
		Bool("codesets_written", info.Codesets != "").
		Int("warnings", len(info.Warnings)).
		Msg("configuration written")

	if s.backups != nil && params.UserKey != "" {
		info.Backups = s.backups.WriteBackups(ctx, params, info.Config, info.Codesets)
		want := 1
		if info.Codesets != "" {
			want++
		}
		if len(info.Backups) < want {
			metrics.BackupFailures.WithLabelValues("backup").Inc()
		}
	}

	if s.mirror != nil {
		if err := s.mirror.Write(ctx, params, info.Config, info.Codesets); err != nil {
			metrics.BackupFailures.WithLabelValues("mirror").Inc()
		} else {
			info.Mirrored = true
		}
	}

	info.GroupSync = s.syncGroup(ctx, params, domain.SyncConfig{Config: info.Config, Codesets: info.Codesets})
	return info, nil
}

// syncGroup propagates a written configuration to the module's group. A
// failure is reported as skipped and never returned.
func (s *Service) syncGroup(ctx context.Context, params domain.ConfigParams, seed domain.SyncConfig) domain.GroupSyncReport {
	if s.engine == nil {
		return domain.GroupSyncReport{Status: domain.GroupSyncNotGrouped}
	}

	result, err := s.engine.Run(ctx, params, seed)
	if err != nil {
		report := domain.GroupSyncReport{Status: domain.GroupSyncSkipped, Reason: err.Error()}
		if summary, ok := s.engine.Summary(params); ok {
			report.GroupName = summary.GroupName
		}
		s.logger.Warn().Err(err).
			Str("module_key", params.ModuleKey).
			Msg("group sync skipped")
		metrics.RecordGroupSync(string(domain.GroupSyncSkipped), 0)
		return report
	}

	if !result.Grouped {
		metrics.RecordGroupSync(string(domain.GroupSyncNotGrouped), 0)
		return domain.GroupSyncReport{Status: domain.GroupSyncNotGrouped}
	}

	synced := result.SyncedKeys()
	metrics.RecordGroupSync(string(domain.GroupSyncCompleted), len(synced))
	s.logger.Info().
		Str("run_id", result.RunID).
		Str("group", result.Group).
		Strs("modules", synced).
		Dur("elapsed", result.Elapsed).
		Msg("group sync completed")
	return domain.GroupSyncReport{
		Status:        domain.GroupSyncCompleted,
		GroupName:     result.Group,
		SyncedModules: synced,
	}
}

// normalizeCodesets rewrites codeset content into its stored form for
// orgKey. When the content cannot be parsed only the header cells are
// rewritten and the parse problem is returned alongside.
func normalizeCodesets(raw, orgKey string) (string, error) {
	doc, err := codeset.Parse(raw)
	if err != nil {
		return codeset.ApplyOrgKey(raw, orgKey), err
	}
	out := codeset.Serialize(doc, orgKey)
	if err := codeset.VerifyHeader(out, orgKey); err != nil {
		return out, err
	}
	return out, nil
}
