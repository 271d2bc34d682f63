package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/clock"
	"github.com/mrz1836/customizer/internal/codeset"
	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/csvconfig"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/store"
)

func testRegistry() modulegroup.Registry {
	return modulegroup.MustRegistry(modulegroup.Group{
		ID:   "STAFF",
		Name: "Staff",
		Members: []modulegroup.Member{
			{Key: "FM_STAFF_MASTER", Name: "Staff Master", Kind: modulegroup.KindMaster},
			{Key: "FM_STAFF_ATTENDANCE", Name: "Attendance", Kind: modulegroup.KindUpdates},
			{Key: "FM_STAFF_EXPENSE", Name: "Expense", Kind: modulegroup.KindTransactions},
		},
	})
}

func seedBase(t *testing.T, root, module, content string) {
	t.Helper()
	dir := filepath.Join(root, constants.ConfigurationsDir, constants.BaseConfigurationsDir, module)
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.ConfigFileName), []byte(content), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, constants.CodesetFileName), []byte("codeset,Type,application,Name,FIELDMOBI_DEFAULT,\n"), 0o600))
}

func masterParams() domain.ConfigParams {
	return domain.ConfigParams{OrgKey: "acme", UserKey: "ops@acme.io", ModuleKey: "FM_STAFF_MASTER", Industry: "retail"}
}

func masterConfig() string {
	return configText("Staff Master",
		field{code: "fieldCode001", typ: "GEN", data: "EMP_ID", label: "Employee ID", marker: "CHANGE"},
		field{code: "fieldCode002", typ: "CAT", data: "SHIFT_TYPE", label: "Shift Type", listType: "CODESET", listValue: "SHIFT", marker: "NEW"},
	)
}

// TestEngine_Run tests propagation to every sibling through the store.
func TestEngine_Run(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st := store.NewFileStore(root)
	sibling := configText("Sibling",
		field{code: "fieldCode001", typ: "GEN", data: "EMP_ID", label: "Emp Code", marker: "NONE"},
		field{code: "fieldCode002", typ: "DAT", data: "DAY", label: "Day", marker: "NONE"},
	)
	seedBase(t, root, "FM_STAFF_ATTENDANCE", sibling)
	seedBase(t, root, "FM_STAFF_EXPENSE", sibling)

	engine := NewEngine(st, testRegistry())
	seed := domain.SyncConfig{Config: masterConfig(), Codesets: "codeset,Type,application,Name,acme,\n"}

	result, err := engine.Run(ctx, masterParams(), seed)
	require.NoError(t, err)
	assert.True(t, result.Grouped)
	assert.Equal(t, "Staff", result.Group)
	assert.Equal(t, []string{"FM_STAFF_ATTENDANCE", "FM_STAFF_EXPENSE"}, result.SyncedKeys())
	assert.NotEmpty(t, result.RunID)

	for _, key := range result.SyncedKeys() {
		files, err := st.Read(ctx, masterParams().WithModule(key))
		require.NoError(t, err)
		assert.Equal(t, domain.TierUser, files.Tier)
		assert.Equal(t, seed.Codesets, files.CodesetContent)

		doc, err := csvconfig.Parse(files.ConfigContent)
		require.NoError(t, err)
		rows := doc.Rows()
		require.Len(t, rows, 3)
		assert.Equal(t, "Employee ID", rows[0].Label)
		assert.Equal(t, csvconfig.MarkerChange, rows[0].Marker())
		assert.Equal(t, "SHIFT_TYPE", rows[2].Data)
		assert.Equal(t, "fieldCode003", rows[2].FieldCode)
		assert.Equal(t, csvconfig.MarkerNew, rows[2].Marker())

		module := doc.ModuleLine()
		assert.Equal(t, constants.CustomizationLabel, module[1])
		assert.Equal(t, "acme", module[2])
		assert.Equal(t, "Sibling", module[3], "sibling keeps its own header")
	}

	// base templates are never written
	data, err := os.ReadFile(filepath.Join(root, constants.ConfigurationsDir, constants.BaseConfigurationsDir, //#nosec G304 -- test path
		"FM_STAFF_ATTENDANCE", constants.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, sibling, string(data))
}

// TestEngine_RunIdempotent tests that a repeated sync leaves siblings unchanged.
func TestEngine_RunIdempotent(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st := store.NewFileStore(root)
	seedBase(t, root, "FM_STAFF_ATTENDANCE", configText("Attendance",
		field{code: "fieldCode001", typ: "GEN", data: "EMP_ID", label: "Emp Code", marker: "NONE"},
	))
	seedBase(t, root, "FM_STAFF_EXPENSE", configText("Expense",
		field{code: "fieldCode001", typ: "GEN", data: "EMP_ID", label: "Emp Code", marker: "NONE"},
	))
	engine := NewEngine(st, testRegistry())
	seed := domain.SyncConfig{Config: masterConfig()}

	_, err := engine.Run(ctx, masterParams(), seed)
	require.NoError(t, err)
	first, err := st.Read(ctx, masterParams().WithModule("FM_STAFF_ATTENDANCE"))
	require.NoError(t, err)

	result, err := engine.Run(ctx, masterParams(), seed)
	require.NoError(t, err)
	for _, m := range result.Modules {
		assert.True(t, m.Diff.Empty(), m.ModuleKey)
	}
	second, err := st.Read(ctx, masterParams().WithModule("FM_STAFF_ATTENDANCE"))
	require.NoError(t, err)
	assert.Equal(t, first.ConfigContent, second.ConfigContent)
	assert.Equal(t, "codeset,Type,application,Name,acme,\n", second.CodesetContent,
		"empty seed codesets keep the sibling's own, stamped with the org key")
}

// TestEngine_RunStampsSiblingCodesets tests that template codesets carried
// into the user tier by a sync hold the organization key.
func TestEngine_RunStampsSiblingCodesets(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	st := store.NewFileStore(root)
	seedBase(t, root, "FM_STAFF_ATTENDANCE", masterConfig())
	seedBase(t, root, "FM_STAFF_EXPENSE", masterConfig())

	_, err := NewEngine(st, testRegistry()).Run(ctx, masterParams(), domain.SyncConfig{Config: masterConfig()})
	require.NoError(t, err)

	for _, key := range []string{"FM_STAFF_ATTENDANCE", "FM_STAFF_EXPENSE"} {
		files, err := st.Read(ctx, masterParams().WithModule(key))
		require.NoError(t, err)
		assert.Equal(t, domain.TierUser, files.Tier)
		require.NoError(t, codeset.VerifyHeader(files.CodesetContent, "acme"), key)
	}
}

// TestEngine_NotGrouped tests that ungrouped modules are a no-op.
func TestEngine_NotGrouped(t *testing.T) {
	engine := NewEngine(store.NewFileStore(t.TempDir()), testRegistry())
	params := masterParams().WithModule("FM_LONE_MODULE")

	result, err := engine.Run(context.Background(), params, domain.SyncConfig{Config: "not parsed"})
	require.NoError(t, err)
	assert.False(t, result.Grouped)
	assert.Empty(t, result.Modules)

	_, ok := engine.Summary(params)
	assert.False(t, ok)
}

// TestEngine_RunErrors tests failure wrapping.
func TestEngine_RunErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid source", func(t *testing.T) {
		engine := NewEngine(store.NewFileStore(t.TempDir()), testRegistry())
		_, err := engine.Run(ctx, masterParams(), domain.SyncConfig{Config: "garbage"})
		require.ErrorIs(t, err, cerrors.ErrGroupSyncFailed)
		require.ErrorIs(t, err, cerrors.ErrMalformedDocument)
	})

	t.Run("missing sibling", func(t *testing.T) {
		root := t.TempDir()
		seedBase(t, root, "FM_STAFF_ATTENDANCE", configText("Attendance",
			field{code: "fieldCode001", typ: "GEN", data: "EMP_ID", label: "Emp Code", marker: "NONE"},
		))
		engine := NewEngine(store.NewFileStore(root), testRegistry())

		_, err := engine.Run(ctx, masterParams(), domain.SyncConfig{Config: masterConfig()})
		require.ErrorIs(t, err, cerrors.ErrGroupSyncFailed)
		require.ErrorIs(t, err, cerrors.ErrNoConfigurationFound)
		assert.Contains(t, err.Error(), "FM_STAFF_EXPENSE")
	})

	t.Run("store failure", func(t *testing.T) {
		boom := errors.New("disk full")
		engine := NewEngine(&failingStore{err: boom}, testRegistry())
		_, err := engine.Run(ctx, masterParams(), domain.SyncConfig{Config: masterConfig()})
		require.ErrorIs(t, err, cerrors.ErrGroupSyncFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		engine := NewEngine(store.NewFileStore(t.TempDir()), testRegistry())
		_, err := engine.Run(canceled, masterParams(), domain.SyncConfig{Config: masterConfig()})
		require.ErrorIs(t, err, context.Canceled)
	})
}

// TestEngine_Summary tests group summaries.
func TestEngine_Summary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(store.NewFileStore(t.TempDir()), testRegistry(), WithClock(clock.Fixed(now)))

	summary, ok := engine.Summary(masterParams().WithModule("FM_STAFF_EXPENSE"))
	require.True(t, ok)
	assert.Equal(t, Summary{
		GroupName:     "Staff",
		ModuleType:    "TRANSACTIONS",
		SyncedModules: []string{"FM_STAFF_MASTER", "FM_STAFF_ATTENDANCE"},
		Timestamp:     now,
	}, summary)
}

type failingStore struct {
	store.Store

	err error
}

func (f *failingStore) Update(context.Context, domain.ConfigParams, store.UpdateFunc) error {
	return f.err
}
