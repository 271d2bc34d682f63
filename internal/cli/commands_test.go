package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/customize"
	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
	"github.com/mrz1836/customizer/internal/modulegroup"
	"github.com/mrz1836/customizer/internal/store"
	"github.com/mrz1836/customizer/internal/syncer"
	"github.com/mrz1836/customizer/internal/testutil"
)

const (
	workforceMaster     = "FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL"
	workforceAttendance = "FM_WORKFORCE_UPDATE_ATTENDANCELITE_ALL"
	workforceExpense    = "FM_WORKFORCE_UPDATE_EXPENSELITE_ALL"
	ungroupedModule     = "FM_SYSADMIN_OBJECT_TEAMSLITE_ADMIN"
)

func masterTemplate() string {
	return testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Emp Code", "NONE"),
		testutil.Row("fieldCode002", "DAT", "HIRED", "Hired", "NEVER"),
	)
}

// seedWorkforce writes base templates for every member of the workforce group.
func seedWorkforce(t *testing.T, dataDir string) {
	t.Helper()
	testutil.SeedBase(t, dataDir, workforceMaster, masterTemplate())
	sibling := testutil.ConfigCSV("Sibling", testutil.Row("fieldCode001", "GEN", "EMP_ID", "Emp Code", "NONE"))
	testutil.SeedBase(t, dataDir, workforceAttendance, sibling)
	testutil.SeedBase(t, dataDir, workforceExpense, sibling)
}

func moduleArgs(dataDir, module string, extra ...string) []string {
	args := []string{"--data-dir", dataDir, "--org", "acme", "--module", module, "--industry", "retail"}
	return append(args, extra...)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func finalizeResponse() string {
	config := testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Employee ID", "CHANGE"),
		testutil.Row("fieldCode002", "DAT", "HIRED", "Hired", "NEVER"),
		testutil.Row("fieldCode003", "TAG", "BADGE", "Badge", "NEW"),
	)
	return "Here is the result.\nCONFIGURATION:\n" + config +
		"\nCODESETS:\n" + testutil.BaseCodesets +
		"CODESETS_CHANGED: false\n"
}

func TestResolveCommand(t *testing.T) {
	dataDir := testEnv(t)
	testutil.SeedBase(t, dataDir, workforceMaster, masterTemplate())

	out, err := runCLI(t, nil, "", append([]string{"resolve", "--output", "json"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	var res store.Resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.TierBase, res.Tier)

	testutil.SeedIndustry(t, dataDir, "retail", workforceMaster, masterTemplate())
	out, err = runCLI(t, nil, "", append([]string{"resolve"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "resolves from the industry tier")
	assert.Contains(t, out, filepath.Join("industry-configurations", "retail", workforceMaster, constants.ConfigFileName))

	out, err = runCLI(t, nil, "", append([]string{"resolve", "--output", "json"}, moduleArgs(dataDir, "Workforce Master")...)...)
	require.NoError(t, err, "a catalog label selects its module")
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.TierIndustry, res.Tier)
}

func TestResolveCommand_Errors(t *testing.T) {
	dataDir := testEnv(t)

	_, err := runCLI(t, nil, "", "resolve", "--data-dir", dataDir, "--org", "acme")
	require.ErrorIs(t, err, cerrors.ErrMissingParameters)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	_, err = runCLI(t, nil, "", append([]string{"resolve"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrNoConfigurationFound)
}

func TestShowCommand(t *testing.T) {
	dataDir := testEnv(t)
	testutil.SeedBase(t, dataDir, workforceMaster, masterTemplate())

	out, err := runCLI(t, nil, "", append([]string{"show", "--raw"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	assert.Equal(t, masterTemplate(), out)

	out, err = runCLI(t, nil, "", append([]string{"show", "--prepare"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "copied the base template into the user tier")
	assert.Contains(t, out, "EMP_ID")
	assert.Contains(t, out, "NEVER")
	assert.FileExists(t, filepath.Join(dataDir, constants.UsersDir, "acme", workforceMaster, constants.ConfigFileName))

	out, err = runCLI(t, nil, "", append([]string{"show", "--output", "json"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	var payload struct {
		Type   domain.Tier      `json:"type"`
		Config []map[string]any `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, domain.TierUser, payload.Type)
	assert.Len(t, payload.Config, 2)
}

func TestValidateCommand(t *testing.T) {
	dataDir := testEnv(t)
	before := writeTemp(t, "before.csv", masterTemplate())

	out, err := runCLI(t, nil, "", "validate", "--data-dir", dataDir, before)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	edited := writeTemp(t, "after.csv", testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Emp Code", "NONE"),
		testutil.Row("fieldCode002", "DAT", "HIRED", "Start Date", "NEVER"),
	))
	out, err = runCLI(t, nil, "", "validate", "--data-dir", dataDir, "--output", "json", edited, "--against", before)
	require.ErrorIs(t, err, cerrors.ErrValidationFailed)
	assert.Equal(t, ExitError, ExitCodeForError(err))

	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.Contains(t, report.Problems, "NEVER field fieldCode002 was modified")
}

func TestValidateCommand_Codesets(t *testing.T) {
	dataDir := testEnv(t)
	config := writeTemp(t, "config.csv", masterTemplate())
	codesets := writeTemp(t, "codesetvalues.csv", testutil.BaseCodesets)

	out, err := runCLI(t, nil, "", "validate", "--data-dir", dataDir, config, "--codesets", codesets, "--org", "acme")
	require.ErrorIs(t, err, cerrors.ErrValidationFailed)
	assert.Contains(t, out, "⚠")

	_, err = runCLI(t, nil, "", "validate", "--data-dir", dataDir, config, "--codesets", codesets)
	require.NoError(t, err)
}

func TestValidateCommand_Stdin(t *testing.T) {
	dataDir := testEnv(t)

	out, err := runCLI(t, nil, masterTemplate(), "validate", "--data-dir", dataDir, "-")
	require.NoError(t, err)
	assert.Contains(t, out, "- is valid")
}

func TestSyncCommand(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	testutil.SeedUser(t, dataDir, "acme", workforceMaster, testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Employee ID", "CHANGE"),
		testutil.Row("fieldCode002", "TAG", "BADGE", "Badge", "NEW"),
	), testutil.BaseCodesets)

	out, err := runCLI(t, nil, "", append([]string{"sync"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, workforceAttendance)
	assert.Contains(t, out, workforceExpense)
	assert.Contains(t, out, "synced 2 module(s) of group Workforce Management")

	files, err := store.NewFileStore(dataDir).Read(t.Context(), domain.ConfigParams{
		OrgKey: "acme", ModuleKey: workforceExpense, Industry: "retail",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TierUser, files.Tier)
	assert.Contains(t, files.ConfigContent, "Employee ID")
	assert.Contains(t, files.ConfigContent, "BADGE")
}

func TestSyncCommand_JSONFromFile(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	from := writeTemp(t, "seed.csv", testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Staff Number", "CHANGE"),
	))

	out, err := runCLI(t, nil, "", append([]string{"sync", "--output", "json", "--from", from}, moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)

	var result syncer.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Grouped)
	assert.Equal(t, "Workforce Management", result.Group)
	require.Len(t, result.Modules, 2)

	exists, err := store.NewFileStore(dataDir).UserConfigExists(t.Context(), "acme", workforceMaster)
	require.NoError(t, err)
	assert.False(t, exists, "--from leaves the source module alone")
}

func TestSyncCommand_Ungrouped(t *testing.T) {
	dataDir := testEnv(t)
	testutil.SeedBase(t, dataDir, ungroupedModule, masterTemplate())

	out, err := runCLI(t, nil, "", append([]string{"sync"}, moduleArgs(dataDir, ungroupedModule)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "is not part of a group")
}

func TestApplyCommand(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	edited := testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Employee ID", "CHANGE"),
		testutil.Row("fieldCode002", "DAT", "HIRED", "Hired", "NEVER"),
	)

	out, err := runCLI(t, nil, edited, append([]string{"apply", "--config", "-", "--yes", "--user", "ops@acme.io"},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+workforceMaster+" to the user tier")
	assert.Contains(t, out, "backups: ")
	assert.Contains(t, out, "group sync completed")

	files, err := store.NewFileStore(dataDir).Read(t.Context(), domain.ConfigParams{
		OrgKey: "acme", ModuleKey: workforceMaster, Industry: "retail",
	})
	require.NoError(t, err)
	assert.Contains(t, files.ConfigContent, "module,Customization,acme,Workforce")

	backups, err := os.ReadDir(filepath.Join(dataDir, constants.BackupsDir, "configfiles"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestApplyCommand_JSONWarnings(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	dropped := writeTemp(t, "dropped.csv", testutil.ConfigCSV("Workforce",
		testutil.Row("fieldCode001", "GEN", "EMP_ID", "Emp Code", "NONE"),
	))

	out, err := runCLI(t, nil, "", append([]string{"apply", "--output", "json", "--config", dropped, "-y"},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)

	var info customize.CommitInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info.Warnings, "NEVER field fieldCode002 was removed")
	assert.Equal(t, domain.GroupSyncCompleted, info.GroupSync.Status)
	assert.Empty(t, info.Backups, "no user key, no backups")
}

func TestApplyCommand_NeedsConfirmation(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	config := writeTemp(t, "config.csv", masterTemplate())

	_, err := runCLI(t, nil, "", append([]string{"apply", "--config", config}, moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrNotConfirmed)

	exists, err := store.NewFileStore(dataDir).UserConfigExists(t.Context(), "acme", workforceMaster)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApplyCommand_MissingConfig(t *testing.T) {
	dataDir := testEnv(t)

	_, err := runCLI(t, nil, "", append([]string{"apply", "--yes"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrMissingParameters)
	assert.Equal(t, []string{"--config is required"}, cerrors.Details(err))
}

func TestChatCommand_Message(t *testing.T) {
	dataDir := testEnv(t)
	testutil.SeedBase(t, dataDir, workforceMaster, masterTemplate())
	runner := &testutil.ScriptedRunner{Outputs: []string{"Sure, I will rename Emp Code to Staff Number."}}
	save := filepath.Join(t.TempDir(), "chat.json")

	out, err := runCLI(t, runner, "", append([]string{"chat", "--output", "json", "-m", "Rename Emp Code", "--save", save},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)

	var reply struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reply))
	assert.True(t, reply.Success)
	assert.Contains(t, reply.Response, "Staff Number")

	data, err := os.ReadFile(save) //#nosec G304 -- test path
	require.NoError(t, err)
	var history []domain.ChatMessage
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "Rename Emp Code", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)

	// The next turn carries the saved conversation.
	runner.Outputs = []string{"Anything else?"}
	_, err = runCLI(t, runner, "", append([]string{"chat", "--output", "json", "-m", "That's all", "--history", save, "--save", save},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)

	reqs := runner.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, history, reqs[1].History)
}

func TestChatCommand_NoAPIKey(t *testing.T) {
	dataDir := testEnv(t)

	_, err := runCLI(t, nil, "", append([]string{"chat", "-m", "hello"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrAPIKeyMissing)
}

func TestChatCommand_LLMFailure(t *testing.T) {
	dataDir := testEnv(t)
	runner := &testutil.ScriptedRunner{Err: testutil.ErrMockLLM}

	_, err := runCLI(t, runner, "", append([]string{"chat", "-m", "hello"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.Error(t, err)
	assert.Equal(t, ExitError, ExitCodeForError(err))
}

func TestFinalizeCommand(t *testing.T) {
	dataDir := testEnv(t)
	seedWorkforce(t, dataDir)
	runner := &testutil.ScriptedRunner{Outputs: []string{finalizeResponse()}}
	history := `[{"role":"user","content":"Rename Emp Code to Employee ID"},{"role":"user","content":"Add a badge field"}]`

	out, err := runCLI(t, runner, history, append([]string{"finalize", "--output", "json", "--history", "-"},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.NoError(t, err)

	var result customize.FinalizeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.CodesetsChanged)
	require.NotNil(t, result.Commit)
	assert.Equal(t, domain.GroupSyncCompleted, result.Commit.GroupSync.Status)
	assert.Equal(t, []string{workforceAttendance, workforceExpense}, result.Commit.GroupSync.SyncedModules)

	files, err := store.NewFileStore(dataDir).Read(t.Context(), domain.ConfigParams{
		OrgKey: "acme", ModuleKey: workforceMaster, Industry: "retail",
	})
	require.NoError(t, err)
	assert.Contains(t, files.ConfigContent, "Employee ID")
	assert.Contains(t, files.ConfigContent, "BADGE")
}

func TestFinalizeCommand_BadHistory(t *testing.T) {
	dataDir := testEnv(t)

	_, err := runCLI(t, &testutil.ScriptedRunner{}, "not json", append([]string{"finalize", "--history", "-"},
		moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrInvalidRequestBody)

	_, err = runCLI(t, &testutil.ScriptedRunner{}, "", append([]string{"finalize"}, moduleArgs(dataDir, workforceMaster)...)...)
	require.ErrorIs(t, err, cerrors.ErrMissingParameters)
}

func TestCodesetVerifyCommand(t *testing.T) {
	dataDir := testEnv(t)
	stored := "codeset,Type,application,Name,acme,\n" +
		"field,Type,Level,Parent Path,Code,Description\n" +
		"1,SHIFT,Level_001,SHIFT,DAY,Day Shift\n" +
		"2,SHIFT,Level_001,SHIFT,NIGHT,Night Shift\n"
	path := writeTemp(t, "codesetvalues.csv", stored)

	out, err := runCLI(t, nil, "", "codeset", "verify", "--data-dir", dataDir, path, "--org", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "SHIFT")
	assert.Contains(t, out, "is valid")

	out, err = runCLI(t, nil, "", "codeset", "verify", "--data-dir", dataDir, "--output", "json", path, "--org", "globex")
	require.ErrorIs(t, err, cerrors.ErrValidationFailed)
	var report validationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Problems)
}

func TestCodesetNormalizeCommand(t *testing.T) {
	dataDir := testEnv(t)
	raw := "codeset,Type,application,Name,FIELDMOBI_DEFAULT,\n" +
		"field,Type,Level,Parent Path,Code,Description\n" +
		"1,SHIFT,Level_001,SHIFT,day,day shift\n"
	path := writeTemp(t, "codesetvalues.csv", raw)

	out, err := runCLI(t, nil, "", "codeset", "normalize", "--data-dir", dataDir, path, "--org", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "codeset,Type,application,Name,acme,")
	assert.Contains(t, out, "SHIFT,DAY,Day Shift,,acme")
	assert.NotContains(t, out, "FIELDMOBI_DEFAULT")

	target := filepath.Join(t.TempDir(), "out.csv")
	_, err = runCLI(t, nil, "", "codeset", "normalize", "--data-dir", dataDir, path, "--org", "acme", "--write", target)
	require.NoError(t, err)
	written, err := os.ReadFile(target) //#nosec G304 -- test path
	require.NoError(t, err)
	assert.Equal(t, out, string(written))

	_, err = runCLI(t, nil, "", "codeset", "normalize", "--data-dir", dataDir, path)
	require.ErrorIs(t, err, cerrors.ErrMissingParameters)
}

func TestGroupsCommand(t *testing.T) {
	dataDir := testEnv(t)

	out, err := runCLI(t, nil, "", "groups", "--data-dir", dataDir)
	require.NoError(t, err)
	for _, g := range modulegroup.DefaultGroups() {
		assert.Contains(t, out, g.ID)
	}

	out, err = runCLI(t, nil, "", "groups", "--data-dir", dataDir, "--output", "json", "--module", strings.ToLower(workforceExpense))
	require.NoError(t, err)
	var groups []modulegroup.Group
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "WORKFORCE", groups[0].ID)

	_, err = runCLI(t, nil, "", "groups", "--data-dir", dataDir, "--module", ungroupedModule)
	require.ErrorIs(t, err, cerrors.ErrUnknownModule)
}

func TestGroupsCommand_GroupsFile(t *testing.T) {
	dataDir := testEnv(t)
	groupsFile := writeTemp(t, "groups.yaml", `groups:
  - id: TEAMS
    name: Team Group
    members:
      - key: FM_SYSADMIN_OBJECT_TEAMSLITE_ADMIN
        name: Teams
        kind: MASTER
      - key: FM_SYSADMIN_OBJECT_USERLITE_ADMIN
        name: Users
        kind: UPDATES
`)
	t.Setenv("CUSTOMIZER_STORAGE_GROUPS_FILE", groupsFile)

	out, err := runCLI(t, nil, "", "groups", "--data-dir", dataDir, "--output", "json")
	require.NoError(t, err)
	var groups []modulegroup.Group
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "Team Group", groups[0].Name)
}

func TestModulesCommand(t *testing.T) {
	dataDir := testEnv(t)

	out, err := runCLI(t, nil, "", "modules", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, workforceMaster)

	_, err = runCLI(t, nil, "", "modules", "--data-dir", dataDir, "--type", "nonsense")
	require.ErrorIs(t, err, cerrors.ErrInvalidParameters)

	testutil.SeedUser(t, dataDir, "acme", workforceMaster, masterTemplate(), testutil.BaseCodesets)
	out, err = runCLI(t, nil, "", "modules", "--data-dir", dataDir, "--org", "acme", "--output", "json")
	require.NoError(t, err)
	var modules []modulegroup.Module
	require.NoError(t, json.Unmarshal([]byte(out), &modules))
	require.Len(t, modules, 1)
	assert.Equal(t, workforceMaster, modules[0].Key)
	assert.Equal(t, modulegroup.Label(workforceMaster), modules[0].Label)
}

func TestBackupCleanupCommand(t *testing.T) {
	dataDir := testEnv(t)
	dir := filepath.Join(dataDir, constants.BackupsDir, "configfiles")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	old := filepath.Join(dir, "old.csv")
	fresh := filepath.Join(dir, "fresh.csv")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o600))
	past := time.Now().Add(-400 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	out, err := runCLI(t, nil, "", "backup", "cleanup", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 backup(s)")
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestBackupCleanupCommand_Disabled(t *testing.T) {
	dataDir := testEnv(t)
	t.Setenv("CUSTOMIZER_BACKUP_ENABLED", "false")

	_, err := runCLI(t, nil, "", "backup", "cleanup", "--data-dir", dataDir)
	require.ErrorIs(t, err, cerrors.ErrBackupsDisabled)
}

func TestConfigShowCommand(t *testing.T) {
	dataDir := testEnv(t)

	out, err := runCLI(t, nil, "", "config", "show", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "data_dir: "+dataDir)
	assert.Contains(t, out, "# log file: ")

	out, err = runCLI(t, nil, "", "config", "show", "--data-dir", dataDir, "--output", "json")
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Contains(t, payload["log_file"], os.Getenv(HomeEnvVar))
}
