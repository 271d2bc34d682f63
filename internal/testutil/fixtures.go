package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/domain"
)

// ConfigColumns is the column count of a padded configuration row.
const ConfigColumns = 27

// BaseCodesets is a minimal codeset file carrying the template placeholder.
const BaseCodesets = "codeset,Type,application,Name,FIELDMOBI_DEFAULT,\n" +
	"field,Type,Level,Parent Path,Code,Description\n" +
	"1,SHIFT,Level_001,SHIFT,DAY,Day Shift\n"

// Row builds a padded field row with the marker in the last column.
func Row(code, typ, data, label, marker string) string {
	cells := make([]string, ConfigColumns)
	cells[0], cells[1], cells[2], cells[3], cells[ConfigColumns-1] = code, typ, data, label, marker
	return strings.Join(cells, ",")
}

// ConfigCSV builds a configuration document for module with the given rows.
func ConfigCSV(module string, rows ...string) string {
	header := make([]string, ConfigColumns)
	header[0], header[1], header[2], header[3], header[ConfigColumns-1] = "Field Code", "Type", "Data", "Label", "Customization"
	lines := append([]string{
		"module,Application,FIELDMOBI_DEFAULT," + module,
		"access,ALL",
		strings.Join(header, ","),
	}, rows...)
	return strings.Join(lines, "\n") + "\n"
}

// SeedBase writes a base template for moduleKey under root.
func SeedBase(t testing.TB, root, moduleKey, config string) string {
	t.Helper()
	dir := filepath.Join(root, constants.ConfigurationsDir, constants.BaseConfigurationsDir, moduleKey)
	seed(t, dir, config, BaseCodesets)
	return dir
}

// SeedIndustry writes an industry template for moduleKey under root.
func SeedIndustry(t testing.TB, root, industry, moduleKey, config string) string {
	t.Helper()
	dir := filepath.Join(root, constants.ConfigurationsDir, constants.IndustryConfigurationsDir, industry, moduleKey)
	seed(t, dir, config, BaseCodesets)
	return dir
}

// SeedUser writes a user-tier configuration for orgKey and moduleKey under root.
func SeedUser(t testing.TB, root, orgKey, moduleKey, config, codesets string) string {
	t.Helper()
	dir := filepath.Join(root, constants.UsersDir, orgKey, moduleKey)
	seed(t, dir, config, codesets)
	return dir
}

func seed(t testing.TB, dir, config, codesets string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, constants.ConfigFileName), []byte(config), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, constants.CodesetFileName), []byte(codesets), 0o600); err != nil {
		t.Fatalf("write codesets: %v", err)
	}
}

// ScriptedRunner is an LLM runner returning canned outputs in order. Once the
// outputs are exhausted it returns Err, or an empty output when Err is nil.
type ScriptedRunner struct {
	Outputs []string
	Err     error

	mu       sync.Mutex
	requests []*domain.AIRequest
}

// Run records req and returns the next output.
func (r *ScriptedRunner) Run(_ context.Context, req *domain.AIRequest) (*domain.AIResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	if len(r.Outputs) == 0 {
		if r.Err != nil {
			return nil, r.Err
		}
		return &domain.AIResult{Model: "test-model", Attempts: 1}, nil
	}
	out := r.Outputs[0]
	r.Outputs = r.Outputs[1:]
	return &domain.AIResult{Output: out, Model: "test-model", Attempts: 1}, nil
}

// Requests returns the requests seen so far.
func (r *ScriptedRunner) Requests() []*domain.AIRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AIRequest(nil), r.requests...)
}
