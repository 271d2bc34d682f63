package tui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/domain"
)

func TestHasColorSupport(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("TERM", "xterm-256color")
		t.Setenv("NO_COLOR", "")
		require.NoError(t, os.Unsetenv("NO_COLOR"))
		assert.True(t, HasColorSupport())
	})

	t.Run("NO_COLOR set to empty", func(t *testing.T) {
		t.Setenv("TERM", "xterm-256color")
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		t.Setenv("NO_COLOR", "")
		require.NoError(t, os.Unsetenv("NO_COLOR"))
		assert.False(t, HasColorSupport())
	})
}

func TestGroupSyncIcon(t *testing.T) {
	assert.Equal(t, "✓", GroupSyncIcon(domain.GroupSyncCompleted))
	assert.Equal(t, "⚠", GroupSyncIcon(domain.GroupSyncSkipped))
	assert.Equal(t, "○", GroupSyncIcon(domain.GroupSyncNotGrouped))
	assert.Equal(t, "?", GroupSyncIcon("other"))

	assert.Equal(t, ColorSuccess, GroupSyncColor(domain.GroupSyncCompleted))
	assert.Equal(t, ColorWarning, GroupSyncColor(domain.GroupSyncSkipped))
	assert.Equal(t, ColorMuted, GroupSyncColor(domain.GroupSyncNotGrouped))
}

func TestTierColor(t *testing.T) {
	assert.Equal(t, ColorSuccess, TierColor(domain.TierUser))
	assert.Equal(t, ColorPrimary, TierColor(domain.TierIndustry))
	assert.Equal(t, ColorMuted, TierColor(domain.TierBase))
}

func TestRenderGroupSync(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	CheckNoColor()

	tests := []struct {
		name   string
		report domain.GroupSyncReport
		want   string
	}{
		{
			name: "completed",
			report: domain.GroupSyncReport{
				Status:        domain.GroupSyncCompleted,
				GroupName:     "STAFF",
				SyncedModules: []string{"FM_STAFF_ATTENDANCE", "FM_STAFF_EXPENSE"},
			},
			want: "✓ group sync completed (STAFF: FM_STAFF_ATTENDANCE, FM_STAFF_EXPENSE)",
		},
		{
			name: "skipped",
			report: domain.GroupSyncReport{
				Status:    domain.GroupSyncSkipped,
				GroupName: "STAFF",
				Reason:    "FM_STAFF_EXPENSE has no configuration",
			},
			want: "⚠ group sync skipped (STAFF): FM_STAFF_EXPENSE has no configuration",
		},
		{
			name:   "not grouped",
			report: domain.GroupSyncReport{Status: domain.GroupSyncNotGrouped},
			want:   "○ group sync not_grouped",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderGroupSync(tc.report))
		})
	}
}
