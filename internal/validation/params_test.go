package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/customizer/internal/domain"
	cerrors "github.com/mrz1836/customizer/internal/errors"
)

func validParams() domain.ConfigParams {
	return domain.ConfigParams{
		OrgKey:    "acme.co-1",
		UserKey:   "ops@acme.io",
		ModuleKey: "FM_WORKFORCE_OBJECT_WORKFORCELITE_ALL",
		Industry:  "retail",
	}
}

// TestParams tests parameter validation.
func TestParams(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ConfigParams)
		want    error
		details []string
	}{
		{
			name:   "valid",
			mutate: func(*domain.ConfigParams) {},
		},
		{
			name:   "no user key is fine",
			mutate: func(p *domain.ConfigParams) { p.UserKey = "" },
		},
		{
			name:    "missing industry",
			mutate:  func(p *domain.ConfigParams) { p.Industry = "  " },
			want:    cerrors.ErrMissingParameters,
			details: []string{"industry is required"},
		},
		{
			name: "missing all",
			mutate: func(p *domain.ConfigParams) {
				*p = domain.ConfigParams{}
			},
			want:    cerrors.ErrMissingParameters,
			details: []string{"orgKey is required", "moduleKey is required", "industry is required"},
		},
		{
			name:    "bad org key",
			mutate:  func(p *domain.ConfigParams) { p.OrgKey = "acme/../x" },
			want:    cerrors.ErrInvalidParameters,
			details: []string{"Organization key contains invalid characters"},
		},
		{
			name:    "lowercase module",
			mutate:  func(p *domain.ConfigParams) { p.ModuleKey = "fm_product" },
			want:    cerrors.ErrInvalidParameters,
			details: []string{"Module key must be uppercase with underscores only"},
		},
		{
			name:    "bad email",
			mutate:  func(p *domain.ConfigParams) { p.UserKey = "not-an-email" },
			want:    cerrors.ErrInvalidParameters,
			details: []string{"User key must be a valid email address"},
		},
		{
			name: "missing wins over invalid",
			mutate: func(p *domain.ConfigParams) {
				p.Industry = ""
				p.ModuleKey = "bad-key"
			},
			want:    cerrors.ErrMissingParameters,
			details: []string{"industry is required", "Module key must be uppercase with underscores only"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			err := Params(p)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, tc.details, cerrors.Details(err))
		})
	}
}

// TestKeys tests org/module key validation.
func TestKeys(t *testing.T) {
	require.NoError(t, Keys("acme", "FM_PRODUCT"))
	require.ErrorIs(t, Keys("", "FM_PRODUCT"), cerrors.ErrMissingParameters)
	require.ErrorIs(t, Keys("acme", ""), cerrors.ErrMissingParameters)
	require.ErrorIs(t, Keys("a b", "FM_PRODUCT"), cerrors.ErrInvalidParameters)
	require.ErrorIs(t, Keys("acme", "FM-1"), cerrors.ErrInvalidParameters)
}

// TestCSVStructure tests raw CSV shape checks.
func TestCSVStructure(t *testing.T) {
	tests := []struct {
		name    string
		content string
		details []string
	}{
		{"valid", "a,b,c\n1,2,3\n\n4,5,6\n", nil},
		{"empty", "  \n", []string{"CSV content is empty"}},
		{"header only", "a,b,c\n", []string{"CSV must contain header and at least one data row"}},
		{"ragged", "a,b,c\n1,2\n3,4,5\n6,7,8,9", []string{
			"Row 2 has incorrect number of columns",
			"Row 4 has incorrect number of columns",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CSVStructure(tc.content)
			if tc.details == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, cerrors.ErrInvalidStructure)
			assert.Equal(t, tc.details, cerrors.Details(err))
		})
	}
}
