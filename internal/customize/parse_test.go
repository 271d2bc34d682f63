package customize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/mrz1836/customizer/internal/errors"
)

func TestParseResponse(t *testing.T) {
	text := "Here you go.\r\n" +
		"CONFIGURATION:\r\n" +
		"[\r\n" +
		"\r\n" +
		"module,Application,FIELDMOBI_DEFAULT,Staff\r\n" +
		"access,ALL\r\n" +
		"Field Code,Type,Data\r\n" +
		"fieldCode001,GEN,EMP_ID\r\n" +
		"]\r\n" +
		"codesets:\r\n" +
		"codeset,Type,application,Name,FIELDMOBI_DEFAULT,\r\n" +
		"\r\n" +
		"field,Type,Level,Parent Path,Code,Description\r\n" +
		"1,DEPT,Level_001,DEPT,SALES,Sales\r\n"

	p, err := ParseResponse(text, "acme")
	require.NoError(t, err)

	assert.Equal(t, "module,Customization,acme,Staff\naccess,ALL\nField Code,Type,Data\nfieldCode001,GEN,EMP_ID", p.Configuration)
	assert.True(t, p.HasCodesets)
	assert.Equal(t, "codeset,Type,application,Name,acme,\nfield,Type,Level,Parent Path,Code,Description\n1,DEPT,Level_001,DEPT,SALES,Sales", p.Codesets)
}

func TestParseResponse_ShortModuleLine(t *testing.T) {
	p, err := ParseResponse("CONFIGURATION:\nMODULE\nfieldCode001,GEN\n\nCODESETS:\ncodeset,Type", "acme")
	require.NoError(t, err)
	assert.Equal(t, "MODULE,Customization,acme\nfieldCode001,GEN", p.Configuration)
	assert.Equal(t, "codeset,Type,,,acme", p.Codesets)
}

func TestParseResponse_Missing(t *testing.T) {
	for name, text := range map[string]string{
		"no marker":     "Sorry, I cannot help with that.",
		"empty section": "CONFIGURATION:\n\n   \nCODESETS:\ncodeset,a",
		"codesets only": "CODESETS:\ncodeset,a",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse(text, "acme")
			require.ErrorIs(t, err, cerrors.ErrMissingConfigurationSection)
		})
	}
}

func TestParseResponse_CodesetsSignal(t *testing.T) {
	const current = "codeset,Type,application,Name,acme,\n1,DEPT,Level_001,DEPT,SALES,Sales\n"

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "explicit false wins over content",
			text: "CONFIGURATION:\nfieldCode001\nCODESETS:\ncodeset,X,,,acme,\nCODESETS_CHANGED: false",
			want: false,
		},
		{
			name: "explicit true",
			text: "CONFIGURATION:\nfieldCode001\nCODESETS_CHANGED: TRUE\nCODESETS:\n" + current,
			want: true,
		},
		{
			name: "true without section",
			text: "CONFIGURATION:\nfieldCode001\nCODESETS_CHANGED: true",
			want: false,
		},
		{
			name: "inferred unchanged",
			text: "CONFIGURATION:\nfieldCode001\nCODESETS:\n" + current,
			want: false,
		},
		{
			name: "inferred changed",
			text: "CONFIGURATION:\nfieldCode001\nCODESETS:\n" + current + "2,DEPT,Level_001,DEPT,HR,Human Resources",
			want: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseResponse(tc.text, "acme")
			require.NoError(t, err)
			p.CompareCodesets(current)
			assert.Equal(t, tc.want, p.CodesetsChanged)
			assert.NotContains(t, p.Codesets, "CODESETS_CHANGED")
			assert.NotContains(t, p.Configuration, "CODESETS_CHANGED")
		})
	}
}

func TestExtractContent(t *testing.T) {
	assert.Equal(t, "line one line two\nnext", ExtractContent(`line one' + 'line two\nnext`))
	assert.Equal(t, "plain", ExtractContent("plain"))
}
