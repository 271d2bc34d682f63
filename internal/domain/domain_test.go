package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigParams_Normalize(t *testing.T) {
	p := ConfigParams{OrgKey: " acme ", ModuleKey: "FM_X\n", Industry: "\tretail"}
	got := p.Normalize()

	assert.Equal(t, "acme", got.OrgKey)
	assert.Equal(t, "FM_X", got.ModuleKey)
	assert.Equal(t, "retail", got.Industry)
}

func TestConfigParams_WithModule(t *testing.T) {
	p := ConfigParams{OrgKey: "acme", ModuleKey: "FM_A"}
	q := p.WithModule("FM_B")

	assert.Equal(t, "FM_A", p.ModuleKey, "original must be unchanged")
	assert.Equal(t, "FM_B", q.ModuleKey)
	assert.Equal(t, "acme", q.OrgKey)
}

func TestConfigParams_JSON(t *testing.T) {
	var p ConfigParams
	require.NoError(t, json.Unmarshal([]byte(`{"orgKey":"acme","moduleKey":"FM_X","subIndustry":"grocery"}`), &p))

	assert.Equal(t, "acme", p.OrgKey)
	assert.Equal(t, "grocery", p.SubIndustry)
}

func TestFloat(t *testing.T) {
	v := Float(0.2)
	require.NotNil(t, v)
	assert.InDelta(t, 0.2, *v, 1e-9)
}
