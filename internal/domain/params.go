package domain

import "strings"

// ConfigParams identifies a customization context.
// OrgKey and ModuleKey are always required. Industry is required only when
// resolving template fallbacks.
type ConfigParams struct {
	OrgKey      string `json:"orgKey" yaml:"org_key"`
	UserKey     string `json:"userKey,omitempty" yaml:"user_key,omitempty"`
	ModuleKey   string `json:"moduleKey" yaml:"module_key"`
	Industry    string `json:"industry,omitempty" yaml:"industry,omitempty"`
	SubIndustry string `json:"subIndustry,omitempty" yaml:"sub_industry,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (p ConfigParams) Normalize() ConfigParams {
	return ConfigParams{
		OrgKey:      strings.TrimSpace(p.OrgKey),
		UserKey:     strings.TrimSpace(p.UserKey),
		ModuleKey:   strings.TrimSpace(p.ModuleKey),
		Industry:    strings.TrimSpace(p.Industry),
		SubIndustry: strings.TrimSpace(p.SubIndustry),
	}
}

// WithModule returns a copy of p targeting another module of the same organization.
func (p ConfigParams) WithModule(moduleKey string) ConfigParams {
	p.ModuleKey = moduleKey
	return p
}

// SyncConfig carries a freshly edited configuration used as the seed for
// group sync. It is never persisted on its own.
type SyncConfig struct {
	Config   string `json:"config"`
	Codesets string `json:"codesets,omitempty"`
}
