package domain

// Tier is a precedence level of the configuration hierarchy.
type Tier string

// Tiers in resolution order.
const (
	TierUser     Tier = "user"
	TierIndustry Tier = "industry"
	TierBase     Tier = "base"
)

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// ConfigFiles is the raw configuration and codeset pair of one module.
type ConfigFiles struct {
	Tier           Tier   `json:"tier"`
	ConfigPath     string `json:"configPath"`
	ConfigContent  string `json:"config"`
	CodesetContent string `json:"codesets"`
}

// GroupSyncStatus reports the outcome of propagating a change to sibling modules.
type GroupSyncStatus string

// Group sync outcomes.
const (
	GroupSyncCompleted  GroupSyncStatus = "completed"
	GroupSyncSkipped    GroupSyncStatus = "skipped"
	GroupSyncNotGrouped GroupSyncStatus = "not_grouped"
)

// GroupSyncReport is returned to callers after a primary write.
type GroupSyncReport struct {
	Status        GroupSyncStatus `json:"status"`
	GroupName     string          `json:"groupName,omitempty"`
	SyncedModules []string        `json:"syncedModules,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}
