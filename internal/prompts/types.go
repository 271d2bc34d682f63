package prompts

// PromptID identifies a specific prompt template.
type PromptID string

// Prompt identifiers for all LLM prompts.
const (
	// System is the expert persona sent as the system instruction for finalization.
	System PromptID = "config/system"

	// Summary asks for a short business summary of a configuration.
	Summary PromptID = "config/summary"

	// Finalize asks for the complete customized configuration and codesets.
	Finalize PromptID = "config/finalize"

	// Conversation is one requirements-gathering chat turn.
	Conversation PromptID = "chat/conversation"
)

// SummaryData contains input data for configuration summaries.
type SummaryData struct {
	// Config is the raw configuration CSV.
	Config string
}

// ConversationData contains input data for a chat turn.
type ConversationData struct {
	// ModuleKey is the module being customized.
	ModuleKey string
	// ModuleLabel is the catalog label of the module (optional).
	ModuleLabel string
	// Industry is the organization's industry.
	Industry string
	// SubIndustry is the organization's sub-industry.
	SubIndustry string
	// Summary is the cached configuration summary (optional).
	Summary string
	// FirstTurn is true when no earlier assistant reply exists.
	FirstTurn bool
	// Message is the user's message.
	Message string
}

// FinalizeData contains input data for finalization prompts.
type FinalizeData struct {
	ModuleKey       string
	ModuleLabel     string
	Industry        string
	SubIndustry     string
	OrgKey          string
	CurrentConfig   string
	CurrentCodesets string
	// Requirements is the user's side of the conversation.
	Requirements string
}
