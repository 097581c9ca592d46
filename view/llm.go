package view

// SuggestionAnswer is the structured completion expected from the LLM for a
// representative error message. The jsonschema tags drive the strict
// response format for providers that support it.
type SuggestionAnswer struct {
	Reformulated string `json:"reformulated" jsonschema:"description=short sentence explaining the error"`
	Solution     string `json:"solution" jsonschema:"description=concise actionable fix"`
}
