package knowledge

// ActionType enumerates atomic UI operations.
type ActionType string

const (
	ActionClick ActionType = "click"
	ActionTypeText ActionType = "type"
	ActionSelectOption ActionType = "select_option"
	ActionNavigate ActionType = "navigate"
	ActionSendKeys ActionType = "send_keys"
)

// Action is an atomic UI operation.
type Action struct {
	Envelope

	Name string `json:"name"`
	ActionType ActionType `json:"action_type"`
	Category string `json:"category"`
	TargetSelector string `json:"target_selector,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Preconditions []string `json:"preconditions,omitempty"`
	Postconditions []string `json:"postconditions,omitempty"`
	Idempotent bool `json:"idempotent"`
	ReversibleBy string `json:"reversible_by,omitempty"`
	ScreenIDs []string `json:"screen_ids"`
	TransitionIDs []string `json:"transition_ids"`
	BrowserUseAction bool `json:"browser_use_action,omitempty"`
	ConfidenceScore float64 `json:"confidence_score"`

	// SourceScreenName, if set, is the fuzzy-match hint a video-sourced
	// action carries for the linker.
	SourceScreenName string `json:"source_screen_name,omitempty"`
}
