package knowledge

// WorkflowStep is one ordered step of an OperationalWorkflow.
type WorkflowStep struct {
	Order          int    `json:"order"`
	Action         string `json:"action"`
	Screen         string `json:"screen,omitempty"`
	Task           string `json:"task,omitempty"`
	Precondition   string `json:"precondition,omitempty"`
	Postcondition  string `json:"postcondition,omitempty"`
	ErrorHandling  string `json:"error_handling,omitempty"`
}

// OperationalWorkflow is a named sequence of workflow steps — a distinct
// entity from the pipeline's own orchestration Workflow (see pkg/workflow).
type OperationalWorkflow struct {
	Envelope

	Name               string         `json:"name"`
	BusinessFunction   string         `json:"business_function,omitempty"`
	BusinessFunctionID string         `json:"business_function_id,omitempty"`
	Steps              []WorkflowStep `json:"steps"`
	ScreenIDs          []string       `json:"screen_ids"`
	TaskIDs            []string       `json:"task_ids"`
	ActionIDs          []string       `json:"action_ids"`
	TransitionIDs      []string       `json:"transition_ids"`
}

// ScreenSequenceEntry is one hop of a UserFlow's screen_sequence.
type ScreenSequenceEntry struct {
	Order        int    `json:"order"`
	ScreenID     string `json:"screen_id"`
	TransitionID string `json:"transition_id,omitempty"`
}

// UserFlow is a synthesized screen-by-screen navigation path.
type UserFlow struct {
	Envelope

	Name              string                `json:"name"`
	EntryScreen       string                `json:"entry_screen"`
	ExitScreen        string                `json:"exit_screen"`
	ScreenSequence    []ScreenSequenceEntry `json:"screen_sequence"`
	Steps             []string              `json:"steps,omitempty"`
	TotalSteps        int                   `json:"total_steps"`
	EstimatedDuration int                   `json:"estimated_duration"` // seconds
	Complexity        string                `json:"complexity"`
	MermaidDiagram    string                `json:"mermaid_diagram,omitempty"`
}

// SequenceIsWellFormed checks invariant 8: order is gap-free and starts at 1.
func (f UserFlow) SequenceIsWellFormed() bool {
	for i, e := range f.ScreenSequence {
		if e.Order != i+1 {
			return false
		}
	}
	return true
}
