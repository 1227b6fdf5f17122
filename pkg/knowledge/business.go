package knowledge

// BusinessFunction is a user-visible capability.
type BusinessFunction struct {
	Envelope

	Name string `json:"name"`
	Category string `json:"category"`
	Description string `json:"description"`
	BusinessReasoning string `json:"business_reasoning"`
	BusinessImpact string `json:"business_impact"`
	BusinessRequirements []string `json:"business_requirements"`
	OperationalAspects []string `json:"operational_aspects,omitempty"`
	WorkflowSteps []string `json:"workflow_steps,omitempty"`
	RelatedScreens []string `json:"related_screens"`
	RelatedTasks []string `json:"related_tasks"`
	RelatedActions []string `json:"related_actions"`
	RelatedWorkflows []string `json:"related_workflows"`
	RelatedUserFlows []string `json:"related_user_flows"`

	// ScreensMentioned is the raw list of screen names the LLM prompt
	// surfaced; the linker resolves these into RelatedScreens.
	ScreensMentioned []string `json:"screens_mentioned,omitempty"`
}

// BusinessFeature is narrower in scope than a BusinessFunction; a sibling
// entity with the same shape minus the multi-paragraph reasoning fields.
type BusinessFeature struct {
	Envelope

	Name string `json:"name"`
	Category string `json:"category"`
	Description string `json:"description"`
	ParentFunctionID string `json:"parent_function_id,omitempty"`
	RelatedScreens []string `json:"related_screens"`
	RelatedActions []string `json:"related_actions"`
}
