package api

import "github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"

// errorResponse is the uniform error body every handler returns on failure.
type errorResponse struct {
	Error string `json:"error"`
}

// knowledgeResponse is the body of GET /knowledge/:id, the "query by
// knowledge_id" contract.
type knowledgeResponse struct {
	Screens []*knowledge.Screen `json:"screens"`
	Tasks []*knowledge.Task `json:"tasks"`
	Actions []*knowledge.Action `json:"actions"`
	Transitions []*knowledge.Transition `json:"transitions"`
	BusinessFunctions []*knowledge.BusinessFunction `json:"business_functions"`
	Workflows []*knowledge.OperationalWorkflow `json:"workflows"`
	UserFlows []*knowledge.UserFlow `json:"user_flows"`
	Statistics statistics `json:"statistics"`
}

// statistics is the summary block appended to a knowledge query response.
type statistics struct {
	ScreenCount int `json:"screen_count"`
	TaskCount int `json:"task_count"`
	ActionCount int `json:"action_count"`
	TransitionCount int `json:"transition_count"`
	BusinessFunctionCount int `json:"business_function_count"`
	WorkflowCount int `json:"workflow_count"`
	UserFlowCount int `json:"user_flow_count"`
}

// assistResponse is the body of POST /assist.
type assistResponse struct {
	Actions []assistAction `json:"actions"`
}

// assistAction is one step of the translated browser action sequence.
type assistAction struct {
	Type string `json:"type"` // "navigate" | "click" | "send_keys" | "read_html"
	Selector string `json:"selector,omitempty"`
	Value string `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}
