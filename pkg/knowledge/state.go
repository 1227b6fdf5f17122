package knowledge

import "time"

// JobStatus is the terminal/non-terminal state of a workflow run.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobPaused JobStatus = "paused"
	JobCompleted JobStatus = "completed"
	JobFailed JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Phase enumerates the six logical phases plus the optional URL exploration
// phase, in execution order.
type Phase string

const (
	PhaseIngestion Phase = "ingestion"
	PhaseExtraction Phase = "extraction"
	PhaseLinking Phase = "linking"
	PhaseGraph Phase = "graph"
	PhaseURLExploration Phase = "url_exploration"
	PhaseVerification Phase = "verification"
	PhaseEnrichment Phase = "enrichment"
)

// OrderedPhases is the strict sequence the orchestrator runs phases in.
var OrderedPhases = []Phase{
	PhaseIngestion,
	PhaseExtraction,
	PhaseLinking,
	PhaseGraph,
	PhaseURLExploration,
	PhaseVerification,
	PhaseEnrichment,
}

// WorkflowState is the persisted orchestration snapshot for one job.
type WorkflowState struct {
	WorkflowID string `json:"workflow_id"`
	JobID string `json:"job_id"`
	KnowledgeID string `json:"knowledge_id"`
	Status JobStatus `json:"status"`
	Phase Phase `json:"phase"`
	CurrentActivity string `json:"current_activity"`
	Progress WorkflowProgress `json:"progress"`
	Errors []string `json:"errors,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowProgress is the query-surfaced progress snapshot.
type WorkflowProgress struct {
	Phase Phase `json:"phase"`
	CurrentActivity string `json:"current_activity"`
	ItemsProcessed int `json:"items_processed"`
	TotalItems int `json:"total_items"`
	SourcesIngested int `json:"sources_ingested"`
	ScreensExtracted int `json:"screens_extracted"`
	TasksExtracted int `json:"tasks_extracted"`
	Errors []string `json:"errors,omitempty"`
	ElapsedTime float64 `json:"elapsed_time"` // seconds
	StartedAt time.Time `json:"-"`
}

// Checkpoint records resumable progress within one phase.
type Checkpoint struct {
	WorkflowID string `json:"workflow_id"`
	Phase Phase `json:"phase"`
	ItemsProcessed []string `json:"items_processed"`
	ResumeToken string `json:"resume_token"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityExecutionLog is the idempotency record for one activity invocation.
type ActivityExecutionLog struct {
	WorkflowID string `json:"workflow_id"`
	ActivityName string `json:"activity_name"`
	InputHash string `json:"input_hash"`
	Output string `json:"output"` // JSON-encoded result
	Success bool `json:"success"`
	Error string `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
