// Package telemetry centralizes the structured-logging key names and
// Prometheus metrics used across the pipeline, mirroring tarsy's intent of a
// shared logging-fields helper (pkg/shared/logging) kept in one place instead
// of re-typed string literals at every call site.
package telemetry

import "log/slog"

// Recurring structured-log field names.
const (
	FieldWorkflowID  = "workflow_id"
	FieldJobID       = "job_id"
	FieldKnowledgeID = "knowledge_id"
	FieldWebsiteID   = "website_id"
	FieldPhase       = "phase"
	FieldActivity    = "activity"
	FieldSourceType  = "source_type"
	FieldIngestionID = "ingestion_id"
)

// WorkflowLogger returns a logger pre-bound with the job's identity triple,
// the way tarsy binds worker_id/pod_id once per Worker.run.
func WorkflowLogger(workflowID, jobID, knowledgeID string) *slog.Logger {
	return slog.With(
		FieldWorkflowID, workflowID,
		FieldJobID, jobID,
		FieldKnowledgeID, knowledgeID,
	)
}

// PhaseLogger narrows a workflow logger to one phase/activity pair.
func PhaseLogger(base *slog.Logger, phase, activity string) *slog.Logger {
	return base.With(FieldPhase, phase, FieldActivity, activity)
}
