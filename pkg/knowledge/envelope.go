// Package knowledge defines the persisted entity types produced by the
// extraction pipeline: chunks, ingestion results, screens, tasks, actions,
// transitions, business functions, operational workflows, and user flows.
// Every entity shares the Envelope fields and is immutable after creation
// except for the cross-reference arrays, which the linker mutates.
package knowledge

import "time"

// Envelope holds the fields every persisted entity shares.
type Envelope struct {
	EntityID    string                 `json:"entity_id"`
	KnowledgeID string                 `json:"knowledge_id"`
	JobID       string                 `json:"job_id"`
	WebsiteID   string                 `json:"website_id"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// EntityKind tags which collection an entity belongs to, used by the store's
// generic upsert/query paths and by the graph-counting phase.
type EntityKind string

const (
	KindScreen           EntityKind = "screen"
	KindTask             EntityKind = "task"
	KindAction           EntityKind = "action"
	KindTransition       EntityKind = "transition"
	KindBusinessFunction EntityKind = "business_function"
	KindBusinessFeature  EntityKind = "business_feature"
	KindWorkflow         EntityKind = "workflow"
	KindUserFlow         EntityKind = "user_flow"
)
