package knowledge

import "time"

// ChunkType enumerates the kinds of content a chunk can carry. Centralized
// here instead of being fragmented across ingesters, Open
// Question about the chunk_type enumeration.
type ChunkType string

const (
	ChunkTypeDocumentation ChunkType = "documentation"
	ChunkTypeWebpage ChunkType = "webpage"
	ChunkTypeExploration ChunkType = "exploration"
	ChunkTypeVideoTranscription ChunkType = "video_transcription"
	ChunkTypeVideoFrameAnalysis ChunkType = "video_frame_analysis"
	ChunkTypeVideoAction ChunkType = "video_action"
	ChunkTypeDocumentationSummary ChunkType = "documentation_comprehensive_summary"
	ChunkTypeWebpageSummary ChunkType = "webpage_comprehensive_summary"
	ChunkTypeVideoSummary ChunkType = "video_comprehensive_summary"
	ChunkTypeExplorationSummary ChunkType = "exploration_comprehensive_summary"
)

// Chunk is an ordered fragment of source material. Created by ingestion,
// read by extractors, never mutated afterward.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	IngestionID string `json:"ingestion_id"`
	ChunkIndex int `json:"chunk_index"`
	Content string `json:"content"`
	TokenCount int `json:"token_count"`
	ChunkType ChunkType `json:"chunk_type"`
	SectionTitle string `json:"section_title,omitempty"`
}

// IngestionResult is the envelope for all chunks produced from one source.
type IngestionResult struct {
	IngestionID string `json:"ingestion_id"`
	KnowledgeID string `json:"knowledge_id"`
	JobID string `json:"job_id"`
	SourceType SourceType `json:"source_type"`
	SourceMetadata map[string]interface{} `json:"source_metadata,omitempty"`
	Chunks []Chunk `json:"chunks"`
	TotalTokens int `json:"total_tokens"`
	Errors []string `json:"errors,omitempty"`
	StartedAt time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Success bool `json:"success"`
}

// SourceType is the auto-detected or explicitly supplied kind of an
// ingestion source.
type SourceType string

const (
	SourceTypeDocumentation SourceType = "documentation"
	SourceTypeVideo SourceType = "video"
	SourceTypeWebsite SourceType = "website"
	SourceTypeWebsiteDocumentation SourceType = "website_documentation"
)

// TotalContentLength sums the byte length of every chunk's content. Used to
// enforce the invariant: success implies non-empty content.
func (r IngestionResult) TotalContentLength() int {
	n := 0
	for _, c := range r.Chunks {
		n += len(c.Content)
	}
	return n
}

// IngestionMetadata records a content hash for a previously ingested source
// so unchanged sources can be skipped.
type IngestionMetadata struct {
	ContentHash string `json:"content_hash"`
	SourceURL string `json:"source_url"`
	IngestionID string `json:"ingestion_id"`
	IngestedAt time.Time `json:"ingested_at"`
}
