// Package video implements the video sub-pipeline: parallel
// transcription + frame filtering, batched vision analysis using the Claim
// Check pattern against pkg/objectstore to bound workflow history, and a
// final assembly phase.
package video

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/internal/errors"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/objectstore"
)

// Transcriber produces aligned text segments for a video file.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) ([]Segment, error)
}

// Segment is one aligned transcription span.
type Segment struct {
	StartSeconds float64
	EndSeconds float64
	Text string
}

// FrameExtractor decodes frames at a fixed interval.
type FrameExtractor interface {
	Extract(ctx context.Context, videoPath string, intervalSeconds float64) ([]Frame, VideoMetadata, error)
}

// Frame is one decoded video frame.
type Frame struct {
	TimestampSeconds float64
	Width, Height int
	Data []byte // raw image bytes, format-agnostic to the caller
}

// VideoMetadata describes the source video.
type VideoMetadata struct {
	DurationSeconds float64
	Width, Height int
	Codec string
}

// VisionAnalyzer analyzes one frame's visual content, returning free-form
// analysis text (the LLM-vision call).
type VisionAnalyzer interface {
	Analyze(ctx context.Context, frame Frame) (string, error)
}

// Pipeline wires transcription, frame filtering, batched vision analysis,
// and assembly into one IngestionResult-producing pipeline.
type Pipeline struct {
	Transcriber Transcriber
	Frames FrameExtractor
	Vision VisionAnalyzer
	Objects objectstore.Store
	Cfg config.VideoConfig
}

// frameBatchResult is what one batch activity writes to the object store
// and what assembly reads back via the claim-check key.
type frameBatchResult struct {
	Analyses []frameAnalysis `json:"analyses"`
}

type frameAnalysis struct {
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Analysis string `json:"analysis"`
}

// Run executes phases A (fan-out transcribe + filter), B (batched vision),
// and C (assembly), returning the resulting IngestionResult.
func (p *Pipeline) Run(ctx context.Context, ingestionID, knowledgeID, jobID, videoPath string) (*knowledge.IngestionResult, error) {
	started := time.Now()

	var segments []Segment
	var transcribeErr error
	var filtered []Frame
	var meta VideoMetadata
	var filterErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		segments, transcribeErr = p.Transcriber.Transcribe(ctx, videoPath)
	}()
	go func() {
		defer wg.Done()
		var allFrames []Frame
		allFrames, meta, filterErr = p.Frames.Extract(ctx, videoPath, p.Cfg.FrameIntervalSeconds)
		if filterErr == nil {
			filtered = filterFrames(allFrames, p.Cfg.SSIMThreshold, p.Cfg.MinFrameWidth, p.Cfg.MinFrameHeight)
		}
	}()
	wg.Wait()

	var ingestErrors []string
	if transcribeErr != nil {
		// Transcription failure degrades, it does not abort.
		ingestErrors = append(ingestErrors, fmt.Sprintf("transcription: %v", transcribeErr))
		segments = nil
	}
	if filterErr != nil {
		return nil, fmt.Errorf("extracting frames: %w", filterErr)
	}

	batchKeys, batchErrors := p.runVisionBatches(ctx, ingestionID, filtered)
	ingestErrors = append(ingestErrors, batchErrors...)

	chunks, err := p.assemble(ctx, ingestionID, segments, filtered, batchKeys)
	if err != nil {
		return nil, fmt.Errorf("assembling video chunks: %w", err)
	}

	total := 0
	for _, c := range chunks {
		total += c.TokenCount
	}

	return &knowledge.IngestionResult{
		IngestionID: ingestionID,
		KnowledgeID: knowledgeID,
		JobID: jobID,
		SourceType: knowledge.SourceTypeVideo,
		SourceMetadata: map[string]interface{}{
			"duration_seconds": meta.DurationSeconds,
			"width": meta.Width,
			"height": meta.Height,
			"codec": meta.Codec,
		},
		Chunks: chunks,
		TotalTokens: total,
		Errors: ingestErrors,
		StartedAt: started,
		CompletedAt: time.Now(),
		Success: len(chunks) > 0, // empty filtered_frames still runs assembly for transcription-only chunks
	}, nil
}

// runVisionBatches splits filtered frames into batches of Cfg.VisionBatchSize,
// processes them sequentially at this layer (each batch internally
// parallelizes across its frames), and writes each batch's result to the
// object store under Cfg.ResultsS3Prefix, returning only the keys — the
// Claim Check pattern bounding workflow history size.
func (p *Pipeline) runVisionBatches(ctx context.Context, ingestionID string, frames []Frame) ([]string, []string) {
	var keys []string
	var errs []string

	if p.Objects == nil && len(frames) > 0 {
		return nil, []string{"vision analysis: no object store configured"}
	}

	for start := 0; start < len(frames); start += p.Cfg.VisionBatchSize {
		end := start + p.Cfg.VisionBatchSize
		if end > len(frames) {
			end = len(frames)
		}
		batch := frames[start:end]

		analyses := make([]frameAnalysis, len(batch))
		var wg sync.WaitGroup
		for i, f := range batch {
			i, f := i, f
			wg.Add(1)
			go func() {
				defer wg.Done()
				text, err := p.Vision.Analyze(ctx, f)
				if err != nil {
					analyses[i] = frameAnalysis{TimestampSeconds: f.TimestampSeconds, Analysis: ""}
					return
				}
				analyses[i] = frameAnalysis{TimestampSeconds: f.TimestampSeconds, Analysis: text}
			}()
		}
		wg.Wait()

		payload, err := json.Marshal(frameBatchResult{Analyses: analyses})
		if err != nil {
			errs = append(errs, fmt.Sprintf("batch %d: marshaling: %v", start/p.Cfg.VisionBatchSize, err))
			continue // an individual batch failure drops only that batch's frames
		}
		key := fmt.Sprintf("%s%s-batch-%d.json", p.Cfg.ResultsS3Prefix, ingestionID, start/p.Cfg.VisionBatchSize)
		if err := p.Objects.Put(ctx, key, payload); err != nil {
			errs = append(errs, fmt.Sprintf("batch %d: %v", start/p.Cfg.VisionBatchSize, err))
			continue
		}
		keys = append(keys, key)
	}
	return keys, errs
}

// assemble reads every batch-result key, combines the frame analyses with
// the transcription, and produces the final chunk set. Frames dropped as
// near-duplicates are not expanded back: each analysis carries only the
// timestamp of the kept frame it was made from.
func (p *Pipeline) assemble(ctx context.Context, ingestionID string, segments []Segment, filtered []Frame, batchKeys []string) ([]knowledge.Chunk, error) {
	var chunks []knowledge.Chunk
	idx := 0

	for _, seg := range segments {
		chunks = append(chunks, knowledge.Chunk{
				ChunkID: fmt.Sprintf("%s-transcript-%d", ingestionID, idx),
				IngestionID: ingestionID,
				ChunkIndex: idx,
				Content: seg.Text,
				ChunkType: knowledge.ChunkTypeVideoTranscription,
				SectionTitle: fmt.Sprintf("%.1fs-%.1fs", seg.StartSeconds, seg.EndSeconds),
			})
		idx++
	}

	for _, key := range batchKeys {
		raw, err := p.Objects.Get(ctx, key)
		if err != nil {
			if err == errors.ErrNotFound {
				continue
			}
			return nil, fmt.Errorf("reading batch result %s: %w", key, err)
		}
		var result frameBatchResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("unmarshaling batch result %s: %w", key, err)
		}
		for _, a := range result.Analyses {
			if a.Analysis == "" {
				continue
			}
			chunks = append(chunks, knowledge.Chunk{
					ChunkID: fmt.Sprintf("%s-frame-%d", ingestionID, idx),
					IngestionID: ingestionID,
					ChunkIndex: idx,
					Content: a.Analysis,
					ChunkType: knowledge.ChunkTypeVideoFrameAnalysis,
					SectionTitle: fmt.Sprintf("%.1fs", a.TimestampSeconds),
				})
			idx++
		}
	}

	if len(chunks) > 0 {
		chunks = append(chunks, knowledge.Chunk{
				ChunkID: fmt.Sprintf("%s-summary", ingestionID),
				IngestionID: ingestionID,
				ChunkIndex: idx,
				Content: fmt.Sprintf("Video summary: %d transcript segments, %d analyzed frames.", len(segments), len(filtered)),
				ChunkType: knowledge.ChunkTypeVideoSummary,
			})
	}
	return chunks, nil
}
