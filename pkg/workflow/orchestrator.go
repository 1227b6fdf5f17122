// Package workflow implements the six-phase durable orchestrator. There is
// no external durable-workflow substrate in this stack (no Temporal, no
// Cadence) — progress for long-running jobs is recorded the way tarsy records
// long-running sessions: workflow state is written to Postgres at every phase
// transition and a checkpoint after every completed phase, and the worker
// pool's orphan scan (see pkg/workflow/pool.go) marks failed any job a
// crashed worker left running. A job is not resumed from its checkpoints.
package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/internal/telemetry"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// Source is one (url_or_path, name, type?) ingestion input.
type Source struct {
	URLOrPath string
	Name string
	Type knowledge.SourceType // empty triggers auto-detection
}

// Input is the validated entry payload for Run.
type Input struct {
	WorkflowID string
	JobID string
	KnowledgeID string
	Sources []Source
}

// PhaseRunner executes one phase given the workflow input and returns the
// number of items it processed, so each phase is independently testable
// and swappable without touching the orchestrator loop.
type PhaseRunner interface {
	Phase() knowledge.Phase
	Run(ctx context.Context, ac activity.Context, in Input) (itemsProcessed int, err error)
}

// Orchestrator drives one job through knowledge.OrderedPhases, persisting
// progress after every phase and honoring pause/resume/cancel signals at
// phase boundaries.
type Orchestrator struct {
	ac activity.Context
	cfg *config.WorkflowConfig
	phases []PhaseRunner
	metrics *telemetry.Metrics

	mu sync.Mutex
	paused bool
	cancelled bool
	resumeCh chan struct{}
}

// NewOrchestrator builds an Orchestrator that runs phases in the given
// order — callers normally pass one PhaseRunner per knowledge.OrderedPhases
// entry, in that order.
func NewOrchestrator(ac activity.Context, cfg *config.WorkflowConfig, metrics *telemetry.Metrics, phases []PhaseRunner) *Orchestrator {
	return &Orchestrator{ac: ac, cfg: cfg, phases: phases, metrics: metrics, resumeCh: make(chan struct{})}
}

// Pause signals the running workflow to suspend at the next phase boundary.
func (o *Orchestrator) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paused = true
}

// Resume wakes a paused workflow.
func (o *Orchestrator) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.paused {
		o.paused = false
		close(o.resumeCh)
		o.resumeCh = make(chan struct{})
	}
}

// Cancel marks the workflow for termination; the next checkPauseOrCancel
// raises a terminal cancellation error.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelled = true
	if o.paused {
		o.paused = false
		close(o.resumeCh)
		o.resumeCh = make(chan struct{})
	}
}

// IsPaused answers the is_paused query.
func (o *Orchestrator) IsPaused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}

// IsCancelled answers the is_cancelled query.
func (o *Orchestrator) IsCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

// checkPauseOrCancel blocks while paused, and returns errCancelled once
// Cancel has been called — the single check point placed before and after
// each phase.
func (o *Orchestrator) checkPauseOrCancel(ctx context.Context) error {
	for {
		o.mu.Lock()
		if o.cancelled {
			o.mu.Unlock()
			return errCancelled
		}
		if !o.paused {
			o.mu.Unlock()
			return nil
		}
		waitCh := o.resumeCh
		o.mu.Unlock()

		select {
		case <-waitCh:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var errCancelled = fmt.Errorf("workflow cancelled")

// DeriveIngestionID derives a deterministic ingestion id from
// workflow_id:source_url:job_id so retries and resumes never mint a second
// id for the same source.
func DeriveIngestionID(workflowID, sourceURL, jobID string) string {
	sum := sha256.Sum256([]byte(workflowID + ":" + sourceURL + ":" + jobID))
	return hex.EncodeToString(sum[:])[:32]
}

// Run executes every phase of in in knowledge.OrderedPhases order, honoring
// pause/resume/cancel and checkpointing progress to Postgres after each
// phase. It returns the final knowledge.WorkflowState.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*knowledge.WorkflowState, error) {
	websiteID := DeriveWebsiteID(in.Sources)

	log := telemetry.WorkflowLogger(in.WorkflowID, in.JobID, in.KnowledgeID)
	started := time.Now()

	state := &knowledge.WorkflowState{
		WorkflowID: in.WorkflowID,
		JobID: in.JobID,
		KnowledgeID: in.KnowledgeID,
		Status: knowledge.JobRunning,
		CreatedAt: started,
		UpdatedAt: started,
		Progress: knowledge.WorkflowProgress{StartedAt: started},
		Metadata: map[string]interface{}{"website_id": websiteID},
	}
	if err := o.ac.Store.SaveWorkflowState(ctx, state); err != nil {
		return nil, fmt.Errorf("saving initial workflow state: %w", err)
	}

	for _, phase := range o.phases {
		if err := o.checkPauseOrCancel(ctx); err != nil {
			return o.finalizeTerminal(ctx, state, err, started)
		}

		state.Phase = phase.Phase()
		state.CurrentActivity = string(phase.Phase())
		state.Progress.Phase = phase.Phase()
		if err := o.ac.Store.SaveWorkflowState(ctx, state); err != nil {
			log.Warn("failed to persist phase transition", "phase", phase.Phase(), "error", err)
		}

		phaseStart := time.Now()
		items, err := phase.Run(ctx, o.ac, in)
		if o.metrics != nil {
			o.metrics.PhaseDuration.WithLabelValues(string(phase.Phase())).Observe(time.Since(phaseStart).Seconds())
		}
		if err != nil {
			return o.finalizeTerminal(ctx, state, fmt.Errorf("phase %s: %w", phase.Phase(), err), started)
		}

		state.Progress.ItemsProcessed += items
		state.Progress.ElapsedTime = time.Since(started).Seconds()
		if err := o.ac.Store.SaveCheckpoint(ctx, knowledge.Checkpoint{
			WorkflowID: in.WorkflowID,
			Phase: phase.Phase(),
			CreatedAt: time.Now(),
		}); err != nil {
			log.Warn("failed to save checkpoint", "phase", phase.Phase(), "error", err)
		}

		if err := o.checkPauseOrCancel(ctx); err != nil {
			return o.finalizeTerminal(ctx, state, err, started)
		}
	}

	state.Status = knowledge.JobCompleted
	state.Progress.ElapsedTime = time.Since(started).Seconds()
	state.UpdatedAt = time.Now()
	if err := o.ac.Store.SaveWorkflowState(ctx, state); err != nil {
		return nil, fmt.Errorf("saving final workflow state: %w", err)
	}
	log.Info("workflow completed", "elapsed_seconds", state.Progress.ElapsedTime)
	return state, nil
}

func (o *Orchestrator) finalizeTerminal(ctx context.Context, state *knowledge.WorkflowState, err error, started time.Time) (*knowledge.WorkflowState, error) {
	state.UpdatedAt = time.Now()
	state.Progress.ElapsedTime = time.Since(started).Seconds()
	if err == errCancelled {
		state.Status = knowledge.JobCancelled
	} else {
		state.Status = knowledge.JobFailed
		state.Errors = append(state.Errors, err.Error())
	}
	if saveErr := o.ac.Store.SaveWorkflowState(ctx, state); saveErr != nil {
		slog.Error("failed to persist terminal workflow state", "workflow_id", state.WorkflowID, "error", saveErr)
	}
	return state, err
}

// Progress answers the get_progress query from the latest persisted state.
func (o *Orchestrator) Progress(ctx context.Context, s *store.Store, workflowID string) (*knowledge.WorkflowProgress, error) {
	state, err := s.LoadWorkflowState(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, nil
	}
	return &state.Progress, nil
}

// DeriveWebsiteID returns the common host across sources, or the literal
// "mixed-assets" when sources are heterogeneous.
func DeriveWebsiteID(sources []Source) string {
	if len(sources) == 0 {
		return "mixed-assets"
	}
	first := hostOf(sources[0].URLOrPath)
	for _, s := range sources[1:] {
		if hostOf(s.URLOrPath) != first {
			return "mixed-assets"
		}
	}
	if first == "" {
		return "mixed-assets"
	}
	return first
}
