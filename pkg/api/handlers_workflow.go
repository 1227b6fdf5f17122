package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/codeready-toolchain/knowledgepipeline/internal/errors"
)

// handleStart mints a fresh workflow_id, validates the request into a
// workflow.Input, and submits it to the worker pool instead of running it
// directly — the pool's own autoscaled goroutines run it, so pause/resume/
// cancel/progress on this job are served against the registry entry until
// it finishes (or, if every worker is already at max_workers, until it's
// dequeued).
func (s *Server) handleStart(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	workflowID := uuid.NewString()
	input, err := req.toInput(workflowID)
	if err != nil {
		if apierrors.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	o := s.pool.Submit(workflowID, input, func(error) {
		s.jobs.remove(workflowID)
	})
	s.jobs.put(workflowID, o)

	c.JSON(http.StatusAccepted, gin.H{
		"workflow_id": workflowID,
		"job_id": req.JobID,
		"knowledge_id": req.KnowledgeID,
		"status": "running",
	})
}

func (s *Server) handlePause(c *gin.Context) {
	o, ok := s.jobs.get(c.Param("workflow_id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "workflow not found or already finished"})
		return
	}
	o.Pause()
	c.JSON(http.StatusOK, gin.H{"status": "pause_requested"})
}

func (s *Server) handleResume(c *gin.Context) {
	o, ok := s.jobs.get(c.Param("workflow_id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "workflow not found or already finished"})
		return
	}
	o.Resume()
	c.JSON(http.StatusOK, gin.H{"status": "resume_requested"})
}

func (s *Server) handleCancel(c *gin.Context) {
	o, ok := s.jobs.get(c.Param("workflow_id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "workflow not found or already finished"})
		return
	}
	o.Cancel()
	c.JSON(http.StatusOK, gin.H{"status": "cancel_requested"})
}

// handleProgress answers the progress query: {phase,
// current_activity, items_processed, total_items, sources_ingested,
// screens_extracted, tasks_extracted, errors, elapsed_time}. It prefers the
// in-process orchestrator (cheaper — no round trip) and falls back to the
// persisted state, the durable source of truth across API restarts.
func (s *Server) handleProgress(c *gin.Context) {
	workflowID := c.Param("workflow_id")

	if o, ok := s.jobs.get(workflowID); ok {
		progress, err := o.Progress(c.Request.Context(), s.store, workflowID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		if progress != nil {
			c.JSON(http.StatusOK, progress)
			return
		}
	}

	state, err := s.store.LoadWorkflowState(c.Request.Context(), workflowID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "workflow not found"})
		return
	}
	c.JSON(http.StatusOK, state.Progress)
}
