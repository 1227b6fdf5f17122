// Package api implements the HTTP/REST (and WebSocket) boundary:
// start/pause/resume/cancel a workflow, query extracted knowledge by
// id, stream progress, and agent-assistance. It follows the shape of
// tarsy's pkg/api — a single Server struct — but is assembled by the
// NewServer constructor rather than Set* wiring methods, reimplemented on
// gin-gonic/gin rather than echo, since that is the web framework this
// project's go.mod actually carries (tarsy itself is inconsistent here:
// cmd/tarsy/main.go wires gin.Default while pkg/api uses echo v5 — we
// follow the framework our own dependency graph settled on).
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/browser"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/llm"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

// Server wires the REST/WebSocket surface to the orchestrator, store, and
// the LLM/browser collaborators the agent-assistance endpoint needs.
type Server struct {
	cfg *config.APIConfig
	engine *gin.Engine
	http *http.Server
	log *slog.Logger

	store *store.Store
	llm llm.Client
	browser browser.Driver
	ac activity.Context
	phases []workflow.PhaseRunner
	pool *workflow.Pool
	jobs *jobRegistry
	conns *connManager
}

// NewServer builds a Server with all dependencies wired up front — unlike
// tarsy's Set*-method pattern, this project has a single known set of
// collaborators assembled once in cmd/pipelineworker/main.go, so a
// constructor replaces the incremental setter dance while keeping the same
// "fail fast on a missing dependency" intent via the nil checks below.
func NewServer(cfg *config.APIConfig, s *store.Store, llmClient llm.Client, driver browser.Driver, ac activity.Context, phases []workflow.PhaseRunner, pool *workflow.Pool, log *slog.Logger) (*Server, error) {
	if s == nil {
		return nil, fmt.Errorf("api: store is required")
	}
	if len(phases) == 0 {
		return nil, fmt.Errorf("api: at least one workflow phase is required")
	}
	if pool == nil {
		return nil, fmt.Errorf("api: worker pool is required")
	}
	if log == nil {
		log = slog.Default()
	}

	gin.SetMode(ginModeOrDefault(cfg))
	engine := gin.Default()

	srv := &Server{
		cfg: cfg,
		engine: engine,
		log: log,
		store: s,
		llm: llmClient,
		browser: driver,
		ac: ac,
		phases: phases,
		pool: pool,
		jobs: newJobRegistry(),
		conns: newConnManager(cfg),
	}
	srv.setupRoutes()
	return srv, nil
}

func ginModeOrDefault(cfg *config.APIConfig) string {
	if cfg == nil || cfg.GinMode == "" {
		return gin.ReleaseMode
	}
	return cfg.GinMode
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)

	jobs := s.engine.Group("/jobs")
	jobs.POST("", s.handleStart)
	jobs.POST("/:workflow_id/pause", s.handlePause)
	jobs.POST("/:workflow_id/resume", s.handleResume)
	jobs.POST("/:workflow_id/cancel", s.handleCancel)
	jobs.GET("/:workflow_id/progress", s.handleProgress)
	jobs.GET("/:workflow_id/stream", s.handleProgressStream)

	s.engine.GET("/knowledge/:knowledge_id", s.handleKnowledgeQuery)
	s.engine.POST("/assist", s.handleAssist)
}

// Start runs the HTTP server until ctx is cancelled or an unrecoverable
// listener error occurs, mirroring cmd/tarsy/main.go's blocking ListenAndServe
// plus signal-driven graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := ":8080"
	if s.cfg != nil && s.cfg.HTTPPort != "" {
		addr = ":" + s.cfg.HTTPPort
	}
	s.http = &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
