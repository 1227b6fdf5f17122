package api

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

func isTerminalStatus(status knowledge.JobStatus) bool {
	switch status {
	case knowledge.JobCompleted, knowledge.JobFailed, knowledge.JobCancelled:
		return true
	default:
		return false
	}
}

const progressPollInterval = 1 * time.Second

// connManager accepts and tracks progress-stream connections. It is a
// deliberately thinner sibling of tarsy's pkg/events.ConnectionManager:
// tarsy's manager fans a single Postgres LISTEN/NOTIFY stream out to many
// subscribed channels per connection; this server has exactly one thing
// worth streaming per connection — one workflow's progress — so each
// connection polls its own workflow_states row instead of subscribing to a
// shared channel registry. The accept/read-loop/send-timeout shape is
// carried over directly from manager.go's HandleConnection.
type connManager struct {
	cfg *config.APIConfig
}

func newConnManager(cfg *config.APIConfig) *connManager {
	return &connManager{cfg: cfg}
}

func (m *connManager) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	if m.cfg != nil && len(m.cfg.AllowedWSOrigins) > 0 {
		opts.OriginPatterns = m.cfg.AllowedWSOrigins
	} else {
		opts.InsecureSkipVerify = true
	}
	return opts
}

// handleProgressStream upgrades to a WebSocket and pushes the workflow's
// progress snapshot every progressPollInterval until the job reaches a
// terminal status or the client disconnects.
func (s *Server) handleProgressStream(c *gin.Context) {
	workflowID := c.Param("workflow_id")

	conn, err := websocket.Accept(c.Writer, c.Request, s.conns.acceptOptions())
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()

	// detect client-initiated close without blocking the send loop
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(progressPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-disconnected:
			return
		case <-ticker.C:
			state, err := s.store.LoadWorkflowState(ctx, workflowID)
			if err != nil {
				continue
			}
			if state == nil {
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = wsjson.Write(writeCtx, conn, state.Progress)
			cancel()
			if err != nil {
				return
			}
			if isTerminalStatus(state.Status) {
				_ = conn.Close(websocket.StatusNormalClosure, "workflow finished")
				return
			}
		}
	}
}
