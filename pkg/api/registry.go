package api

import (
	"sync"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow"
)

// jobRegistry tracks the in-process Orchestrator driving each running job,
// so pause/resume/cancel requests arriving on a later HTTP call can reach
// the same instance that Start created. There is no cross-process handoff
// here — a crashed API process loses the registry entry, and the
// worker-pool orphan scan (pkg/workflow/pool.go) is what actually notices
// an orphaned job and marks it failed, not this map.
type jobRegistry struct {
	mu    sync.RWMutex
	byJob map[string]*workflow.Orchestrator
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{byJob: make(map[string]*workflow.Orchestrator)}
}

func (r *jobRegistry) put(jobID string, o *workflow.Orchestrator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byJob[jobID] = o
}

func (r *jobRegistry) get(jobID string) (*workflow.Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.byJob[jobID]
	return o, ok
}

func (r *jobRegistry) remove(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byJob, jobID)
}
