package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/internal/telemetry"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/workflow/activity"
)

const defaultOrphanScanInterval = 30 * time.Second

// job is one queued unit of work: run an Orchestrator over an Input, then
// notify the submitter when it's done so a registry entry (pkg/api's
// jobRegistry) can be retired.
type job struct {
	workflowID   string
	input        Input
	orchestrator *Orchestrator
	onDone       func(*jobResult)
}

// jobResult is the outcome handed to a job's onDone callback.
type jobResult struct {
	err error
}

// Pool is the activity plane's autoscaled job queue: it is the idiomatic-Go
// counterpart of a subprocess-based job manager that spawns OS worker
// processes and scales their count to queue depth — here the "workers" are
// goroutines pulling off an in-process channel instead of RQ workers
// pulling off a Redis list, because this pipeline has no cross-process
// worker fleet to manage, but the scaling policy (min/max workers, a
// queue-length threshold that triggers a step, a cooldown between steps,
// dead-worker detection and replacement) is the same one a subprocess
// manager would apply. It also runs the crash-recovery orphan scan: a
// "running" workflow_states row with no heartbeat inside HeartbeatTimeout
// is marked failed so operators see the job instead of it silently hanging
// forever, rather than guessing at resumption — see DESIGN.md for why
// resumption was scoped out.
type Pool struct {
	store   *store.Store
	ac      activity.Context
	phases  []PhaseRunner
	cfg     *config.WorkflowConfig
	metrics *telemetry.Metrics
	log     *slog.Logger

	queue  chan job
	retire chan struct{}

	workerCount atomic.Int32
	busyCount   atomic.Int32

	mu        sync.Mutex
	runCtx    context.Context
	lastScale time.Time
}

// NewPool builds a Pool ready to accept Submit calls once Run starts its
// scaling and scan loops. ac and phases are the same collaborators every
// Orchestrator this pool spawns is built from.
func NewPool(s *store.Store, ac activity.Context, cfg *config.WorkflowConfig, metrics *telemetry.Metrics, phases []PhaseRunner) *Pool {
	capacity := 100
	if cfg != nil && cfg.QueueCapacity > 0 {
		capacity = cfg.QueueCapacity
	}
	return &Pool{
		store:   s,
		ac:      ac,
		phases:  phases,
		cfg:     cfg,
		metrics: metrics,
		log:     slog.Default(),
		queue:   make(chan job, capacity),
		retire:  make(chan struct{}, 1),
	}
}

// Submit builds an Orchestrator for in and enqueues it, returning the
// Orchestrator immediately so the caller can register it (for
// pause/resume/cancel) before it actually starts running — queuing may
// delay the start if every worker is busy and the pool is already at
// max_workers. onDone fires exactly once, after the job finishes or if it
// is dropped because the queue is full.
func (p *Pool) Submit(workflowID string, in Input, onDone func(err error)) *Orchestrator {
	o := NewOrchestrator(p.ac, p.cfg, p.metrics, p.phases)
	j := job{
		workflowID:   workflowID,
		input:        in,
		orchestrator: o,
		onDone: func(res *jobResult) {
			if onDone != nil {
				onDone(res.err)
			}
		},
	}
	select {
	case p.queue <- j:
	default:
		p.log.Error("job queue full, dropping submission", "workflow_id", workflowID, "queue_name", p.queueName())
		if onDone != nil {
			onDone(fmt.Errorf("job queue full (capacity %d)", cap(p.queue)))
		}
	}
	return o
}

// Run starts the pool's worker goroutines (scaled up to min_workers), the
// autoscaling loop, and the orphan scan, blocking until ctx is cancelled.
func (p *Pool) Run(ctx context.Context) {
	p.mu.Lock()
	p.runCtx = ctx
	p.mu.Unlock()

	for i := 0; i < p.minWorkers(); i++ {
		p.spawnWorker(ctx)
	}

	scaleTicker := time.NewTicker(p.scaleCheckInterval())
	defer scaleTicker.Stop()
	orphanTicker := time.NewTicker(defaultOrphanScanInterval)
	defer orphanTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-scaleTicker.C:
			p.maybeRescale()
		case <-orphanTicker.C:
			p.scanOnce(ctx)
		}
	}
}

func (p *Pool) spawnWorker(ctx context.Context) {
	p.workerCount.Add(1)
	go p.runWorker(ctx)
}

// runWorker loops pulling jobs off the queue until ctx is cancelled or it
// is asked to retire. A panicking job is recovered inside runJob, logged,
// and reported to the job's onDone as its error; the worker goroutine
// itself keeps running.
func (p *Pool) runWorker(ctx context.Context) {
	defer p.workerCount.Add(-1)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.retire:
			return
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			p.runJob(ctx, j)
		}
	}
}

func (p *Pool) runJob(ctx context.Context, j job) {
	p.busyCount.Add(1)
	defer p.busyCount.Add(-1)
	p.publishGauges()

	log := telemetry.WorkflowLogger(j.workflowID, j.input.JobID, j.input.KnowledgeID)

	result := &jobResult{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("worker recovered from panic running job", "panic", r)
				result.err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		_, result.err = j.orchestrator.Run(ctx, j.input)
	}()

	if result.err != nil {
		log.Warn("workflow run ended with error", "error", result.err)
	}
	if j.onDone != nil {
		j.onDone(result)
	}
}

// maybeRescale checks the queue depth against configured thresholds and
// adjusts the worker count by at most one step, gated by scale_cooldown —
// the same cadence-and-step-size policy a subprocess job manager applies so
// a burst of enqueues doesn't thrash worker counts.
func (p *Pool) maybeRescale() {
	p.mu.Lock()
	if time.Since(p.lastScale) < p.scaleCooldown() {
		p.mu.Unlock()
		return
	}
	ctx := p.runCtx
	p.mu.Unlock()
	if ctx == nil {
		return
	}

	qlen := len(p.queue)
	current := int(p.workerCount.Load())
	target := current

	switch {
	case current < p.minWorkers():
		target = p.minWorkers()
	case qlen > p.scaleUpThreshold() && current < p.maxWorkers():
		target = current + 1
	case qlen <= p.scaleDownThreshold() && current > p.minWorkers():
		target = current - 1
	}

	if target == current {
		return
	}

	if target > current {
		p.spawnWorker(ctx)
		p.log.Info("scaled worker pool up", "queue_name", p.queueName(), "workers", target, "queue_length", qlen)
	} else {
		select {
		case p.retire <- struct{}{}:
			p.log.Info("scaled worker pool down", "queue_name", p.queueName(), "workers", target, "queue_length", qlen)
		default:
		}
	}

	p.mu.Lock()
	p.lastScale = time.Now()
	p.mu.Unlock()
	p.publishGauges()
}

func (p *Pool) publishGauges() {
	if p.metrics == nil {
		return
	}
	total := p.workerCount.Load()
	busy := p.busyCount.Load()
	idle := total - busy
	if idle < 0 {
		idle = 0
	}
	p.metrics.WorkerPoolActive.Set(float64(busy))
	p.metrics.WorkerPoolIdle.Set(float64(idle))
}

func (p *Pool) scanOnce(ctx context.Context) {
	staleAfter := p.heartbeatTimeout()
	ids, err := p.store.ClaimOrphanedWorkflows(ctx, staleAfter)
	if err != nil {
		p.log.Warn("orphan scan failed", "error", err)
		return
	}
	for _, id := range ids {
		p.log.Warn("marked orphaned workflow failed", "workflow_id", id)
	}
	if p.metrics != nil && len(ids) > 0 {
		p.metrics.OrphansRecovered.Add(float64(len(ids)))
	}
}

func (p *Pool) heartbeatTimeout() time.Duration {
	if p.cfg != nil && p.cfg.HeartbeatTimeout > 0 {
		return p.cfg.HeartbeatTimeout
	}
	return 5 * time.Minute
}

func (p *Pool) queueName() string {
	if p.cfg != nil && p.cfg.QueueName != "" {
		return p.cfg.QueueName
	}
	return "knowledge-retrieval"
}

func (p *Pool) minWorkers() int {
	if p.cfg != nil && p.cfg.MinWorkers > 0 {
		return p.cfg.MinWorkers
	}
	return 1
}

func (p *Pool) maxWorkers() int {
	if p.cfg != nil && p.cfg.MaxWorkers > 0 {
		return p.cfg.MaxWorkers
	}
	return 5
}

func (p *Pool) scaleUpThreshold() int {
	if p.cfg != nil && p.cfg.ScaleUpThreshold > 0 {
		return p.cfg.ScaleUpThreshold
	}
	return 5
}

func (p *Pool) scaleDownThreshold() int {
	if p.cfg != nil {
		return p.cfg.ScaleDownThreshold
	}
	return 0
}

func (p *Pool) scaleCooldown() time.Duration {
	if p.cfg != nil && p.cfg.ScaleCooldown > 0 {
		return p.cfg.ScaleCooldown
	}
	return 30 * time.Second
}

func (p *Pool) scaleCheckInterval() time.Duration {
	if p.cfg != nil && p.cfg.ScaleCheckInterval > 0 {
		return p.cfg.ScaleCheckInterval
	}
	return 10 * time.Second
}
