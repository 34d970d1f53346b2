// Package worker implements the fixed-size job pool described in §5: a
// small worker pool (default 2) executes ingestion and matching jobs, one
// job per worker, with strictly sequential work inside a job. It
// generalizes the teacher's internal/pipeline errgroup-based two-branch
// orchestrator from two fixed branches to an N-slot bounded pool.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// JobType distinguishes the two pipelines that share this pool (§2).
type JobType string

const (
	JobTypeCandidate JobType = "candidate"
	JobTypeEmployer  JobType = "employer"
)

// JobStatus mirrors the HTTP surface's status enum (§6).
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is the persisted-logical-layout "Jobs" row (§6), held in memory by the
// pool and readable via GET /jobs/{job_id}.
type Job struct {
	ID           string
	Type         JobType
	Status       JobStatus
	Progress     int
	Message      string
	Result       any
	ErrorMessage string
	CreatedAt    time.Time
}

// snapshot returns a copy safe to hand to a caller outside the pool's lock.
func (j *Job) snapshot() *Job {
	cp := *j
	return &cp
}

// Reporter lets a running task publish incremental progress without
// reaching back into the pool's internals.
type Reporter func(progress int, message string)

// Task is the unit of work a job runs. A task performs all of its work
// sequentially — per §5, there is no inter-requirement or inter-role
// parallelism inside a single job.
type Task func(ctx context.Context, report Reporter) (any, error)

// Pool runs at most `size` jobs concurrently. Submitting beyond capacity
// blocks the caller until a worker frees up, which is the pool's natural
// backpressure mechanism rather than an unbounded queue.
type Pool struct {
	mu   sync.Mutex
	jobs map[string]*Job

	group *errgroup.Group
}

// New builds a Pool with the given fixed worker count. A size <= 0 falls
// back to the spec's default of 2.
func New(size int) *Pool {
	if size <= 0 {
		size = 2
	}
	g := &errgroup.Group{}
	g.SetLimit(size)
	return &Pool{
		jobs:  make(map[string]*Job),
		group: g,
	}
}

// Submit registers a new job and schedules task on the pool. It returns
// immediately with the job's initial (queued) record; Submit itself may
// block if every worker is currently busy, which is the pool's bounded
// concurrency in action. now is supplied by the caller so job creation
// timestamps stay deterministic under test.
func (p *Pool) Submit(ctx context.Context, jobType JobType, now time.Time, task Task) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusQueued,
		CreatedAt: now,
	}
	initial := job.snapshot()

	p.mu.Lock()
	p.jobs[job.ID] = job
	p.mu.Unlock()

	p.group.Go(func() error {
		p.transition(job.ID, func(j *Job) {
			j.Status = StatusProcessing
		})

		report := func(progress int, message string) {
			p.transition(job.ID, func(j *Job) {
				j.Progress = progress
				j.Message = message
			})
		}

		result, err := task(ctx, report)
		if err != nil {
			p.transition(job.ID, func(j *Job) {
				j.Status = StatusFailed
				j.ErrorMessage = err.Error()
			})
			// A failed task never propagates through the group: one job's
			// failure must not cancel or block its siblings (§7 —
			// PersistenceError/ExtractionError fail only the current job).
			return nil
		}

		p.transition(job.ID, func(j *Job) {
			j.Status = StatusCompleted
			j.Progress = 100
			j.Result = result
		})
		return nil
	})

	return initial
}

func (p *Pool) transition(jobID string, mutate func(*Job)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if j, ok := p.jobs[jobID]; ok {
		mutate(j)
	}
}

// Get returns a point-in-time snapshot of a job's record, or false if the
// job id is unknown.
func (p *Pool) Get(jobID string) (*Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	j, ok := p.jobs[jobID]
	if !ok {
		return nil, false
	}
	return j.snapshot(), true
}

// Wait blocks until every submitted job has finished running. It is
// primarily useful for tests and for graceful shutdown; the pool never
// returns a non-nil error here because individual task failures are
// recorded on the job record, not propagated to the group.
func (p *Pool) Wait() error {
	return p.group.Wait()
}
