// Package compute runs independent orbit computations on a bounded worker pool.
package compute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// JobFunc is the work a job performs
type JobFunc func(ctx context.Context) (interface{}, error)

// Job is one unit of work submitted to a JobManager
type Job struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Status      JobStatus   `json:"status"`
	Result      interface{} `json:"result,omitempty"`
	Error       string      `json:"error,omitempty"`
	SubmittedAt time.Time   `json:"submitted_at"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`

	fn   JobFunc
	err  error
	done chan struct{}
	mu   sync.RWMutex
}

// Done is closed once the job finished, failed or was cancelled
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Outcome returns the result and error of a finished job
func (j *Job) Outcome() (interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Result, j.err
}

// State returns the current status
func (j *Job) State() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// JobManager runs submitted jobs on a fixed number of workers in FIFO order
type JobManager struct {
	jobs       map[string]*Job
	order      []string
	jobCounter int64
	mu         sync.RWMutex

	queue        chan *Job
	sendMu       sync.RWMutex
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	logger log.Logger
}

// NewJobManager starts a pool of workers. queueSize bounds the number of
// jobs waiting to run.
func NewJobManager(workers, queueSize int, logger log.Logger) *JobManager {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	jm := &JobManager{
		jobs:   make(map[string]*Job),
		queue:  make(chan *Job, queueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("module", "compute"),
	}

	for i := 0; i < workers; i++ {
		jm.wg.Add(1)
		go jm.worker()
	}
	return jm
}

func (jm *JobManager) worker() {
	defer jm.wg.Done()
	for {
		select {
		case <-jm.ctx.Done():
			return
		case job := <-jm.queue:
			jm.processJob(job)
		}
	}
}

// Submit queues fn under name. It blocks while the queue is full and fails
// once ctx is done or the manager is shut down.
func (jm *JobManager) Submit(ctx context.Context, name string, fn JobFunc) (*Job, error) {
	if jm.ctx.Err() != nil {
		return nil, fmt.Errorf("job manager is shut down")
	}

	jm.mu.Lock()
	jm.jobCounter++
	job := &Job{
		ID:          fmt.Sprintf("%s-%d", name, jm.jobCounter),
		Name:        name,
		Status:      StatusQueued,
		SubmittedAt: time.Now(),
		fn:          fn,
		done:        make(chan struct{}),
	}
	jm.jobs[job.ID] = job
	jm.order = append(jm.order, job.ID)
	jm.mu.Unlock()

	// Shutdown drains the queue only after every sender released sendMu,
	// so a job sent here is either run or cancelled, never stranded.
	jm.sendMu.RLock()
	defer jm.sendMu.RUnlock()
	if jm.ctx.Err() != nil {
		jm.finish(job, StatusCancelled, nil, jm.ctx.Err())
		return job, fmt.Errorf("job manager is shut down")
	}

	select {
	case jm.queue <- job:
		return job, nil
	case <-ctx.Done():
		jm.finish(job, StatusCancelled, nil, ctx.Err())
		return job, ctx.Err()
	case <-jm.ctx.Done():
		jm.finish(job, StatusCancelled, nil, jm.ctx.Err())
		return job, fmt.Errorf("job manager is shut down")
	}
}

func (jm *JobManager) processJob(job *Job) {
	now := time.Now()
	job.mu.Lock()
	job.Status = StatusRunning
	job.StartedAt = &now
	job.mu.Unlock()

	var (
		result interface{}
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		result, err = job.fn(jm.ctx)
	}()

	if err != nil {
		jm.logger.Warn("job failed", "job", job.ID, "error", err)
		jm.finish(job, StatusFailed, nil, err)
		return
	}
	jm.finish(job, StatusCompleted, result, nil)
}

func (jm *JobManager) finish(job *Job, status JobStatus, result interface{}, err error) {
	now := time.Now()
	job.mu.Lock()
	job.Status = status
	job.Result = result
	job.err = err
	if err != nil {
		job.Error = err.Error()
	}
	job.CompletedAt = &now
	job.mu.Unlock()
	close(job.done)
}

// Wait blocks until every given job is done or ctx ends
func Wait(ctx context.Context, jobs ...*Job) error {
	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// GetJob retrieves a job by ID
func (jm *JobManager) GetJob(jobID string) (*Job, error) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return job, nil
}

// ListJobs returns jobs in submission order, optionally filtered by status
func (jm *JobManager) ListJobs(status JobStatus) []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	var out []*Job
	for _, id := range jm.order {
		job := jm.jobs[id]
		if status != "" && job.State() != status {
			continue
		}
		out = append(out, job)
	}
	return out
}

// QueueStatus summarizes the jobs known to the manager
type QueueStatus struct {
	Queued    int `json:"queued"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// GetQueueStatus counts jobs by status
func (jm *JobManager) GetQueueStatus() QueueStatus {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	var qs QueueStatus
	for _, job := range jm.jobs {
		switch job.State() {
		case StatusQueued:
			qs.Queued++
		case StatusRunning:
			qs.Running++
		case StatusCompleted:
			qs.Completed++
		case StatusFailed:
			qs.Failed++
		case StatusCancelled:
			qs.Cancelled++
		}
	}
	return qs
}

// Shutdown stops the workers once the running jobs return. Jobs still
// queued are marked cancelled.
func (jm *JobManager) Shutdown() {
	jm.shutdownOnce.Do(func() {
		jm.cancel()
		jm.sendMu.Lock()
		defer jm.sendMu.Unlock()
		jm.wg.Wait()
		for {
			select {
			case job := <-jm.queue:
				jm.finish(job, StatusCancelled, nil, context.Canceled)
			default:
				return
			}
		}
	})
}
