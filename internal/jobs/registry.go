// Package jobs tracks in-flight async extraction jobs in process memory.
// There is no durability: a crash loses every job silently.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"audioextractor/internal/core/domain"
)

// ErrCapacity is returned when the registry is at its concurrency cap.
var ErrCapacity = errors.New("async job capacity reached")

// maxFinished bounds how many terminal jobs are retained for /jobs
// visibility before FIFO eviction.
const maxFinished = 100

// Registry is a bounded in-memory job table. A semaphore caps the number
// of concurrently in-flight jobs so background work cannot grow unboundedly
// under load.
type Registry struct {
	slots chan struct{}

	mu       sync.Mutex
	jobs     map[string]domain.Job
	finished []string
}

// NewRegistry creates a registry allowing up to maxConcurrent in-flight jobs.
func NewRegistry(maxConcurrent int) *Registry {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Registry{
		slots: make(chan struct{}, maxConcurrent),
		jobs:  make(map[string]domain.Job),
	}
}

// Accept reserves a slot and records a new job. It returns ErrCapacity
// without blocking when the cap is reached.
func (r *Registry) Accept(url, transcriptionID string) (domain.Job, error) {
	select {
	case r.slots <- struct{}{}:
	default:
		return domain.Job{}, ErrCapacity
	}

	job := domain.Job{
		ID:              uuid.New().String(),
		URL:             url,
		TranscriptionID: transcriptionID,
		Status:          domain.JobStatusAccepted,
		CreatedAt:       time.Now().UTC(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	return job, nil
}

// Start marks a job as running.
func (r *Registry) Start(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}
	job.Status = domain.JobStatusRunning
	r.jobs[id] = job
}

// Finish moves a job to its terminal status and releases its slot. A
// non-empty errMsg marks the job failed.
func (r *Registry) Finish(id, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return
	}

	now := time.Now().UTC()
	job.CompletedAt = &now
	if errMsg != "" {
		job.Status = domain.JobStatusFailed
		job.Error = errMsg
	} else {
		job.Status = domain.JobStatusSucceeded
	}
	r.jobs[id] = job

	r.finished = append(r.finished, id)
	for len(r.finished) > maxFinished {
		delete(r.jobs, r.finished[0])
		r.finished = r.finished[1:]
	}

	<-r.slots
}

// Snapshot returns a copy of every tracked job, for operational visibility.
func (r *Registry) Snapshot() []domain.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job)
	}
	return out
}

// InFlight reports the number of jobs currently holding a slot.
func (r *Registry) InFlight() int {
	return len(r.slots)
}

// Capacity reports the concurrency cap.
func (r *Registry) Capacity() int {
	return cap(r.slots)
}
