// Package service provides business logic for docshelf operations.
package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raphaelgruber/docshelf/internal/models"
)

// JobStatus represents the state of an ingestion job.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Outcome classifies a finished batch by its per-file results.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial"
	OutcomeError   Outcome = "error"
)

// FileResult is the recorded outcome of one file in a batch.
type FileResult struct {
	Filename string            `json:"filename"`
	Status   models.FileStatus `json:"status"`
	Error    string            `json:"error,omitempty"`
}

// Job tracks one ingestion batch. All exported fields are read through
// Snapshot; the worker goroutine that owns the job is the only writer.
type Job struct {
	ID          string
	Folder      string
	Files       []string
	Status      JobStatus
	CurrentPage int
	TotalPages  int
	Results     []FileResult
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time

	mu          sync.RWMutex
	invalidated bool
}

// Snapshot returns a consistent copy of the job state. Progress and percent
// always agree within one snapshot, even while the worker advances.
func (j *Job) Snapshot() Job {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return Job{
		ID:          j.ID,
		Folder:      j.Folder,
		Files:       slices.Clone(j.Files),
		Status:      j.Status,
		CurrentPage: j.CurrentPage,
		TotalPages:  j.TotalPages,
		Results:     slices.Clone(j.Results),
		Error:       j.Error,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

// Percent derives batch completion as round(current/total*100), clamped
// to [0, 100]. Zero total pages reads as zero percent.
func (j Job) Percent() int {
	if j.TotalPages <= 0 {
		return 0
	}
	p := (j.CurrentPage*100 + j.TotalPages/2) / j.TotalPages
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Outcome classifies the batch from its per-file results: success if no
// file failed, error if every file failed, partial otherwise. A job that
// aborted before recording results (batch-fatal fault) is an error.
func (j Job) Outcome() Outcome {
	if j.Status == JobStatusFailed {
		return OutcomeError
	}
	if len(j.Results) == 0 {
		return OutcomeSuccess
	}
	failed := 0
	for _, r := range j.Results {
		if r.Status.Failed() {
			failed++
		}
	}
	switch failed {
	case 0:
		return OutcomeSuccess
	case len(j.Results):
		return OutcomeError
	default:
		return OutcomePartial
	}
}

// setProcessing transitions queued → processing. Terminal states are frozen.
func (j *Job) setProcessing() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status == JobStatusQueued {
		j.Status = JobStatusProcessing
	}
}

// setTotalPages records the batch page total once pre-counting finishes.
func (j *Job) setTotalPages(total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.Status.Terminal() {
		j.TotalPages = total
	}
}

// advancePage bumps the cumulative page counter by one.
func (j *Job) advancePage() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.Status.Terminal() {
		j.CurrentPage++
	}
}

// recordResult appends one file outcome. Results keep submission order
// because the worker processes files sequentially.
func (j *Job) recordResult(r FileResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.Status.Terminal() {
		j.Results = append(j.Results, r)
	}
}

// complete freezes the job in the completed state.
func (j *Job) complete() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
}

// fail freezes the job in the failed state with a reason.
func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return
	}
	j.Status = JobStatusFailed
	j.Error = err.Error()
	now := time.Now()
	j.CompletedAt = &now
}

// invalidate marks the job's target folder as deleted. The worker checks
// this between pages and aborts with ErrFolderVanished.
func (j *Job) invalidate() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.Status.Terminal() {
		j.invalidated = true
	}
}

func (j *Job) isInvalidated() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.invalidated
}

// JobStore tracks ingestion jobs in memory. Terminal jobs are garbage
// collected after the retention window, after which their ids may be reused.
type JobStore struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	retention time.Duration
	logger    *slog.Logger
}

// NewJobStore creates a job store. retention bounds how long terminal jobs
// stay pollable; zero or negative falls back to one hour.
func NewJobStore(retention time.Duration, logger *slog.Logger) *JobStore {
	if retention <= 0 {
		retention = time.Hour
	}
	return &JobStore{
		jobs:      make(map[string]*Job),
		retention: retention,
		logger:    logger,
	}
}

// Create registers a new queued job. An empty id gets a generated UUID; a
// caller-supplied id that collides with a live job fails with
// ErrDuplicateJobID.
func (s *JobStore) Create(id, folder string, files []string) (*Job, error) {
	if id == "" {
		id = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return nil, ErrDuplicateJobID
	}

	job := &Job{
		ID:        id,
		Folder:    folder,
		Files:     slices.Clone(files),
		Status:    JobStatusQueued,
		StartedAt: time.Now(),
	}
	s.jobs[id] = job

	s.logger.Info("job created", "job_id", id, "folder", folder, "files", len(files))
	return job, nil
}

// Get retrieves a job by id, failing with ErrJobNotFound for unknown or
// already collected ids.
func (s *JobStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// List returns snapshots of all jobs, most recent first.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.RUnlock()

	snapshots := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		snapshots = append(snapshots, job.Snapshot())
	}
	slices.SortFunc(snapshots, func(a, b Job) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return snapshots
}

// InvalidateFolder marks every non-terminal job targeting the folder. Their
// workers fail them with ErrFolderVanished at the next page boundary.
func (s *JobStore) InvalidateFolder(folder string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.Folder == folder {
			job.invalidate()
		}
	}
}

// StartJanitor runs periodic collection of expired terminal jobs until ctx
// is cancelled.
func (s *JobStore) StartJanitor(ctx context.Context) {
	interval := s.retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.collect(time.Now())
			}
		}
	}()
}

// collect removes terminal jobs whose completion predates the retention
// window.
func (s *JobStore) collect(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, job := range s.jobs {
		snap := job.Snapshot()
		if snap.Status.Terminal() && snap.CompletedAt != nil && now.Sub(*snap.CompletedAt) > s.retention {
			delete(s.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("collected expired jobs", "count", removed)
	}
	return removed
}
