package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/raphaelgruber/docshelf/internal/extract"
	"github.com/raphaelgruber/docshelf/internal/metrics"
	"github.com/raphaelgruber/docshelf/internal/models"
)

// Writer is the indexing capability consumed by the worker. index.StoreWriter
// satisfies it; tests substitute fakes.
type Writer interface {
	Write(ctx context.Context, folder, filename string, pages []string) error
	RecordFailure(ctx context.Context, folder, filename string, status models.FileStatus, reason string) error
}

// FileUpload is one file of a submitted batch.
type FileUpload struct {
	Filename string
	Content  []byte
}

// Ingestor accepts document batches and processes them asynchronously. One
// worker goroutine per job; a job's files are processed sequentially so the
// worker is the sole writer of its progress counters.
type Ingestor struct {
	folders   *FolderService
	jobs      *JobStore
	extractor *extract.Registry
	writer    Writer
	metrics   *metrics.Collector
	logger    *slog.Logger
}

func NewIngestor(folders *FolderService, jobs *JobStore, registry *extract.Registry, writer Writer, collector *metrics.Collector, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		folders:   folders,
		jobs:      jobs,
		extractor: registry,
		writer:    writer,
		metrics:   collector,
		logger:    logger,
	}
}

// Submit validates the batch, registers a queued job and starts its worker.
// It returns as soon as the job is accepted; progress is observed by polling.
func (s *Ingestor) Submit(ctx context.Context, folder, jobID string, files []FileUpload) (*Job, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("batch has no files")
	}
	if err := s.folders.EnsureTarget(ctx, folder); err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}

	job, err := s.jobs.Create(jobID, folder, names)
	if err != nil {
		return nil, err
	}

	go s.process(job, folder, files)

	return job, nil
}

// process runs one batch to a terminal state. It never returns an error:
// per-file failures are absorbed into results, batch-fatal faults fail the
// job.
func (s *Ingestor) process(job *Job, folder string, files []FileUpload) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ingest worker panicked", "job_id", job.ID, "panic", r)
			job.fail(fmt.Errorf("internal panic: %v", r))
		}
	}()

	ctx := context.Background()
	job.setProcessing()

	// Pre-count pages across the batch so percent is meaningful from the
	// first page onward. Files that cannot be counted are rejected here and
	// contribute zero pages.
	type plan struct {
		upload    FileUpload
		extractor extract.Extractor
		pages     int
		rejected  *FileResult
	}

	plans := make([]plan, 0, len(files))
	total := 0
	for _, f := range files {
		x, ok := s.extractor.ForFile(f.Filename)
		if !ok {
			supported := append([]string(nil), s.extractor.Supported()...)
			sort.Strings(supported)
			plans = append(plans, plan{upload: f, rejected: &FileResult{
				Filename: f.Filename,
				Status:   models.FileError,
				Error:    fmt.Sprintf("unsupported file type (supported: %s)", strings.Join(supported, ", ")),
			}})
			continue
		}

		pages, err := x.PageCount(f.Content)
		if err != nil {
			plans = append(plans, plan{upload: f, rejected: &FileResult{
				Filename: f.Filename,
				Status:   models.FileError,
				Error:    fmt.Sprintf("unreadable file: %v", err),
			}})
			continue
		}

		plans = append(plans, plan{upload: f, extractor: x, pages: pages})
		total += pages
	}
	job.setTotalPages(total)

	for _, p := range plans {
		if job.isInvalidated() {
			job.fail(ErrFolderVanished)
			return
		}

		if p.rejected != nil {
			job.recordResult(*p.rejected)
			_ = s.writer.RecordFailure(ctx, folder, p.upload.Filename, models.FileError, p.rejected.Error)
			continue
		}

		result := s.processFile(ctx, job, folder, p.upload, p.extractor, p.pages)
		if job.isInvalidated() {
			job.fail(ErrFolderVanished)
			return
		}
		job.recordResult(result)

		if result.Status.Failed() {
			_ = s.writer.RecordFailure(ctx, folder, p.upload.Filename, result.Status, result.Error)
		}
	}

	job.complete()
	s.logger.Info("job finished",
		"job_id", job.ID,
		"folder", folder,
		"outcome", string(job.Snapshot().Outcome()))
}

// processFile extracts every page of one file and indexes the text. A
// failure yields a failed result; it never aborts the batch.
func (s *Ingestor) processFile(ctx context.Context, job *Job, folder string, f FileUpload, x extract.Extractor, pages int) FileResult {
	texts := make([]string, 0, pages)
	for page := 0; page < pages; page++ {
		if job.isInvalidated() {
			// Count the remaining pages so percent still reaches the total
			// the poller was promised, then let the caller fail the job.
			for p := page; p < pages; p++ {
				job.advancePage()
			}
			return FileResult{Filename: f.Filename, Status: models.FileFailed, Error: ErrFolderVanished.Error()}
		}

		start := time.Now()
		text, err := x.ExtractPage(ctx, f.Content, page)
		s.record(metrics.OpExtractPage, time.Since(start), err)
		if err != nil {
			// Skip the pages we will not process.
			for p := page; p < pages; p++ {
				job.advancePage()
			}
			xerr := &extract.Error{File: f.Filename, Page: page, Err: err}
			s.logger.Warn("extraction failed", "job_id", job.ID, "filename", f.Filename, "page", page+1, "error", err)
			return FileResult{Filename: f.Filename, Status: models.FileFailed, Error: xerr.Error()}
		}

		texts = append(texts, text)
		job.advancePage()
	}

	if job.isInvalidated() {
		return FileResult{Filename: f.Filename, Status: models.FileFailed, Error: ErrFolderVanished.Error()}
	}

	if err := s.writer.Write(ctx, folder, f.Filename, texts); err != nil {
		s.logger.Warn("index write failed", "job_id", job.ID, "filename", f.Filename, "error", err)
		return FileResult{Filename: f.Filename, Status: models.FileFailed, Error: fmt.Sprintf("index write: %v", err)}
	}

	return FileResult{Filename: f.Filename, Status: models.FileSuccess}
}

func (s *Ingestor) record(op string, d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.Record(op, d, err)
	}
}
