// Package server exposes the folder, ingestion and query services over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/index"
	"github.com/raphaelgruber/docshelf/internal/metrics"
	"github.com/raphaelgruber/docshelf/internal/models"
	"github.com/raphaelgruber/docshelf/internal/service"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 256 << 20

// StatsCounter provides record counts for the stats endpoint. *db.Client
// satisfies it.
type StatsCounter interface {
	CountRecords(ctx context.Context) (db.Counts, error)
}

// Server wires HTTP routes to the service layer with lifecycle management.
type Server struct {
	folders *service.FolderService
	ingest  *service.Ingestor
	jobs    *service.JobStore
	query   *service.QueryService
	counter StatsCounter
	metrics *metrics.Collector
	logger  *slog.Logger

	http *http.Server
}

// New creates the HTTP server on the given address.
func New(addr string, folders *service.FolderService, ingest *service.Ingestor, jobs *service.JobStore, query *service.QueryService, counter StatsCounter, collector *metrics.Collector, logger *slog.Logger) *Server {
	s := &Server{
		folders: folders,
		ingest:  ingest,
		jobs:    jobs,
		query:   query,
		counter: counter,
		metrics: collector,
		logger:  logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           LoggingMiddleware(logger)(s.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /folders", s.handleListFolders)
	mux.HandleFunc("POST /folders", s.handleCreateFolder)
	mux.HandleFunc("DELETE /folders/{name}", s.handleDeleteFolder)
	mux.HandleFunc("GET /folders/{name}/files", s.handleListFiles)

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /upload-status/{job_id}", s.handleUploadStatus)
	mux.HandleFunc("GET /jobs", s.handleListJobs)

	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return mux
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(shutdownCtx)
}

type folderResponse struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.folders.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]folderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, folderResponse{Name: f.Name, Created: f.Created})
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": out})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	folder, err := s.folders.Create(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folderResponse{Name: folder.Name, Created: folder.Created})
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.folders.Delete(r.Context(), r.PathValue("name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	files, err := s.folders.Files(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"folder": name, "files": files})
}

type uploadResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// handleUpload accepts a multipart batch and returns 202 as soon as the job
// is registered. Progress is observed through the status endpoint.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid multipart request: %v", err)))
		return
	}

	folder := r.FormValue("folder_name")
	if folder == "" {
		folder = models.DefaultFolder
	}
	jobID := r.FormValue("job_id")

	var files []service.FileUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("reading upload %s: %v", header.Filename, err)))
				return
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("reading upload %s: %v", header.Filename, err)))
				return
			}
			files = append(files, service.FileUpload{Filename: index.SanitizeFilename(header.Filename), Content: content})
		}
	}
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("no files in upload"))
		return
	}

	job, err := s.ingest.Submit(r.Context(), folder, jobID, files)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, uploadResponse{
		JobID:  job.ID,
		Status: string(job.Snapshot().Status),
	})
}

type jobStatusResponse struct {
	JobID       string               `json:"job_id"`
	Folder      string               `json:"folder"`
	Status      string               `json:"status"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	Percent     int                  `json:"percent"`
	Outcome     string               `json:"outcome,omitempty"`
	Results     []service.FileResult `json:"results,omitempty"`
	Error       string               `json:"error,omitempty"`
}

func jobStatusBody(snap service.Job) jobStatusResponse {
	resp := jobStatusResponse{
		JobID:       snap.ID,
		Folder:      snap.Folder,
		Status:      string(snap.Status),
		CurrentPage: snap.CurrentPage,
		TotalPages:  snap.TotalPages,
		Percent:     snap.Percent(),
		Error:       snap.Error,
	}
	// Results and classification only once the job is terminal, so pollers
	// never act on a half-built outcome.
	if snap.Status.Terminal() {
		resp.Outcome = string(snap.Outcome())
		resp.Results = snap.Results
	}
	return resp
}

func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.PathValue("job_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobStatusBody(job.Snapshot()))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	snaps := s.jobs.List()
	out := make([]jobStatusResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, jobStatusBody(snap))
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": out})
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Folders []string `json:"folders"`
	Sources []source `json:"sources,omitempty"`
}

type source struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Page     int    `json:"page"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
		Scope    string `json:"folder_name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ans, err := s.query.Ask(r.Context(), req.Question, models.ParseScope(req.Scope))
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := queryResponse{Answer: ans.Text, Folders: ans.Folders}
	for _, h := range ans.Sources {
		resp.Sources = append(resp.Sources, source{Folder: h.Folder, Filename: h.Filename, Page: h.Page})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if s.metrics != nil {
		body["operations"] = s.metrics.Snapshot()
	}
	if s.counter != nil {
		counts, err := s.counter.CountRecords(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		body["records"] = counts
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
