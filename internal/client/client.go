// Package client provides an HTTP client for the docshelf server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// Client is an HTTP client for the docshelf server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new client.
// If baseURL is empty, uses DOCSHELF_SERVER_URL env var or defaults to localhost:8000.
// Timeout can be configured via DOCSHELF_CLIENT_TIMEOUT env var (default 10m for large uploads).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("DOCSHELF_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	timeout := 10 * time.Minute
	if t := os.Getenv("DOCSHELF_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the server's error payload.
type apiError struct {
	Detail string `json:"detail"`
}

// do executes a request and decodes the JSON response into result.
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Detail != "" {
			return fmt.Errorf("server error (%s): %s", resp.Status, apiErr.Detail)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

// Folder is a folder listing entry.
type Folder struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// ListFolders returns all folders.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	var resp struct {
		Folders []Folder `json:"folders"`
	}
	if err := c.getJSON(ctx, "/folders", &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// CreateFolder registers a new folder.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	var folder Folder
	if err := c.postJSON(ctx, "/folders", map[string]string{"name": name}, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// DeleteFolder removes a folder with everything in it.
func (c *Client) DeleteFolder(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/folders/"+name, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

// ListFiles returns the indexed filenames in a folder.
func (c *Client) ListFiles(ctx context.Context, folder string) ([]string, error) {
	var resp struct {
		Files []string `json:"files"`
	}
	if err := c.getJSON(ctx, "/folders/"+folder+"/files", &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Filename string
	Content  []byte
}

// UploadAccepted is the acknowledgement returned on batch submission.
type UploadAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Upload submits a batch for asynchronous ingestion. The returned job id is
// polled with JobStatus until the job is terminal.
func (c *Client) Upload(ctx context.Context, folder, jobID string, files []UploadFile) (*UploadAccepted, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("folder_name", folder); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if jobID != "" {
		if err := mw.WriteField("job_id", jobID); err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.Filename)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var accepted UploadAccepted
	if err := c.do(req, &accepted); err != nil {
		return nil, err
	}
	return &accepted, nil
}

// FileResult is the recorded outcome of one file in a batch.
type FileResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// JobStatusInfo is a point-in-time job snapshot.
type JobStatusInfo struct {
	JobID       string       `json:"job_id"`
	Folder      string       `json:"folder"`
	Status      string       `json:"status"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
	Percent     int          `json:"percent"`
	Outcome     string       `json:"outcome,omitempty"`
	Results     []FileResult `json:"results,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Terminal reports whether the job has finished.
func (j JobStatusInfo) Terminal() bool {
	return j.Status == "completed" || j.Status == "failed"
}

// JobStatus polls the status of one job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*JobStatusInfo, error) {
	var status JobStatusInfo
	if err := c.getJSON(ctx, "/upload-status/"+jobID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListJobs returns all known jobs, most recent first.
func (c *Client) ListJobs(ctx context.Context) ([]JobStatusInfo, error) {
	var resp struct {
		Jobs []JobStatusInfo `json:"jobs"`
	}
	if err := c.getJSON(ctx, "/jobs", &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// Source is a retrieved chunk reference backing an answer.
type Source struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Page     int    `json:"page"`
}

// QueryResult is the answer to one question.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Folders []string `json:"folders"`
	Sources []Source `json:"sources,omitempty"`
}

// Query asks a question scoped to a folder, or globally when scope is "All"
// or empty.
func (c *Client) Query(ctx context.Context, question, scope string) (*QueryResult, error) {
	payload := map[string]string{"question": question, "folder_name": scope}
	var result QueryResult
	if err := c.postJSON(ctx, "/query", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats fetches the server stats payload.
func (c *Client) Stats(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/stats", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
