// Package models defines data structures for the docshelf document store.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// DefaultFolder is the built-in namespace that always exists.
const DefaultFolder = "default"

// Folder is a named partition of the knowledge base.
type Folder struct {
	ID      surrealmodels.RecordID `json:"id"`
	Name    string                 `json:"name"`
	Created time.Time              `json:"created,omitempty"`
}

// FileStatus is the ingestion outcome of a single file.
type FileStatus string

const (
	// FileSuccess: extracted and indexed.
	FileSuccess FileStatus = "success"
	// FileFailed: extraction or index write failed.
	FileFailed FileStatus = "failed"
	// FileError: rejected before extraction (unsupported or unreadable).
	FileError FileStatus = "error"
)

// Failed reports whether the status counts against the batch.
func (s FileStatus) Failed() bool {
	return s == FileFailed || s == FileError
}

// Document records one per-file extraction attempt inside a folder.
// Identity is (folder, filename); re-ingesting a filename replaces the record.
type Document struct {
	ID       surrealmodels.RecordID `json:"id"`
	Folder   string                 `json:"folder"`
	Filename string                 `json:"filename"`
	Status   FileStatus             `json:"status"`
	Error    *string                `json:"error,omitempty"`
	Pages    int                    `json:"pages"`
	Created  time.Time              `json:"created,omitempty"`
}

// Chunk is an indexed slice of extracted text.
type Chunk struct {
	ID        surrealmodels.RecordID `json:"id"`
	Folder    string                 `json:"folder"`
	Filename  string                 `json:"filename"`
	Page      int                    `json:"page"`
	Position  int                    `json:"position"`
	Content   string                 `json:"content"`
	Embedding []float32              `json:"embedding,omitempty"`
	Created   time.Time              `json:"created,omitempty"`
}

// ChunkInput is the insert payload for a chunk record.
type ChunkInput struct {
	Folder    string    `json:"folder"`
	Filename  string    `json:"filename"`
	Page      int       `json:"page"`
	Position  int       `json:"position"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}
