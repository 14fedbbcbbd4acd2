package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory FolderStore.
type fakeStore struct {
	mu      sync.Mutex
	folders []string
	docs    map[string][]models.Document
}

func newFakeStore(folders ...string) *fakeStore {
	return &fakeStore{
		folders: folders,
		docs:    make(map[string][]models.Document),
	}
}

func (f *fakeStore) CreateFolder(_ context.Context, name string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.folders {
		if n == name {
			return nil, fmt.Errorf("%w: %s", db.ErrAlreadyExists, name)
		}
	}
	f.folders = append(f.folders, name)
	return &models.Folder{Name: name, Created: time.Now()}, nil
}

func (f *fakeStore) ListFolders(context.Context) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Folder, 0, len(f.folders))
	for _, n := range f.folders {
		out = append(out, models.Folder{Name: n})
	}
	return out, nil
}

func (f *fakeStore) FolderExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.folders {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) DeleteFolder(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.folders {
		if n == name {
			f.folders = append(f.folders[:i], f.folders[i+1:]...)
			break
		}
	}
	delete(f.docs, name)
	return nil
}

func (f *fakeStore) ListDocuments(_ context.Context, folder string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Document(nil), f.docs[folder]...), nil
}

func (f *fakeStore) ListIndexedFiles(_ context.Context, folder string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, d := range f.docs[folder] {
		if d.Status == models.FileSuccess {
			names = append(names, d.Filename)
		}
	}
	return names, nil
}

// fakeWriter records indexing calls. writeErr, when set, fails Write for
// filenames in failFiles (or all files when failFiles is empty).
type fakeWriter struct {
	mu        sync.Mutex
	written   map[string][]string // filename -> pages
	failures  map[string]string   // filename -> recorded reason
	writeErr  error
	failFiles map[string]bool
	blockCh   chan struct{} // when set, Write waits until closed
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		written:  make(map[string][]string),
		failures: make(map[string]string),
	}
}

func (w *fakeWriter) Write(_ context.Context, _ string, filename string, pages []string) error {
	if w.blockCh != nil {
		<-w.blockCh
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr != nil && (len(w.failFiles) == 0 || w.failFiles[filename]) {
		return w.writeErr
	}
	w.written[filename] = append([]string(nil), pages...)
	return nil
}

func (w *fakeWriter) RecordFailure(_ context.Context, _ string, filename string, _ models.FileStatus, reason string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[filename] = reason
	return nil
}

func (w *fakeWriter) writtenPages(filename string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written[filename]
}
