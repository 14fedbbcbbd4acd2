package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/models"
)

// FolderStore is the persistence surface the folder registry needs.
// *db.Client satisfies it; tests substitute fakes.
type FolderStore interface {
	CreateFolder(ctx context.Context, name string) (*models.Folder, error)
	ListFolders(ctx context.Context) ([]models.Folder, error)
	FolderExists(ctx context.Context, name string) (bool, error)
	DeleteFolder(ctx context.Context, name string) error
	ListDocuments(ctx context.Context, folder string) ([]models.Document, error)
	ListIndexedFiles(ctx context.Context, folder string) ([]string, error)
}

// FolderService owns the registry of valid scopes: folder CRUD plus scope
// resolution for the query path.
type FolderService struct {
	store  FolderStore
	jobs   *JobStore
	logger *slog.Logger
}

func NewFolderService(store FolderStore, jobs *JobStore, logger *slog.Logger) *FolderService {
	return &FolderService{store: store, jobs: jobs, logger: logger}
}

// ValidateName checks a folder name: non-empty after trimming, no path
// separators, and not the reserved global sentinel.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if name == models.GlobalSentinel {
		return fmt.Errorf("%w: %q is reserved for the global scope", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q contains path separators", ErrInvalidName, name)
	}
	return nil
}

// Create registers a new folder. Duplicate names fail with ErrDuplicateName.
func (s *FolderService) Create(ctx context.Context, name string) (*models.Folder, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	folder, err := s.store.CreateFolder(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("creating folder %s: %w", name, err)
	}

	s.logger.Info("folder created", "folder", name)
	return folder, nil
}

// List returns all folders in creation order.
func (s *FolderService) List(ctx context.Context) ([]models.Folder, error) {
	return s.store.ListFolders(ctx)
}

// Exists reports whether the named folder is registered.
func (s *FolderService) Exists(ctx context.Context, name string) (bool, error) {
	return s.store.FolderExists(ctx, name)
}

// Delete removes a folder with all its documents and chunks, and
// invalidates in-flight jobs targeting it. The default folder is protected.
// Unknown names fail with ErrFolderNotFound.
func (s *FolderService) Delete(ctx context.Context, name string) error {
	if name == models.DefaultFolder {
		return fmt.Errorf("%w: %s", ErrProtectedName, name)
	}

	exists, err := s.store.FolderExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking folder %s: %w", name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}

	// Invalidate first so workers stop indexing into the doomed namespace
	// before the cascade delete runs.
	if s.jobs != nil {
		s.jobs.InvalidateFolder(name)
	}

	if err := s.store.DeleteFolder(ctx, name); err != nil {
		return fmt.Errorf("deleting folder %s: %w", name, err)
	}

	s.logger.Info("folder deleted", "folder", name)
	return nil
}

// Files lists the successfully indexed filenames in a folder. Unknown
// folders fail with ErrFolderNotFound.
func (s *FolderService) Files(ctx context.Context, name string) ([]string, error) {
	exists, err := s.store.FolderExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking folder %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}
	return s.store.ListIndexedFiles(ctx, name)
}

// Documents lists all document records in a folder, including failed ones.
func (s *FolderService) Documents(ctx context.Context, name string) ([]models.Document, error) {
	exists, err := s.store.FolderExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking folder %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}
	return s.store.ListDocuments(ctx, name)
}

// ResolveScope maps a scope to the concrete folder set: the global scope
// resolves to every known folder, a named scope to itself after an
// existence check.
func (s *FolderService) ResolveScope(ctx context.Context, scope models.Scope) ([]string, error) {
	if scope.IsGlobal() {
		folders, err := s.store.ListFolders(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing folders: %w", err)
		}
		names := make([]string, 0, len(folders))
		for _, f := range folders {
			names = append(names, f.Name)
		}
		return names, nil
	}

	name := scope.Folder()
	exists, err := s.store.FolderExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking folder %s: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}
	return []string{name}, nil
}

// EnsureTarget validates a folder as an ingestion target. The default
// folder is created implicitly when missing; every other name must already
// exist.
func (s *FolderService) EnsureTarget(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	exists, err := s.store.FolderExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking folder %s: %w", name, err)
	}
	if exists {
		return nil
	}

	if name == models.DefaultFolder {
		if _, err := s.store.CreateFolder(ctx, name); err != nil && !errors.Is(err, db.ErrAlreadyExists) {
			return fmt.Errorf("creating default folder: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFolderNotFound, name)
}
