package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/docshelf/internal/models"
)

func newFolderService(store FolderStore) (*FolderService, *JobStore) {
	jobs := NewJobStore(time.Hour, testLogger())
	return NewFolderService(store, jobs, testLogger()), jobs
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "legal", false},
		{"with spaces inside", "tax returns", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"global sentinel", "All", true},
		{"forward slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"lowercase all is a real name", "all", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFolderCreateDuplicate(t *testing.T) {
	svc, _ := newFolderService(newFakeStore("default"))
	ctx := context.Background()

	folder, err := svc.Create(ctx, "legal")
	require.NoError(t, err)
	assert.Equal(t, "legal", folder.Name)

	_, err = svc.Create(ctx, "legal")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestFolderDelete(t *testing.T) {
	store := newFakeStore("default", "legal")
	svc, _ := newFolderService(store)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "legal"))

	exists, err := store.FolderExists(ctx, "legal")
	require.NoError(t, err)
	assert.False(t, exists)

	err = svc.Delete(ctx, "legal")
	assert.ErrorIs(t, err, ErrFolderNotFound)

	err = svc.Delete(ctx, models.DefaultFolder)
	assert.ErrorIs(t, err, ErrProtectedName)
}

func TestFolderDeleteInvalidatesJobs(t *testing.T) {
	svc, jobs := newFolderService(newFakeStore("default", "legal"))
	ctx := context.Background()

	job, err := jobs.Create("", "legal", []string{"a.txt"})
	require.NoError(t, err)
	job.setProcessing()

	require.NoError(t, svc.Delete(ctx, "legal"))
	assert.True(t, job.isInvalidated())
}

func TestResolveScope(t *testing.T) {
	svc, _ := newFolderService(newFakeStore("default", "legal", "hr"))
	ctx := context.Background()

	folders, err := svc.ResolveScope(ctx, models.GlobalScope())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "legal", "hr"}, folders)

	folders, err = svc.ResolveScope(ctx, models.NamedScope("legal"))
	require.NoError(t, err)
	assert.Equal(t, []string{"legal"}, folders)

	_, err = svc.ResolveScope(ctx, models.NamedScope("finance"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestResolveScopeEmptyRegistry(t *testing.T) {
	svc, _ := newFolderService(newFakeStore())

	folders, err := svc.ResolveScope(context.Background(), models.GlobalScope())
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestEnsureTarget(t *testing.T) {
	store := newFakeStore()
	svc, _ := newFolderService(store)
	ctx := context.Background()

	// The default folder is created implicitly.
	require.NoError(t, svc.EnsureTarget(ctx, models.DefaultFolder))
	exists, err := store.FolderExists(ctx, models.DefaultFolder)
	require.NoError(t, err)
	assert.True(t, exists)

	// Any other missing folder must be created explicitly first.
	err = svc.EnsureTarget(ctx, "legal")
	assert.ErrorIs(t, err, ErrFolderNotFound)

	_, err = svc.Create(ctx, "legal")
	require.NoError(t, err)
	assert.NoError(t, svc.EnsureTarget(ctx, "legal"))
}
