package db

import (
	"context"
	"fmt"

	"github.com/raphaelgruber/docshelf/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// Counts holds index-wide record counts for the stats endpoint.
type Counts struct {
	Folders   int `json:"folders"`
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

// CreateFolder creates a folder record. Returns ErrAlreadyExists when the
// unique name index rejects the insert.
func (c *Client) CreateFolder(ctx context.Context, name string) (*models.Folder, error) {
	results, err := surrealdb.Query[[]models.Folder](ctx, c.db, `
		CREATE folder SET name = $name, created = time::now()
	`, map[string]any{"name": name})
	if err != nil {
		return nil, wrapQueryError(err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create folder %q: empty result", name)
	}
	return &(*results)[0].Result[0], nil
}

// ListFolders returns all folders ordered by creation time.
func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	results, err := surrealdb.Query[[]models.Folder](ctx, c.db, `
		SELECT * FROM folder ORDER BY created ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Folder{}, nil
	}
	return (*results)[0].Result, nil
}

// FolderExists reports whether a folder with the given name exists.
func (c *Client) FolderExists(ctx context.Context, name string) (bool, error) {
	results, err := surrealdb.Query[[]models.Folder](ctx, c.db, `
		SELECT * FROM folder WHERE name = $name LIMIT 1
	`, map[string]any{"name": name})
	if err != nil {
		return false, fmt.Errorf("folder exists: %w", err)
	}

	return results != nil && len(*results) > 0 && len((*results)[0].Result) > 0, nil
}

// DeleteFolder removes a folder with all of its documents and chunks.
// Deleting an absent folder is a no-op.
func (c *Client) DeleteFolder(ctx context.Context, name string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE chunk WHERE folder = $name;
		DELETE document WHERE folder = $name;
		DELETE folder WHERE name = $name;
	`, map[string]any{"name": name})
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// UpsertDocument records a per-file extraction attempt, replacing any prior
// record for the same (folder, filename).
func (c *Client) UpsertDocument(ctx context.Context, folder, filename string, status models.FileStatus, errMsg *string, pages int) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE document WHERE folder = $folder AND filename = $filename;
		CREATE document SET
			folder = $folder,
			filename = $filename,
			status = $status,
			error = $error,
			pages = $pages,
			created = time::now();
	`, map[string]any{
		"folder":   folder,
		"filename": filename,
		"status":   string(status),
		"error":    errMsg,
		"pages":    pages,
	})
	if err != nil {
		return fmt.Errorf("upsert document: %w", wrapQueryError(err))
	}
	return nil
}

// ListDocuments returns all documents in a folder, oldest first.
func (c *Client) ListDocuments(ctx context.Context, folder string) ([]models.Document, error) {
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM document WHERE folder = $folder ORDER BY created ASC
	`, map[string]any{"folder": folder})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Document{}, nil
	}
	return (*results)[0].Result, nil
}

// ListIndexedFiles returns the filenames in a folder that were successfully
// indexed.
func (c *Client) ListIndexedFiles(ctx context.Context, folder string) ([]string, error) {
	docs, err := c.ListDocuments(ctx, folder)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.Status == models.FileSuccess {
			files = append(files, d.Filename)
		}
	}
	return files, nil
}

// InsertChunks inserts a batch of chunk records.
func (c *Client) InsertChunks(ctx context.Context, chunks []models.ChunkInput) error {
	if len(chunks) == 0 {
		return nil
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		FOR $chunk IN $chunks {
			CREATE chunk CONTENT $chunk;
		}
	`, map[string]any{"chunks": chunks})
	if err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

// DeleteFileChunks removes all chunks previously indexed for a file.
func (c *Client) DeleteFileChunks(ctx context.Context, folder, filename string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE chunk WHERE folder = $folder AND filename = $filename
	`, map[string]any{"folder": folder, "filename": filename})
	if err != nil {
		return fmt.Errorf("delete file chunks: %w", err)
	}
	return nil
}

// SearchChunks retrieves the chunks most relevant to a query, restricted to
// the given folder set. With an embedding it performs HNSW vector KNN;
// without one it falls back to BM25 full-text search.
func (c *Client) SearchChunks(ctx context.Context, query string, embedding []float32, folders []string, limit int) ([]models.Chunk, error) {
	if limit <= 0 {
		limit = 3
	}
	if len(folders) == 0 {
		return []models.Chunk{}, nil
	}

	var sql string
	vars := map[string]any{
		"folders": folders,
		"limit":   limit,
	}

	if len(embedding) > 0 {
		sql = fmt.Sprintf(`
			SELECT id, folder, filename, page, position, content
			FROM chunk
			WHERE embedding <|%d,40|> $emb AND folder INSIDE $folders
			LIMIT $limit
		`, limit)
		vars["emb"] = embedding
	} else {
		sql = `
			SELECT id, folder, filename, page, position, content
			FROM chunk
			WHERE content @0@ $q AND folder INSIDE $folders
			LIMIT $limit
		`
		vars["q"] = query
	}

	results, err := surrealdb.Query[[]models.Chunk](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.Chunk{}, nil
	}
	return (*results)[0].Result, nil
}

// CountRecords returns folder/document/chunk counts for the stats endpoint.
func (c *Client) CountRecords(ctx context.Context) (Counts, error) {
	type countRow struct {
		Count int `json:"count"`
	}

	var counts Counts
	for table, dst := range map[string]*int{
		"folder":   &counts.Folders,
		"document": &counts.Documents,
		"chunk":    &counts.Chunks,
	} {
		results, err := surrealdb.Query[[]countRow](ctx, c.db,
			fmt.Sprintf("SELECT count() AS count FROM %s GROUP ALL", table), nil)
		if err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", table, err)
		}
		if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
			*dst = (*results)[0].Result[0].Count
		}
	}
	return counts, nil
}
