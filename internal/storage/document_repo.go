package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks intellidocs/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// Insert records an ingested document. The record's ID must be set.
	Insert(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*DocumentRecord, error)
	// ListByNamespace returns documents ingested into a namespace, newest first.
	ListByNamespace(ctx context.Context, namespace string) ([]*DocumentRecord, error)
}

// DocumentRepo provides methods for document registry operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert records an ingested document.
func (r *DocumentRepo) Insert(ctx context.Context, doc *DocumentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, namespace, filename, stored_name, pages, chunk_count) VALUES (?, ?, ?, ?, ?, ?)",
		doc.ID, doc.Namespace, doc.Filename, doc.StoredName, doc.Pages, doc.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, namespace, filename, stored_name, pages, chunk_count, created_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.Namespace, &doc.Filename, &doc.StoredName, &doc.Pages, &doc.ChunkCount, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// ListByNamespace returns documents ingested into a namespace, newest first.
// Returns an empty slice if there are none (not an error).
func (r *DocumentRepo) ListByNamespace(ctx context.Context, namespace string) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, namespace, filename, stored_name, pages, chunk_count, created_at FROM documents WHERE namespace = ? ORDER BY created_at DESC",
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		if err := rows.Scan(&doc.ID, &doc.Namespace, &doc.Filename, &doc.StoredName, &doc.Pages, &doc.ChunkCount, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}
