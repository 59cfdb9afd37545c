package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// BuildStore defines the interface for index build audit operations.
type BuildStore interface {
	// Insert records a completed index build.
	Insert(ctx context.Context, build *BuildRecord) error
	// ListByNamespace returns a namespace's build history, newest first.
	ListByNamespace(ctx context.Context, namespace string) ([]*BuildRecord, error)
}

// BuildRepo provides methods for index build audit operations.
// It implements the BuildStore interface.
type BuildRepo struct {
	db *sql.DB
}

// NewBuildRepo creates a new BuildRepo.
func NewBuildRepo(db *sql.DB) *BuildRepo {
	return &BuildRepo{db: db}
}

// Insert records a completed index build.
func (r *BuildRepo) Insert(ctx context.Context, build *BuildRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO index_builds (namespace, generation, chunk_count) VALUES (?, ?, ?)",
		build.Namespace, build.Generation, build.ChunkCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert index build: %w", err)
	}
	return nil
}

// ListByNamespace returns a namespace's build history, newest first.
func (r *BuildRepo) ListByNamespace(ctx context.Context, namespace string) ([]*BuildRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT namespace, generation, chunk_count, built_at FROM index_builds WHERE namespace = ? ORDER BY generation DESC",
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query index builds: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var builds []*BuildRecord
	for rows.Next() {
		var build BuildRecord
		if err := rows.Scan(&build.Namespace, &build.Generation, &build.ChunkCount, &build.BuiltAt); err != nil {
			return nil, fmt.Errorf("failed to scan index build: %w", err)
		}
		builds = append(builds, &build)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return builds, nil
}
