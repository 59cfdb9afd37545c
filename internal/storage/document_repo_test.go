package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DocumentRepo {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewDocumentRepo(db)
}

func TestDocumentRepo_InsertAndGet(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	doc := &DocumentRecord{
		ID:         "doc-1",
		Namespace:  "default",
		Filename:   "report.pdf",
		StoredName: "uuid1_report.pdf",
		Pages:      3,
		ChunkCount: 14,
	}
	if err := repo.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Filename != "report.pdf" || got.StoredName != "uuid1_report.pdf" {
		t.Errorf("GetByID() = %+v, want inserted record", got)
	}
	if got.Pages != 3 || got.ChunkCount != 14 {
		t.Errorf("GetByID() counts = %d pages %d chunks, want 3/14", got.Pages, got.ChunkCount)
	}
	if got.CreatedAt.IsZero() {
		t.Error("GetByID() CreatedAt should be set by the database")
	}
	if time.Since(got.CreatedAt) > time.Minute {
		t.Error("GetByID() CreatedAt should be recent")
	}
}

func TestDocumentRepo_GetByID_NotFound(t *testing.T) {
	repo := newTestDB(t)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentRepo_Insert_DuplicateStoredName(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	doc := &DocumentRecord{
		ID:         "doc-1",
		Namespace:  "default",
		Filename:   "a.pdf",
		StoredName: "same_name.pdf",
		Pages:      1,
		ChunkCount: 1,
	}
	if err := repo.Insert(ctx, doc); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	dup := &DocumentRecord{
		ID:         "doc-2",
		Namespace:  "default",
		Filename:   "b.pdf",
		StoredName: "same_name.pdf",
		Pages:      1,
		ChunkCount: 1,
	}
	if err := repo.Insert(ctx, dup); err == nil {
		t.Error("Insert() with duplicate stored name expected error, got nil")
	}
}

func TestDocumentRepo_ListByNamespace(t *testing.T) {
	repo := newTestDB(t)
	ctx := context.Background()

	records := []*DocumentRecord{
		{ID: "a", Namespace: "first", Filename: "a.pdf", StoredName: "sa", Pages: 1, ChunkCount: 1},
		{ID: "b", Namespace: "first", Filename: "b.pdf", StoredName: "sb", Pages: 1, ChunkCount: 1},
		{ID: "c", Namespace: "second", Filename: "c.pdf", StoredName: "sc", Pages: 1, ChunkCount: 1},
	}
	for _, record := range records {
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("Insert(%s) error = %v", record.ID, err)
		}
	}

	first, err := repo.ListByNamespace(ctx, "first")
	if err != nil {
		t.Fatalf("ListByNamespace() error = %v", err)
	}
	if len(first) != 2 {
		t.Errorf("ListByNamespace(first) returned %d records, want 2", len(first))
	}
	for _, doc := range first {
		if doc.Namespace != "first" {
			t.Errorf("ListByNamespace(first) returned record from %q", doc.Namespace)
		}
	}

	empty, err := repo.ListByNamespace(ctx, "nothing")
	if err != nil {
		t.Fatalf("ListByNamespace() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByNamespace(nothing) returned %d records, want 0", len(empty))
	}
}
