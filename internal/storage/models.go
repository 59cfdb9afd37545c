package storage

import "time"

// DocumentRecord describes one ingested document. The original bytes live on
// disk under StoredName; this row is the registry entry for them.
type DocumentRecord struct {
	ID         string    // UUID
	Namespace  string    // Namespace the document was ingested into
	Filename   string    // Original upload filename
	StoredName string    // Collision-resistant name in the data root
	Pages      int       // Pages that yielded text
	ChunkCount int       // Chunks produced at ingestion time
	CreatedAt  time.Time
}

// BuildRecord is an audit entry for one index build of a namespace.
type BuildRecord struct {
	Namespace  string
	Generation uint64
	ChunkCount int
	BuiltAt    time.Time
}
