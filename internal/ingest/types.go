package ingest

// Chunk is a bounded, overlapping span of extracted document text. It is the
// unit of embedding and retrieval, and carries the metadata needed to
// reconstruct where the text came from.
type Chunk struct {
	Text        string            `json:"text"`
	Source      string            `json:"source"`       // Stored file name of the originating document
	Namespace   string            `json:"namespace"`    // Logical partition the chunk belongs to
	StartOffset int               `json:"start_offset"` // Rune offset within the concatenated page text
	Meta        map[string]string `json:"meta,omitempty"`
}

// Result describes a completed ingestion.
type Result struct {
	Namespace    string `json:"namespace"`
	ChunksAdded  int    `json:"chunks_added"`
	IndexPath    string `json:"index_path"`
	OriginalFile string `json:"original_file"`
}
