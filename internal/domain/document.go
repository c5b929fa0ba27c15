package domain

// Record types stored in the search index.
const (
	RecordTypeSection      = "section"
	RecordTypeSectionChunk = "section-chunk"
)

// RawDocument is one markdown file read from the docs tree.
type RawDocument struct {
	Content      string
	Title        string
	DocumentID   string
	RelativePath string
	SourcePath   string
}

// Section is the text under one heading of a document.
type Section struct {
	Level   int
	Title   string
	Content string
}

// Chunk is a bounded slice of a section body. Start and End are rune offsets
// of the untrimmed slice within the section body.
type Chunk struct {
	Content     string
	ChunkIndex  int
	TotalChunks int
	Start       int
	End         int
}

// RecordContent is the searchable part of an index record.
type RecordContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SearchMetadata is stored alongside every record and returned with search hits.
type SearchMetadata struct {
	Title         string `json:"title"`
	Path          string `json:"path"`
	Level         int    `json:"level"`
	Type          string `json:"type"`
	Content       string `json:"content"`
	DocumentTitle string `json:"documentTitle"`
	ChunkIndex    *int   `json:"chunkIndex,omitempty"`
	TotalChunks   *int   `json:"totalChunks,omitempty"`
}

// IndexRecord is the unit upserted into the remote index, keyed by ID.
type IndexRecord struct {
	ID       string         `json:"id"`
	Content  RecordContent  `json:"content"`
	Metadata SearchMetadata `json:"metadata"`
}

// IsChunk reports whether the record is one of several chunks of a section.
func (r IndexRecord) IsChunk() bool {
	return r.Metadata.Type == RecordTypeSectionChunk
}

// SearchResult is one hit returned by the search API.
type SearchResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Content  RecordContent  `json:"content"`
	Metadata SearchMetadata `json:"metadata"`
}

// RunStats summarizes one indexing run.
type RunStats struct {
	Discovered int
	Indexed    int
	Failed     int
	Records    int
}
