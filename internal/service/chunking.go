package service

import (
	"strings"
	"unicode/utf8"

	"github.com/cloo-solutions/docsearch/internal/domain"
)

// ChunkConfig controls how long sections are split for the index.
type ChunkConfig struct {
	MaxSize int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxSize: 1200,
		Overlap: 200,
	}
}

// maxOverlapRatio caps overlap so every window still moves the cursor forward.
const maxOverlapRatio = 0.3

// effectiveOverlap returns the overlap actually applied for cfg.
func (cfg ChunkConfig) effectiveOverlap() int {
	overlap := cfg.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if limit := int(float64(cfg.MaxSize) * maxOverlapRatio); overlap > limit {
		overlap = limit
	}
	return overlap
}

// MaxChunks is the upper bound on chunks ChunkContent emits for n runes.
func (cfg ChunkConfig) MaxChunks(n int) int {
	if cfg.MaxSize <= 0 {
		cfg = DefaultChunkConfig()
	}
	step := cfg.MaxSize - cfg.effectiveOverlap()
	return (n+step-1)/step + 1
}

// ChunkContent splits a section body into overlapping chunks of at most
// cfg.MaxSize runes. Content that already fits is returned as a single chunk.
// Cuts prefer the last period, then the last space, in the second half of
// the window. The cursor advances at least one rune per iteration and the
// loop is capped, so the result is bounded for any input.
func ChunkContent(content string, cfg ChunkConfig) []domain.Chunk {
	if cfg.MaxSize <= 0 {
		cfg = DefaultChunkConfig()
	}

	runes := []rune(content)
	n := len(runes)
	if n <= cfg.MaxSize {
		return []domain.Chunk{{
			Content:     content,
			ChunkIndex:  0,
			TotalChunks: 1,
			Start:       0,
			End:         n,
		}}
	}

	overlap := cfg.effectiveOverlap()
	maxIterations := cfg.MaxChunks(n)

	chunks := make([]domain.Chunk, 0, maxIterations)
	start := 0
	for iter := 0; start < n && iter < maxIterations; iter++ {
		end := start + cfg.MaxSize
		if end > n {
			end = n
		}

		if end < n {
			end = boundaryBefore(runes, start, end, cfg.MaxSize)
		}

		if text := strings.TrimSpace(string(runes[start:end])); text != "" {
			chunks = append(chunks, domain.Chunk{
				Content:    text,
				ChunkIndex: len(chunks),
				Start:      start,
				End:        end,
			})
		}

		if end >= n {
			break
		}

		next := end - overlap
		if next < start+1 {
			next = start + 1
		}
		start = next
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// DroppedRunes returns how many non-blank runes of content follow the last
// chunk. It is non-zero only when the iteration cap stopped ChunkContent
// before the end of the content.
func DroppedRunes(content string, chunks []domain.Chunk) int {
	runes := []rune(content)
	end := 0
	if len(chunks) > 0 {
		end = chunks[len(chunks)-1].End
	}
	if end >= len(runes) {
		return 0
	}
	return utf8.RuneCountInString(strings.TrimSpace(string(runes[end:])))
}

// boundaryBefore picks the cut point for a window [start, end). A boundary
// is only accepted past the middle of the window.
func boundaryBefore(runes []rune, start, end, maxSize int) int {
	past := func(i int) bool { return 2*(i-start) > maxSize }

	for i := end - 1; past(i); i-- {
		if runes[i] == '.' {
			return i + 1
		}
	}
	for i := end - 1; past(i); i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}
