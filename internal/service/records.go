package service

import (
	"fmt"
	"strings"

	"github.com/cloo-solutions/docsearch/internal/docs"
	"github.com/cloo-solutions/docsearch/internal/domain"
)

// defaultSectionLevel is used when a headingless document is indexed whole.
const defaultSectionLevel = 1

// RecordBuilder turns documents into index records.
type RecordBuilder struct {
	chunkCfg         ChunkConfig
	indexHeadingless bool
	splitSections    func(string) []domain.Section
	chunkSectionBody func(string, ChunkConfig) []domain.Chunk
}

// NewRecordBuilder creates a RecordBuilder. When indexHeadingless is set, a
// document without headings is indexed as a single section titled with the
// document title.
func NewRecordBuilder(chunkCfg ChunkConfig, indexHeadingless bool) *RecordBuilder {
	return &RecordBuilder{
		chunkCfg:         chunkCfg,
		indexHeadingless: indexHeadingless,
		splitSections:    SplitSections,
		chunkSectionBody: ChunkContent,
	}
}

// TruncatedSection is a section whose tail was left out of the index
// because chunking hit its iteration cap.
type TruncatedSection struct {
	Title        string
	Anchor       string
	DroppedRunes int
}

// Build returns the records for one document along with any sections that
// were cut short. Sections with an empty body produce no records but still
// count towards anchor numbering.
func (b *RecordBuilder) Build(doc domain.RawDocument) ([]domain.IndexRecord, []TruncatedSection) {
	sections := b.sectionsOf(doc)
	anchors := newAnchorSet()

	var records []domain.IndexRecord
	var truncated []TruncatedSection
	for _, section := range sections {
		anchor := anchors.next(docs.Slugify(section.Title))
		if section.Content == "" {
			continue
		}

		chunks := b.chunkSectionBody(section.Content, b.chunkCfg)
		if dropped := DroppedRunes(section.Content, chunks); dropped > 0 {
			truncated = append(truncated, TruncatedSection{
				Title:        section.Title,
				Anchor:       anchor,
				DroppedRunes: dropped,
			})
		}

		split := len(chunks) > 1
		for _, chunk := range chunks {
			records = append(records, buildRecord(doc, section, anchor, chunk, split))
		}
	}
	return records, truncated
}

func (b *RecordBuilder) sectionsOf(doc domain.RawDocument) []domain.Section {
	sections := b.splitSections(doc.Content)
	if len(sections) > 0 || !b.indexHeadingless {
		return sections
	}

	body := strings.TrimSpace(docs.StripFrontMatter(doc.Content))
	if body == "" {
		return nil
	}
	return []domain.Section{{
		Level:   defaultSectionLevel,
		Title:   doc.Title,
		Content: body,
	}}
}

func buildRecord(doc domain.RawDocument, section domain.Section, anchor string, chunk domain.Chunk, split bool) domain.IndexRecord {
	id := RecordID(doc.RelativePath, anchor, chunk.ChunkIndex, split)

	metadata := domain.SearchMetadata{
		Title:         section.Title,
		Path:          doc.RelativePath,
		Level:         section.Level,
		Type:          domain.RecordTypeSection,
		Content:       chunk.Content,
		DocumentTitle: doc.Title,
	}
	if split {
		chunkIndex, totalChunks := chunk.ChunkIndex, chunk.TotalChunks
		metadata.Type = domain.RecordTypeSectionChunk
		metadata.ChunkIndex = &chunkIndex
		metadata.TotalChunks = &totalChunks
	}

	return domain.IndexRecord{
		ID: id,
		Content: domain.RecordContent{
			Title:   section.Title,
			Content: chunk.Content,
		},
		Metadata: metadata,
	}
}

// RecordID builds the stable record identifier: the document route, the
// section anchor and, for split sections, a 1-based chunk suffix.
func RecordID(relativePath, anchor string, chunkIndex int, split bool) string {
	id := relativePath + "#" + anchor
	if split {
		id += fmt.Sprintf("-chunk-%d", chunkIndex+1)
	}
	return id
}

// anchorSet numbers repeated anchors within one document the way heading
// anchors are numbered on the rendered page: "faq", "faq-1", "faq-2".
type anchorSet map[string]int

func newAnchorSet() anchorSet {
	return anchorSet{}
}

func (s anchorSet) next(slug string) string {
	n, seen := s[slug]
	s[slug] = n + 1
	if !seen {
		return slug
	}
	candidate := fmt.Sprintf("%s-%d", slug, n)
	for {
		if _, taken := s[candidate]; !taken {
			s[candidate] = 1
			return candidate
		}
		n++
		s[slug] = n + 1
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
}
