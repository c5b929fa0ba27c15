package service

import (
	"regexp"
	"strings"

	"github.com/cloo-solutions/docsearch/internal/domain"
)

var (
	headingStart = regexp.MustCompile(`(?m)^#{1,6}\s`)
	headingLine  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
)

// SplitSections splits markdown into one section per heading line, in
// document order. Text before the first heading is dropped, as is any
// segment whose first line is not a well-formed heading.
func SplitSections(text string) []domain.Section {
	starts := headingStart.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	sections := make([]domain.Section, 0, len(starts))
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if section, ok := parseSection(text[loc[0]:end]); ok {
			sections = append(sections, section)
		}
	}
	return sections
}

func parseSection(segment string) (domain.Section, bool) {
	head, body, _ := strings.Cut(strings.TrimSpace(segment), "\n")

	m := headingLine.FindStringSubmatch(head)
	if m == nil {
		return domain.Section{}, false
	}
	title := strings.TrimSpace(m[2])
	if title == "" {
		return domain.Section{}, false
	}

	return domain.Section{
		Level:   len(m[1]),
		Title:   title,
		Content: strings.TrimSpace(body),
	}, true
}
