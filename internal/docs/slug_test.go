package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation", "Getting Started!", "getting-started"},
		{"comma", "Hello, World!", "hello-world"},
		{"periods removed", "v1.2 Release Notes", "v12-release-notes"},
		{"accents stripped", "Café Menü", "cafe-menu"},
		{"surrounding whitespace", "  Install  ", "install"},
		{"repeated hyphens", "a -- b", "a-b"},
		{"underscores kept", "snake_case API", "snake_case-api"},
		{"tabs and newlines", "one\ttwo\nthree", "one-two-three"},
		{"non-breaking space", "foo\u00a0bar", "foo-bar"},
		{"code markup", "`useSearch()` hook", "usesearch-hook"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	input := "Configuration & Deployment: Über Guide"
	assert.Equal(t, Slugify(input), Slugify(input))
	assert.NotContains(t, Slugify("Hello, World!"), " ")
	assert.NotContains(t, Slugify("Hello, World!"), ",")
}

func TestTitleFromFileName(t *testing.T) {
	assert.Equal(t, "Getting Started", TitleFromFileName("getting-started.md"))
	assert.Equal(t, "Api Reference", TitleFromFileName("API_reference.mdx"))
	assert.Equal(t, "Intro", TitleFromFileName("docs/guide/intro.md"))
	assert.Equal(t, "A  B", TitleFromFileName("a--b.md"))
}
