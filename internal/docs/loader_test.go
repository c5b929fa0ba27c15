package docs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newDocsTree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "docs")
	writeFile(t, root, "intro.md", "---\ntitle: Introduction\n---\n# Intro\n\nHello.\n")
	writeFile(t, root, "guide/setup.mdx", "---\nid: installation\n---\n# Setup\n\nSteps.\n")
	writeFile(t, root, "guide/deep/advanced-topics.md", "# Advanced\n\nDeep.\n")
	writeFile(t, root, "guide/notes.txt", "not markdown")
	writeFile(t, root, ".hidden/secret.md", "# Secret\n")
	writeFile(t, root, "guide/.drafts/wip.md", "# WIP\n")
	return root
}

func TestIsMarkdownFile(t *testing.T) {
	assert.True(t, IsMarkdownFile("a.md"))
	assert.True(t, IsMarkdownFile("a.mdx"))
	assert.False(t, IsMarkdownFile("a.markdown"))
	assert.False(t, IsMarkdownFile("a.md.bak"))
	assert.False(t, IsMarkdownFile("README"))
}

func TestDiscover_FiltersAndSkipsDotDirs(t *testing.T) {
	root := newDocsTree(t)

	files, err := Discover(root)
	require.NoError(t, err)

	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}

	assert.Equal(t, []string{
		"guide/deep/advanced-topics.md",
		"guide/setup.mdx",
		"intro.md",
	}, rel)
}

func TestDiscover_DotRootIsNotSkipped(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".docs")
	writeFile(t, root, "a.md", "# A\n")

	files, err := Discover(root)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeDiscovery, domainErr.Code)
}

func TestDiscover_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.md", "# x")

	_, err := Discover(file)
	assert.ErrorIs(t, err, domain.ErrDocsRootNotDir)
}

func TestLoader_Load(t *testing.T) {
	root := newDocsTree(t)
	loader := NewLoader("", 2)

	docs, err := loader.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelativePath < docs[j].RelativePath })

	assert.Equal(t, "docs/guide/deep/advanced-topics", docs[0].RelativePath)
	assert.Equal(t, "Advanced Topics", docs[0].Title)
	assert.Equal(t, "advanced-topics", docs[0].DocumentID)

	assert.Equal(t, "docs/guide/installation", docs[1].RelativePath)
	assert.Equal(t, "installation", docs[1].DocumentID)
	assert.Equal(t, "Setup", docs[1].Title)

	assert.Equal(t, "docs/intro", docs[2].RelativePath)
	assert.Equal(t, "Introduction", docs[2].Title)
	assert.Contains(t, docs[2].Content, "# Intro")
	assert.Equal(t, filepath.Join(root, "intro.md"), docs[2].SourcePath)
}

func TestLoader_RoutePrefix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "api/client.md", "# Client\n")

	docs, err := NewLoader("reference", 0).Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "reference/api/client", docs[0].RelativePath)
}

func TestLoader_NormalizesLineEndings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "win.md", "# Title\r\n\r\nBody\r\n")

	docs, err := NewLoader("", 0).Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "# Title\n\nBody\n", docs[0].Content)
}

func TestLoader_CancelledContext(t *testing.T) {
	root := newDocsTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader("", 1).Load(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_EmptyTree(t *testing.T) {
	docs, err := NewLoader("", 0).Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
