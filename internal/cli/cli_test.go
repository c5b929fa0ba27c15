package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloo-solutions/docsearch/internal/config"
	"github.com/cloo-solutions/docsearch/internal/domain"
	"github.com/cloo-solutions/docsearch/internal/upstash"
	"github.com/cloo-solutions/docsearch/internal/upstash/upstashtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testToken     = "write-token"
	testNamespace = "test-docs"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func newDocsRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeDoc(t, root, "intro.md", "---\nid: intro\ntitle: Intro\n---\n\n# Getting Started!\n\nWelcome aboard.\n")
	writeDoc(t, root, "guide/setup.mdx", "## Install\n\nRun it.\n\n## Configure\n\nEdit the `config` file.\n")
	writeDoc(t, root, "guide/notes.txt", "# Ignored\n\nnot markdown\n")
	return root
}

func testConfig(url, docsPath string) *config.Config {
	return &config.Config{
		SearchURL:            url,
		SearchToken:          testToken,
		Namespace:            testNamespace,
		DocsPath:             docsPath,
		DocsRoutePrefix:      "docs",
		ChunkMaxSize:         1200,
		ChunkOverlap:         200,
		LoadConcurrency:      4,
		IndexConcurrency:     1,
		IndexHeadinglessDocs: true,
		SearchLimit:          15,
		RequestTimeout:       5 * time.Second,
		Environment:          "test",
	}
}

func TestRunIndex_IndexesDocsTree(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()

	stats, err := RunIndex(context.Background(), testConfig(srv.URL, newDocsRoot(t)), zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, &domain.RunStats{Discovered: 2, Indexed: 2, Failed: 0, Records: 3}, stats)
	assert.Equal(t, 1, srv.Resets(testNamespace))
	assert.ElementsMatch(t, []string{
		"docs/intro#getting-started",
		"docs/guide/setup#install",
		"docs/guide/setup#configure",
	}, srv.IDs(testNamespace))
}

func TestRunIndex_SecondRunProducesSameIDs(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	cfg := testConfig(srv.URL, newDocsRoot(t))

	_, err := RunIndex(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	first := srv.IDs(testNamespace)

	_, err = RunIndex(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.ElementsMatch(t, first, srv.IDs(testNamespace))
	assert.Equal(t, 2, srv.Resets(testNamespace))
}

func TestRunIndex_DocumentFailureIsNotFatal(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	srv.FailUpsertsFor("docs/guide/setup#configure")

	stats, err := RunIndex(context.Background(), testConfig(srv.URL, newDocsRoot(t)), zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Discovered)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 1, stats.Failed)
	assert.Contains(t, srv.IDs(testNamespace), "docs/intro#getting-started")
}

func TestRunIndex_ResetFailureIsFatal(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	srv.FailResets()

	stats, err := RunIndex(context.Background(), testConfig(srv.URL, newDocsRoot(t)), zap.NewNop())

	assert.Nil(t, stats)
	assert.ErrorIs(t, err, domain.ErrResetFailed)
	var svcErr *upstash.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 503, svcErr.StatusCode)
	assert.Empty(t, srv.IDs(testNamespace))
}

func TestRunIndex_MissingDocsRoot(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()

	_, err := RunIndex(context.Background(), testConfig(srv.URL, filepath.Join(t.TempDir(), "nope")), zap.NewNop())

	assert.Error(t, err)
	assert.Equal(t, 0, srv.Resets(testNamespace))
}

func TestRunIndex_InvalidConfig(t *testing.T) {
	cfg := testConfig("http://localhost", "docs")
	cfg.SearchToken = ""

	_, err := RunIndex(context.Background(), cfg, zap.NewNop())

	assert.ErrorIs(t, err, domain.ErrMissingSearchToken)
}

func TestRunSearch_Text(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	cfg := testConfig(srv.URL, newDocsRoot(t))
	_, err := RunIndex(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunSearch(context.Background(), &out, cfg, "config", SearchOptions{})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Found 1 results:")
	assert.Contains(t, out.String(), "1. Configure (1.00)")
	assert.Contains(t, out.String(), "In: Setup")
	assert.Contains(t, out.String(), "Edit the config file.")
	assert.Contains(t, out.String(), "ID: docs/guide/setup#configure")
}

func TestRunSearch_JSON(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	cfg := testConfig(srv.URL, newDocsRoot(t))
	_, err := RunIndex(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	err = RunSearch(context.Background(), &out, cfg, "welcome", SearchOptions{OutputJSON: true})
	require.NoError(t, err)

	var results []searchOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "docs/intro#getting-started", results[0].ID)
	assert.Equal(t, "Intro", results[0].DocumentTitle)
	assert.Equal(t, "Welcome aboard.", results[0].Snippet)
}

func TestRunSearch_NoResults(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()

	var out bytes.Buffer
	err := RunSearch(context.Background(), &out, testConfig(srv.URL, "docs"), "nothing", SearchOptions{Limit: 3})

	require.NoError(t, err)
	assert.Equal(t, "No results found.\n", out.String())
}

func TestRunSearch_PrefersReadOnlyToken(t *testing.T) {
	srv := upstashtest.NewServer("read-token")
	defer srv.Close()
	cfg := testConfig(srv.URL, "docs")
	cfg.SearchReadToken = "read-token"

	var out bytes.Buffer
	require.NoError(t, RunSearch(context.Background(), &out, cfg, "x", SearchOptions{}))
}

func TestRunSearch_MissingToken(t *testing.T) {
	cfg := testConfig("http://localhost", "docs")
	cfg.SearchToken = ""

	err := RunSearch(context.Background(), &bytes.Buffer{}, cfg, "x", SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrMissingReadToken)
}

func TestWatchAndIndex_ReindexesOnChange(t *testing.T) {
	srv := upstashtest.NewServer(testToken)
	defer srv.Close()
	root := newDocsRoot(t)
	cfg := testConfig(srv.URL, root)
	cfg.WatchDebounce = 50 * time.Millisecond

	_, err := RunIndex(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchAndIndex(ctx, cfg, zap.NewNop())
	}()

	// Let the watcher register the tree before writing.
	time.Sleep(100 * time.Millisecond)
	writeDoc(t, root, "guide/upgrade.md", "## Upgrade\n\nBump the version.\n")

	require.Eventually(t, func() bool {
		for _, id := range srv.IDs(testNamespace) {
			if id == "docs/guide/upgrade#upgrade" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, srv.Resets(testNamespace), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
