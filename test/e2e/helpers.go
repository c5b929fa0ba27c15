//go:build e2e

package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cloo-solutions/docsearch/internal/upstash/upstashtest"
)

const (
	e2eToken     = "e2e-write-token"
	e2eNamespace = "e2e-docs"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T         *testing.T
	Service   *upstashtest.Server
	DocsRoot  string
	BinaryDir string
	ExtraEnv  []string
}

// SetupE2EEnv builds the binary and starts a fake search service
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	env := &E2ETestEnv{
		T:        t,
		Service:  upstashtest.NewServer(e2eToken),
		DocsRoot: t.TempDir(),
	}
	env.BuildBinary()
	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.Service != nil {
		e.Service.Close()
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinary builds the docsearch binary
func (e *E2ETestEnv) BuildBinary() {
	tmpDir, err := os.MkdirTemp("", "docsearch-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "docsearch"), "./cmd/docsearch")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build docsearch: %v\n%s", err, out)
	}
}

// WriteDoc writes a markdown file under the docs root
func (e *E2ETestEnv) WriteDoc(rel, content string) {
	full := filepath.Join(e.DocsRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		e.T.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		e.T.Fatalf("failed to write doc: %v", err)
	}
}

// RunDocsearch runs the binary from an empty working directory so no .env
// file is picked up. It returns combined output and the exit code.
func (e *E2ETestEnv) RunDocsearch(args ...string) (string, int) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "docsearch"), args...)
	cmd.Dir = e.T.TempDir()
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("UPSTASH_SEARCH_REST_URL=%s", e.Service.URL),
		fmt.Sprintf("UPSTASH_SEARCH_REST_TOKEN=%s", e2eToken),
		fmt.Sprintf("UPSTASH_SEARCH_INDEX_NAMESPACE=%s", e2eNamespace),
		fmt.Sprintf("DOCS_PATH=%s", e.DocsRoot),
		"SENTRY_DSN=",
	)
	cmd.Env = append(cmd.Env, e.ExtraEnv...)

	out, err := cmd.CombinedOutput()
	if exitErr, ok := err.(*exec.ExitError); ok {
		return string(out), exitErr.ExitCode()
	}
	if err != nil {
		e.T.Fatalf("failed to run docsearch: %v", err)
	}
	return string(out), 0
}
