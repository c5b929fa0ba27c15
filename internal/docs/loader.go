// Package docs discovers and reads the markdown files of a docs tree.
package docs

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/docsearch/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultRoutePrefix is the first segment of every document route.
	DefaultRoutePrefix = "docs"
	// DefaultConcurrency bounds parallel file reads.
	DefaultConcurrency = 16
)

var markdownExts = []string{".md", ".mdx"}

// IsMarkdownFile reports whether name has a .md or .mdx extension.
func IsMarkdownFile(name string) bool {
	for _, ext := range markdownExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Discover returns every markdown file under root in lexical order.
// Directories whose name starts with "." are skipped; root itself never is.
func Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDiscovery, "failed to stat docs path", err)
	}
	if !info.IsDir() {
		return nil, domain.NewDomainErrorWithCause(domain.ErrDocsRootNotDir.Code, domain.ErrDocsRootNotDir.Message, fs.ErrInvalid)
	}

	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMarkdownFile(d.Name()) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeDiscovery, "failed to walk docs tree", err)
	}

	return files, nil
}

// Loader turns the files of a docs tree into raw documents.
type Loader struct {
	routePrefix string
	concurrency int
}

// NewLoader creates a Loader. Empty or non-positive values select defaults.
func NewLoader(routePrefix string, concurrency int) *Loader {
	if routePrefix == "" {
		routePrefix = DefaultRoutePrefix
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Loader{
		routePrefix: routePrefix,
		concurrency: concurrency,
	}
}

// Load discovers and reads every document under root. Files are read in
// parallel; the first read error aborts the load.
func (l *Loader) Load(ctx context.Context, root string) ([]domain.RawDocument, error) {
	files, err := Discover(root)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.RawDocument, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := l.ReadDocument(root, file)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ReadDocument reads one file and derives its id, title and route.
func (l *Loader) ReadDocument(root, file string) (domain.RawDocument, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return domain.RawDocument{}, domain.NewDomainErrorWithCause(domain.ErrReadDocument.Code, domain.ErrReadDocument.Message, err)
	}
	content := strings.ReplaceAll(string(raw), "\r\n", "\n")

	fileName := filepath.Base(file)
	id, ok := ExtractID(content)
	if !ok {
		id = trimMarkdownExt(fileName)
	}

	relDir, err := filepath.Rel(root, filepath.Dir(file))
	if err != nil {
		return domain.RawDocument{}, domain.NewDomainErrorWithCause(domain.ErrCodeDiscovery, "failed to resolve document path", err)
	}

	return domain.RawDocument{
		Content:      content,
		Title:        ExtractTitle(content, fileName),
		DocumentID:   id,
		RelativePath: path.Join(l.routePrefix, filepath.ToSlash(relDir), id),
		SourcePath:   file,
	}, nil
}

func trimMarkdownExt(name string) string {
	for _, ext := range markdownExts {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
