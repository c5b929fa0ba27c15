package docs

import (
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlFormat only recognizes "---" delimited YAML, the front-matter style the
// docs site renders.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// frontMatter holds the front-matter fields the indexer cares about.
type frontMatter struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// parseFrontMatter returns the front-matter fields and the remaining body.
// Missing or malformed front-matter yields empty fields and the whole content.
func parseFrontMatter(content string) (frontMatter, string) {
	var fm frontMatter
	body, err := frontmatter.Parse(strings.NewReader(content), &fm, yamlFormat)
	if err != nil {
		return frontMatter{}, content
	}
	fm.ID = strings.TrimSpace(fm.ID)
	fm.Title = strings.TrimSpace(fm.Title)
	return fm, string(body)
}

// ExtractTitle returns the front-matter title, or a title derived from fileName.
func ExtractTitle(content, fileName string) string {
	if fm, _ := parseFrontMatter(content); fm.Title != "" {
		return fm.Title
	}
	return TitleFromFileName(fileName)
}

// ExtractID returns the front-matter id. The boolean is false when the
// document has none and the caller should fall back to the file name.
func ExtractID(content string) (string, bool) {
	fm, _ := parseFrontMatter(content)
	if fm.ID == "" {
		return "", false
	}
	return fm.ID, true
}

// StripFrontMatter returns content without its front-matter block.
func StripFrontMatter(content string) string {
	_, body := parseFrontMatter(content)
	return body
}
