package docs

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun   = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	nonSlugChars    = regexp.MustCompile(`[^\w-]+`)
	repeatedHyphens = regexp.MustCompile(`--+`)
	titleWordSep    = regexp.MustCompile(`[-_]`)
)

// Slugify converts heading text into the anchor token used in record IDs.
// Accented letters lose their marks ("Café" becomes "cafe"); anything outside
// [A-Za-z0-9_-] is dropped.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = norm.NFD.String(s)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	return repeatedHyphens.ReplaceAllString(s, "-")
}

// TitleFromFileName builds a display title from a file name:
// "getting-started.mdx" becomes "Getting Started".
func TitleFromFileName(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	words := titleWordSep.Split(base, -1)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
