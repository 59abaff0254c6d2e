// Package document loads raw text for catalogued files. Plain text and
// HTML are supported; other formats are extension points.
package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/searchine/searchine/pkg/errors"
)

// CanLoad reports whether path has a loadable extension.
func CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".text", ".html", ".htm":
		return true
	default:
		return false
	}
}

// Load reads the file at path and returns its contents as plain text. An
// undecodable document yields ErrDocumentDecode, which the build pipeline
// treats as a per-document skip, not a fatal error.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrDocumentDecode, "reading %s: %v", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractHTML(data, path)
	default:
		if !utf8.Valid(data) {
			return "", errors.Wrap(errors.ErrDocumentDecode, "%s is not valid UTF-8", path)
		}
		return string(data), nil
	}
}

// extractHTML collects the document's text nodes, ignoring everything
// under script and style elements.
func extractHTML(data []byte, path string) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(errors.ErrDocumentDecode, "parsing HTML in %s: %v", path, err)
	}
	var sb strings.Builder
	var skipDepth int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style")) {
			skipDepth++
		}
		if skipDepth == 0 && n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
		if n.Type == html.ElementNode && (strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style")) {
			skipDepth--
		}
	}
	walk(root)
	return sb.String(), nil
}
