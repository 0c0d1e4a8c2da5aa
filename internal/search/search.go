// Package search builds the client-side search index: one JSON document
// listing every rendered page with its visible text.
package search

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// IndexFile is the index name written at the output root.
const IndexFile = "search-index.json"

// Entry is one searchable page.
type Entry struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date,omitempty"`
	Content string `json:"content"`
}

// Index accumulates entries in the order pages are rendered, so the emitted
// document is deterministic for an unchanged site.
type Index struct {
	entries []Entry
	seen    map[string]bool
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{seen: map[string]bool{}}
}

// Add records a page. The first entry for a URL wins; later additions for the
// same URL are dropped so a page rendered through two paths indexes once.
func (x *Index) Add(title, url, date string, bodyHTML string) {
	if x.seen[url] {
		return
	}
	x.seen[url] = true
	x.entries = append(x.entries, Entry{
		Title:   title,
		URL:     url,
		Date:    date,
		Content: ExtractText(bodyHTML),
	})
}

// Len returns the number of indexed pages.
func (x *Index) Len() int { return len(x.entries) }

// Entries returns the accumulated entries in insertion order.
func (x *Index) Entries() []Entry { return x.entries }

// Write emits the index as JSON at the output root.
func (x *Index) Write(outputRoot string) error {
	data, err := json.Marshal(x.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputRoot, IndexFile), data, 0o644)
}

// ExtractText strips markup from an HTML fragment, returning the visible text
// with runs of whitespace collapsed to single spaces. Entities are decoded by
// the tokenizer exactly once, so "&amp;lt;" comes out as "&lt;" and never as
// "<". Script and style bodies are dropped.
func ExtractText(fragment string) string {
	tok := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	skip := 0
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tok.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.Join(strings.Fields(string(tok.Text())), " "); text != "" {
				parts = append(parts, text)
			}
		}
	}
}
