package markdown

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/frontmatter"
)

// Document is the loaded form of one Markdown content file.
type Document struct {
	Path  string           // source path as given to Load
	Meta  frontmatter.Meta // typed metadata (zero value when absent)
	HTML  template.HTML    // converted body, safe to embed in layouts
	Title string           // resolved per the title fallback chain
}

// Load reads a Markdown file, splits frontmatter from body, converts the
// body to HTML and resolves the title (frontmatter title, then first H1,
// then filename).
//
// Malformed frontmatter is never fatal: the body is still processed and the
// defect is returned as a metadata-category warning alongside the document.
func Load(path string) (*Document, *errs.SiteError) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CategoryConversion, errs.SeverityWarning,
			fmt.Sprintf("failed to read %s", path))
	}
	return Parse(path, content)
}

// Parse is Load without the file read, for callers that already hold the bytes.
func Parse(path string, content []byte) (*Document, *errs.SiteError) {
	doc := &Document{Path: path}
	var warn *errs.SiteError

	raw, body, had, err := frontmatter.Split(content)
	if err != nil {
		// Unterminated frontmatter: treat the whole file as body.
		warn = errs.Wrap(err, errs.CategoryMetadata, errs.SeverityWarning,
			fmt.Sprintf("malformed frontmatter in %s", path))
		body = content
		had = false
	}
	if had {
		fields, err := frontmatter.ParseYAML(raw)
		if err != nil {
			warn = errs.Wrap(err, errs.CategoryMetadata, errs.SeverityWarning,
				fmt.Sprintf("malformed frontmatter in %s", path))
		} else {
			meta, err := frontmatter.ParseMeta(fields)
			if err != nil && warn == nil {
				warn = errs.Wrap(err, errs.CategoryMetadata, errs.SeverityWarning,
					fmt.Sprintf("invalid metadata value in %s", path))
			}
			doc.Meta = meta
		}
	}

	htmlBody, err := Convert(body)
	if err != nil {
		return nil, errs.Wrap(err, errs.CategoryConversion, errs.SeverityWarning,
			fmt.Sprintf("markdown conversion failed for %s", path))
	}
	doc.HTML = template.HTML(htmlBody)

	doc.Title = doc.Meta.Title
	if doc.Title == "" {
		doc.Title = FirstHeading(body)
	}
	if doc.Title == "" {
		doc.Title = TitleFromFilename(filepath.Base(path))
	}
	return doc, warn
}
