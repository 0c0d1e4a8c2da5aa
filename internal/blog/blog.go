// Package blog resolves blog marker folders into ordered post lists.
package blog

import (
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/markdown"
)

// Post is one blog entry, loaded and converted.
type Post struct {
	Name      string // file name inside the marker folder
	SourceRel string // source path relative to the content root
	OutputRel string // output path relative to the output root

	Title   string
	Date    time.Time
	HasDate bool
	Author  string
	Tags    []string
	Draft   bool
	Summary string
	HTML    template.HTML
}

// Blog is the resolved post set for one blog directory. Posts holds every
// non-draft post in listing order; Drafts are excluded from listings, feeds
// and the search index but still render individual pages, so a direct link
// to a draft keeps working.
type Blog struct {
	DirRel string
	Posts  []Post
	Drafts []Post
}

// All returns every post that renders an individual page: the listed posts
// in listing order, then the drafts.
func (b *Blog) All() []Post {
	all := make([]Post, 0, len(b.Posts)+len(b.Drafts))
	all = append(all, b.Posts...)
	return append(all, b.Drafts...)
}

// Resolve loads every Markdown file in the blog directory's marker folder.
// Posts sort newest first; posts without a date sort after all dated posts,
// each drawing a metadata warning. Per-post load failures are warnings too,
// the rest of the set still resolves.
func Resolve(dirAbs, dirRel string) (*Blog, []*errs.SiteError, error) {
	markerAbs := filepath.Join(dirAbs, content.BlogMarker)
	names, err := content.ListDir(markerAbs)
	if err != nil {
		return nil, nil, errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal,
			fmt.Sprintf("blog folder not readable: %s", dirRel))
	}

	b := &Blog{DirRel: dirRel}
	var warnings []*errs.SiteError

	for _, name := range names {
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		doc, warn := markdown.Load(filepath.Join(markerAbs, name))
		if warn != nil {
			warnings = append(warnings, warn)
		}
		if doc == nil {
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		post := Post{
			Name:      name,
			SourceRel: path.Join(dirRel, content.BlogMarker, name),
			OutputRel: path.Join(dirRel, content.BlogMarker, stem+".html"),
			Title:     doc.Title,
			Date:      doc.Meta.Date,
			HasDate:   doc.Meta.HasDate,
			Author:    doc.Meta.Author,
			Tags:      doc.Meta.Tags,
			Draft:     doc.Meta.Draft,
			Summary:   doc.Meta.Summary,
			HTML:      doc.HTML,
		}
		if !post.HasDate {
			warnings = append(warnings, errs.Warning(errs.CategoryMetadata,
				fmt.Sprintf("post has no date, listed last: %s", post.SourceRel)))
		}

		if post.Draft {
			b.Drafts = append(b.Drafts, post)
		} else {
			b.Posts = append(b.Posts, post)
		}
	}

	sortPosts(b.Posts)
	sortPosts(b.Drafts)
	return b, warnings, nil
}

// sortPosts orders newest first; undated posts follow all dated posts. Ties
// fall back to file name so the order is total.
func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.HasDate != b.HasDate {
			return a.HasDate
		}
		if a.HasDate && !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Name < b.Name
	})
}

// Tags returns the distinct tags across the listed posts, sorted.
func (b *Blog) Tags() []string {
	seen := map[string]bool{}
	for _, p := range b.Posts {
		for _, tag := range p.Tags {
			seen[tag] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// ByTag returns the listed posts carrying the given tag, in listing order.
func (b *Blog) ByTag(tag string) []Post {
	var out []Post
	for _, p := range b.Posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
