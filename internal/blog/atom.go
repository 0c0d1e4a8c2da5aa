package blog

import (
	"time"

	atom "github.com/thomas11/atomgenerator"
)

// FeedFile is the Atom feed name written next to each blog listing page.
const FeedFile = "feed.xml"

// Feed builds the Atom feed for the listed posts. baseURL prefixes every
// link; pass the site's base URL or "" for a relative feed. Undated posts are
// left out, an entry without a publication date does not validate.
func (b *Blog) Feed(title, author, baseURL string) ([]byte, error) {
	feed := atom.Feed{
		Title:   title,
		Link:    baseURL + b.DirRel + "/",
		PubDate: feedUpdated(b.Posts),
	}
	feed.AddAuthor(atom.Author{Name: author})

	for _, p := range b.Posts {
		if !p.HasDate {
			continue
		}
		entry := &atom.Entry{
			Title:       p.Title,
			Description: p.Summary,
			Link:        baseURL + p.OutputRel,
			PubDate:     p.Date,
			Content:     string(p.HTML),
		}
		for _, tag := range p.Tags {
			entry.AddCategory(atom.Category{Term: tag})
		}
		feed.AddEntry(entry)
	}

	if errs := feed.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return feed.GenXml()
}

// feedUpdated is the newest post date; a feed with no dated posts falls back
// to the build time.
func feedUpdated(posts []Post) time.Time {
	for _, p := range posts {
		if p.HasDate {
			return p.Date
		}
	}
	return time.Now()
}
