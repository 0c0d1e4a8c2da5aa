package site

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giovifav/ssg/internal/config"
	"github.com/giovifav/ssg/internal/search"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func writeJPEG(t *testing.T, root, rel string, w, h int) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(full)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

// fixtureSite builds a small complete site: pages, a gallery, a blog and a
// loose asset.
func fixtureSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "site.yaml", "site_name: Test Site\nauthor: Ada\n")
	writeFile(t, root, "index.md", "# Welcome\n\nThe home page.\n")
	writeFile(t, root, "about.md", "---\ntitle: About\ndate: 2024-01-15\n---\nAbout a < b and such.\n")
	writeFile(t, root, "docs/index.md", "---\ntitle: Docs\n---\nDocumentation root.\n")
	writeFile(t, root, "docs/guide.md", "# Guide\n\nStep one.\n")
	writeFile(t, root, "photos/index.md", "# Holiday Photos\n\nIntro text.\n")
	writeJPEG(t, root, "photos/_gallery/alps.jpg", 600, 400)
	writeFile(t, root, "photos/_gallery/alps.jpg.txt", "Sunrise over the Alps")
	writeFile(t, root, "news/_blog/first.md", "---\ntitle: First Post\ndate: 2024-02-01\ntags: [go]\n---\nHello world.\n")
	writeFile(t, root, "news/_blog/second.md", "---\ntitle: Second Post\ndate: 2024-03-01\n---\nMore news.\n")
	writeFile(t, root, "extra/style-notes.txt", "asset payload")
	return root
}

func generate(t *testing.T, root string) (*Generator, *Report) {
	t.Helper()
	cfg, err := config.Load(root)
	require.NoError(t, err)
	g := NewGenerator(root, cfg)
	report, err := g.Generate(context.Background())
	require.NoError(t, err)
	return g, report
}

func TestGenerate_FullSite(t *testing.T) {
	root := fixtureSite(t)
	g, report := generate(t, root)
	out := g.OutputRoot()

	for _, rel := range []string{
		"index.html",
		"about.html",
		"docs/index.html",
		"docs/guide.html",
		"photos/index.html",
		"photos/_gallery/alps.jpg",
		"photos/_gallery/_thumbs/alps.jpg",
		"news/index.html",
		"news/_blog/first.html",
		"news/_blog/second.html",
		"news/feed.xml",
		"extra/style-notes.txt",
		"404.html",
		"theme.css",
		"gallery.css",
		"gallery.js",
		"common.js",
		"search.js",
		search.IndexFile,
	} {
		require.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)), rel)
	}

	// Reserved files never leak into the output as content.
	require.NoFileExists(t, filepath.Join(out, "site.yaml"))
	require.NoFileExists(t, filepath.Join(out, "output"))

	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Equal(t, 1, report.Galleries)
	require.Equal(t, 1, report.Blogs)
	require.Equal(t, 2, report.Posts)
	require.Equal(t, 1, report.Thumbnails)
	require.Equal(t, 1, report.Assets)
	// home, about, docs, guide, photos, news, two posts
	require.Equal(t, 8, report.Pages)
}

func TestGenerate_PageChrome(t *testing.T) {
	root := fixtureSite(t)
	g, _ := generate(t, root)

	html, err := os.ReadFile(filepath.Join(g.OutputRoot(), "docs", "guide.html"))
	require.NoError(t, err)
	page := string(html)

	require.Contains(t, page, "<title>Guide - Test Site</title>")
	require.Contains(t, page, `href="../theme.css"`)
	require.Contains(t, page, "Step one.")
	require.Contains(t, page, "Copyright Ada")
	// Breadcrumb chain: Home > Docs > Guide, current entry unlinked.
	require.Contains(t, page, `<a href="../index.html">Home</a>`)
	require.Contains(t, page, "<span>Guide</span>")
}

func TestGenerate_GalleryPage(t *testing.T) {
	root := fixtureSite(t)
	g, _ := generate(t, root)

	html, err := os.ReadFile(filepath.Join(g.OutputRoot(), "photos", "index.html"))
	require.NoError(t, err)
	page := string(html)

	require.Contains(t, page, "Intro text.")
	require.Contains(t, page, `src="../photos/_gallery/_thumbs/alps.jpg"`)
	require.Contains(t, page, "Sunrise over the Alps")
}

func TestGenerate_BlogListingNewestFirst(t *testing.T) {
	root := fixtureSite(t)
	g, _ := generate(t, root)

	html, err := os.ReadFile(filepath.Join(g.OutputRoot(), "news", "index.html"))
	require.NoError(t, err)
	page := string(html)

	second := strings.Index(page, "Second Post")
	first := strings.Index(page, "First Post")
	require.Greater(t, first, second, "newest post listed first")
}

func TestGenerate_SearchIndex(t *testing.T) {
	root := fixtureSite(t)
	g, _ := generate(t, root)

	data, err := os.ReadFile(filepath.Join(g.OutputRoot(), search.IndexFile))
	require.NoError(t, err)
	var entries []search.Entry
	require.NoError(t, json.Unmarshal(data, &entries))

	byURL := map[string]search.Entry{}
	for _, e := range entries {
		byURL[e.URL] = e
	}

	require.Contains(t, byURL, "index.html")
	require.Contains(t, byURL, "about.html")
	require.Contains(t, byURL, "news/_blog/first.html")
	require.Contains(t, byURL, "photos/index.html")

	// Entities decode exactly once: "<" in the source survives as "<".
	require.Contains(t, byURL["about.html"].Content, "a < b")
	require.Equal(t, "2024-01-15", byURL["about.html"].Date)
	require.Equal(t, "2024-02-01", byURL["news/_blog/first.html"].Date)
	require.Contains(t, byURL["photos/index.html"].Content, "Sunrise over the Alps")
}

func TestGenerate_CorruptGalleryImage(t *testing.T) {
	root := fixtureSite(t)
	writeFile(t, root, "photos/_gallery/broken.jpg", "not a jpeg")

	g, report := generate(t, root)
	out := g.OutputRoot()

	require.Equal(t, OutcomeWarning, report.Outcome)
	require.Equal(t, 1, report.Thumbnails)

	// The original is still copied; the listing links it without a thumb.
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "broken.jpg"))
	require.NoFileExists(t, filepath.Join(out, "photos", "_gallery", "_thumbs", "broken.jpg"))

	html, err := os.ReadFile(filepath.Join(out, "photos", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "gallery-broken")
}

func TestGenerate_DraftPostRenderedButUnlisted(t *testing.T) {
	root := fixtureSite(t)
	writeFile(t, root, "news/_blog/wip.md", "---\ntitle: Unfinished Thing\ndate: 2024-04-01\ndraft: true\n---\nnot yet\n")

	g, report := generate(t, root)
	out := g.OutputRoot()

	require.Equal(t, 2, report.Posts)

	// The draft's page exists at its computed URL, so direct links work.
	data, err := os.ReadFile(filepath.Join(out, "news", "_blog", "wip.html"))
	require.NoError(t, err)
	require.Contains(t, string(data), "Unfinished Thing")

	for _, rel := range []string{"news/index.html", "news/feed.xml", search.IndexFile} {
		data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err)
		require.NotContains(t, string(data), "Unfinished Thing", rel)
	}
}

func TestStageFeeds_CreatesBlogDirectory(t *testing.T) {
	root := fixtureSite(t)
	cfg, err := config.Load(root)
	require.NoError(t, err)
	g := NewGenerator(root, cfg)

	ctx := context.Background()
	gs := newGenState(g, newReport("feeds-only"))
	require.NoError(t, stageCleanOutput(ctx, gs))
	require.NoError(t, stageScan(ctx, gs))
	require.NoError(t, stageLoadDocuments(ctx, gs))
	require.NoError(t, stageBuildTree(ctx, gs))
	require.NoError(t, stageResolveBlogs(ctx, gs))

	// The render stage never ran, so news/ does not exist in the output yet.
	require.NoError(t, stageFeeds(ctx, gs))
	require.FileExists(t, filepath.Join(g.OutputRoot(), "news", "feed.xml"))
}

func TestGenerate_Idempotent(t *testing.T) {
	root := fixtureSite(t)
	g, _ := generate(t, root)

	readAll := func() map[string]string {
		files := map[string]string{}
		require.NoError(t, filepath.Walk(g.OutputRoot(), func(p string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(g.OutputRoot(), p)
			if rel == "news/feed.xml" {
				return nil // carries the build timestamp in feed metadata
			}
			files[rel] = string(data)
			return nil
		}))
		return files
	}

	first := readAll()
	_, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, readAll())
}

func TestGenerate_CleansStaleOutput(t *testing.T) {
	root := fixtureSite(t)
	writeFile(t, root, "output/stale.html", "old")

	g, _ := generate(t, root)
	require.NoFileExists(t, filepath.Join(g.OutputRoot(), "stale.html"))
}

func TestGenerate_MalformedFrontmatterStillRenders(t *testing.T) {
	root := fixtureSite(t)
	writeFile(t, root, "notes.md", "---\ntitle: [unclosed\n---\nVisible body text.\n")

	g, report := generate(t, root)

	require.Equal(t, OutcomeWarning, report.Outcome)
	html, err := os.ReadFile(filepath.Join(g.OutputRoot(), "notes.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "Visible body text.")
}

func TestGenerate_Canceled(t *testing.T) {
	root := fixtureSite(t)
	cfg, err := config.Load(root)
	require.NoError(t, err)
	g := NewGenerator(root, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := g.Generate(ctx)
	require.Error(t, err)
	require.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestGenerate_NotFoundFromSiteFile(t *testing.T) {
	root := fixtureSite(t)
	writeFile(t, root, "404.md", "# Custom Missing Page\n")

	g, _ := generate(t, root)

	html, err := os.ReadFile(filepath.Join(g.OutputRoot(), "404.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "Custom Missing Page")
	// The 404 source never renders as a regular page.
	require.NoFileExists(t, filepath.Join(g.OutputRoot(), "404", "index.html"))
}
