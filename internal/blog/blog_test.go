package blog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giovifav/ssg/internal/errs"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func blogFixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	marker := filepath.Join(dir, "_blog")
	writePost(t, marker, "first.md", "---\ntitle: First Post\ndate: 2024-01-10\ntags: [go, site]\n---\nhello\n")
	writePost(t, marker, "second.md", "---\ntitle: Second Post\ndate: 2024-03-05\ntags: [go]\n---\nagain\n")
	writePost(t, marker, "undated.md", "# No Date Here\n")
	writePost(t, marker, "wip.md", "---\ntitle: Work In Progress\ndate: 2024-02-01\ndraft: true\n---\nnot yet\n")
	return dir, marker
}

func TestResolve_OrdersNewestFirstUndatedLast(t *testing.T) {
	dir, _ := blogFixture(t)

	b, warnings, err := Resolve(dir, "news")
	require.NoError(t, err)

	require.Len(t, b.Posts, 3)
	require.Equal(t, "Second Post", b.Posts[0].Title)
	require.Equal(t, "First Post", b.Posts[1].Title)
	require.Equal(t, "No Date Here", b.Posts[2].Title)

	// Only the undated post warns.
	require.Len(t, warnings, 1)
	require.Equal(t, errs.CategoryMetadata, warnings[0].Category)
}

func TestResolve_DraftsExcludedFromListing(t *testing.T) {
	dir, _ := blogFixture(t)

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)

	require.Len(t, b.Drafts, 1)
	require.Equal(t, "Work In Progress", b.Drafts[0].Title)
	for _, p := range b.Posts {
		require.False(t, p.Draft)
	}

	// All still carries the draft, after the listed posts, so its page renders.
	all := b.All()
	require.Len(t, all, 4)
	require.Equal(t, "Work In Progress", all[3].Title)
	require.Equal(t, "news/_blog/wip.html", all[3].OutputRel)
}

func TestResolve_OutputPaths(t *testing.T) {
	dir, _ := blogFixture(t)

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)

	require.Equal(t, "news/_blog/second.html", b.Posts[0].OutputRel)
	require.Equal(t, "news/_blog/second.md", b.Posts[0].SourceRel)
}

func TestResolve_NonMarkdownFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_blog")
	writePost(t, marker, "post.md", "---\ntitle: P\ndate: 2024-01-01\n---\nx\n")
	writePost(t, marker, "notes.txt", "ignored")

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)
	require.Len(t, b.Posts, 1)
}

func TestResolve_MissingMarkerIsFatal(t *testing.T) {
	_, _, err := Resolve(t.TempDir(), "news")
	require.Error(t, err)
	require.True(t, errs.IsCategory(err, errs.CategoryIO))
}

func TestTags_DeduplicatedAndSorted(t *testing.T) {
	dir, _ := blogFixture(t)

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)
	require.Equal(t, []string{"go", "site"}, b.Tags())
}

func TestByTag(t *testing.T) {
	dir, _ := blogFixture(t)

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)

	goPosts := b.ByTag("go")
	require.Len(t, goPosts, 2)
	require.Equal(t, "Second Post", goPosts[0].Title)

	require.Empty(t, b.ByTag("missing"))
}

func TestFeed_ContainsDatedPostsOnly(t *testing.T) {
	dir, _ := blogFixture(t)

	b, _, err := Resolve(dir, "news")
	require.NoError(t, err)

	xml, err := b.Feed("News", "Ada", "https://example.org/")
	require.NoError(t, err)

	s := string(xml)
	require.Contains(t, s, "Second Post")
	require.Contains(t, s, "First Post")
	require.NotContains(t, s, "No Date Here")
	require.NotContains(t, s, "Work In Progress")
	require.Contains(t, s, "https://example.org/news/_blog/second.html")
}
