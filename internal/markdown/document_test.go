package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giovifav/ssg/internal/errs"
)

func TestParse_TitleFromFrontmatter(t *testing.T) {
	doc, warn := Parse("home/index.md", []byte("---\ntitle: Home\n---\n# Something Else\n"))
	require.Nil(t, warn)
	require.Equal(t, "Home", doc.Title)
}

func TestParse_TitleFromFirstHeading(t *testing.T) {
	doc, warn := Parse("about.md", []byte("# About Us\n\nbody\n"))
	require.Nil(t, warn)
	require.Equal(t, "About Us", doc.Title)
}

func TestParse_TitleFromFilename(t *testing.T) {
	doc, warn := Parse("our_team.md", []byte("no heading here\n"))
	require.Nil(t, warn)
	require.Equal(t, "Our Team", doc.Title)
}

func TestParse_MalformedFrontmatter_WarnsButProcessesBody(t *testing.T) {
	doc, warn := Parse("bad.md", []byte("---\n: [broken\n---\n# Survived\n"))
	require.NotNil(t, warn)
	require.Equal(t, errs.CategoryMetadata, warn.Category)
	require.Equal(t, errs.SeverityWarning, warn.Severity)
	require.Contains(t, string(doc.HTML), "Survived")
	require.Equal(t, "Survived", doc.Title)
}

func TestParse_UnterminatedFrontmatter_TreatsWholeFileAsBody(t *testing.T) {
	doc, warn := Parse("odd.md", []byte("---\ntitle: x\nbody keeps going\n"))
	require.NotNil(t, warn)
	require.Equal(t, errs.CategoryMetadata, warn.Category)
	require.NotEmpty(t, doc.HTML)
}

func TestParse_DraftFlagSurfaces(t *testing.T) {
	doc, warn := Parse("post.md", []byte("---\ntitle: P\ndraft: true\n---\nbody\n"))
	require.Nil(t, warn)
	require.True(t, doc.Meta.Draft)
}
