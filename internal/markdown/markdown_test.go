package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_Deterministic(t *testing.T) {
	body := []byte("# Hello\n\nSome *text* with a [link](a.html).\n\n- one\n- two\n")

	first, err := Convert(body)
	require.NoError(t, err)
	second, err := Convert(body)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Contains(t, string(first), "<h1")
}

func TestFirstHeading_FindsLevelOne(t *testing.T) {
	require.Equal(t, "About Us", FirstHeading([]byte("intro\n\n# About Us\n\nbody\n")))
}

func TestFirstHeading_IgnoresLowerLevels(t *testing.T) {
	require.Equal(t, "", FirstHeading([]byte("## Subtitle\n\nbody\n")))
}

func TestFirstHeading_EmphasisInsideHeading(t *testing.T) {
	require.Equal(t, "About Us", FirstHeading([]byte("# About *Us*\n")))
}

func TestTitleFromFilename(t *testing.T) {
	cases := map[string]string{
		"about_us.md":  "About Us",
		"my-page.md":   "My Page",
		"index.md":     "Index",
		"Already Good": "Already Good",
	}
	for in, want := range cases {
		require.Equal(t, want, TitleFromFilename(in), "input %q", in)
	}
}
