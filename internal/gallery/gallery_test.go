package gallery

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giovifav/ssg/internal/errs"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolve_ItemsSortedWithCaptions(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeJPEG(t, filepath.Join(marker, "beach_day.jpg"), 10, 10)
	writeJPEG(t, filepath.Join(marker, "alps.jpg"), 10, 10)
	writeText(t, filepath.Join(marker, "alps.jpg.txt"), "Sunrise over the Alps\n")

	g, warnings, err := Resolve(dir, "photos")
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, g.Items, 2)

	require.Equal(t, "alps.jpg", g.Items[0].Name)
	require.Equal(t, "Sunrise over the Alps", g.Items[0].Caption)
	require.Equal(t, "photos/_gallery/alps.jpg", g.Items[0].ImageRel)
	require.Equal(t, "photos/_gallery/_thumbs/alps.jpg", g.Items[0].ThumbRel)

	require.Equal(t, "beach_day.jpg", g.Items[1].Name)
	require.Equal(t, "Beach Day", g.Items[1].Caption)
}

func TestResolve_UnsupportedFileWarns(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeJPEG(t, filepath.Join(marker, "ok.jpg"), 10, 10)
	writeText(t, filepath.Join(marker, "clip.webp"), "x")

	g, warnings, err := Resolve(dir, "photos")
	require.NoError(t, err)
	require.Len(t, g.Items, 1)
	require.Len(t, warnings, 1)
	require.Equal(t, errs.CategoryInvalidPath, warnings[0].Category)
}

func TestResolve_EmptySidecarFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeJPEG(t, filepath.Join(marker, "old-town.jpg"), 10, 10)
	writeText(t, filepath.Join(marker, "old-town.jpg.txt"), "  \n")

	g, _, err := Resolve(dir, "photos")
	require.NoError(t, err)
	require.Len(t, g.Items, 1)
	require.Equal(t, "Old Town", g.Items[0].Caption)
}

func TestResolve_MissingMarkerIsFatal(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Resolve(dir, "photos")
	require.Error(t, err)
	require.True(t, errs.IsCategory(err, errs.CategoryIO))
}

func TestGenerateThumbnails_WritesCopiesAndThumbs(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeJPEG(t, filepath.Join(marker, "big.jpg"), 800, 600)

	g, _, err := Resolve(dir, "photos")
	require.NoError(t, err)

	out := t.TempDir()
	warnings := g.GenerateThumbnails(out, 400)
	require.Empty(t, warnings)
	require.False(t, g.Items[0].ThumbFailed)

	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "big.jpg"))
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "_thumbs", "big.jpg"))
}

func TestGenerateThumbnail_SingleItemIndependent(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeJPEG(t, filepath.Join(marker, "a.jpg"), 60, 40)
	writeJPEG(t, filepath.Join(marker, "b.jpg"), 60, 40)

	g, _, err := Resolve(dir, "photos")
	require.NoError(t, err)
	require.Len(t, g.Items, 2)

	// Generating one item touches only that item's output paths.
	out := t.TempDir()
	require.Nil(t, g.GenerateThumbnail(out, 400, 1))
	require.False(t, g.Items[1].ThumbFailed)
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "b.jpg"))
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "_thumbs", "b.jpg"))
	require.NoFileExists(t, filepath.Join(out, "photos", "_gallery", "a.jpg"))
}

func TestGenerateThumbnails_CorruptImageMarksItemAndContinues(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "_gallery")
	writeText(t, filepath.Join(marker, "broken.jpg"), "not an image")
	writeJPEG(t, filepath.Join(marker, "fine.jpg"), 50, 50)

	g, _, err := Resolve(dir, "photos")
	require.NoError(t, err)
	require.Len(t, g.Items, 2)

	out := t.TempDir()
	warnings := g.GenerateThumbnails(out, 400)
	require.Len(t, warnings, 1)
	require.Equal(t, errs.CategoryThumbnail, warnings[0].Category)

	require.True(t, g.Items[0].ThumbFailed)
	require.False(t, g.Items[1].ThumbFailed)

	// The original still lands in the output even when its thumbnail fails.
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "broken.jpg"))
	require.FileExists(t, filepath.Join(out, "photos", "_gallery", "_thumbs", "fine.jpg"))
}
