// Package gallery resolves gallery marker folders into renderable photo sets.
package gallery

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/images"
	"github.com/giovifav/ssg/internal/markdown"
)

// ThumbsDir is the subfolder of the gallery marker that receives thumbnails
// in the output tree.
const ThumbsDir = "_thumbs"

// Item is one photograph: where it lives in the source tree, where its copy
// and thumbnail land in the output tree, and its caption.
type Item struct {
	Name      string // file name inside the marker folder
	SourceAbs string
	ImageRel  string // output path of the full-size copy, relative to the output root
	ThumbRel  string // output path of the thumbnail, relative to the output root
	Caption   string

	// ThumbFailed is set when thumbnail generation failed; the listing then
	// links the caption card straight to the original image.
	ThumbFailed bool
}

// Gallery is the resolved photo set for one gallery directory.
type Gallery struct {
	DirRel string // gallery directory, relative to the content root
	Items  []Item
}

// Resolve enumerates the marker folder of the gallery directory at dirAbs.
// Image files become items in sorted name order; caption sidecar files
// (<image>.txt) attach to their image; any other file draws an invalid-path
// warning. An absent or unreadable marker folder is a fatal IO error, since
// the directory was classified as a gallery by its presence.
func Resolve(dirAbs, dirRel string) (*Gallery, []*errs.SiteError, error) {
	markerAbs := filepath.Join(dirAbs, content.GalleryMarker)
	names, err := content.ListDir(markerAbs)
	if err != nil {
		return nil, nil, errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal,
			fmt.Sprintf("gallery folder not readable: %s", dirRel))
	}

	g := &Gallery{DirRel: dirRel}
	var warnings []*errs.SiteError

	captions := map[string]string{}
	var imageNames []string
	for _, name := range names {
		if strings.EqualFold(filepath.Ext(name), ".txt") {
			captions[strings.TrimSuffix(name, filepath.Ext(name))] = name
			continue
		}
		if !images.Supported(name) {
			warnings = append(warnings, errs.Warning(errs.CategoryInvalidPath,
				fmt.Sprintf("unsupported gallery file skipped: %s", path.Join(dirRel, content.GalleryMarker, name))))
			continue
		}
		imageNames = append(imageNames, name)
	}

	for _, name := range imageNames {
		item := Item{
			Name:      name,
			SourceAbs: filepath.Join(markerAbs, name),
			ImageRel:  path.Join(dirRel, content.GalleryMarker, name),
			ThumbRel:  path.Join(dirRel, content.GalleryMarker, ThumbsDir, name),
			Caption:   caption(markerAbs, name, captions),
		}
		g.Items = append(g.Items, item)
	}

	// Sidecars without a matching image are silently ignored; they may
	// belong to files skipped above.
	return g, warnings, nil
}

// caption resolves an item's caption: the sidecar file's trimmed content when
// present and non-empty, otherwise a title derived from the file name.
func caption(markerAbs, imageName string, sidecars map[string]string) string {
	if sidecar, ok := sidecars[imageName]; ok {
		data, err := os.ReadFile(filepath.Join(markerAbs, sidecar))
		if err == nil {
			if text := strings.TrimSpace(string(data)); text != "" {
				return text
			}
		}
	}
	stem := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	return markdown.TitleFromFilename(stem)
}

// GenerateThumbnail copies item i into the output tree and writes its
// thumbnail, marking the item when the thumbnail could not be produced.
// Items write to distinct paths, so different items may run concurrently.
func (g *Gallery) GenerateThumbnail(outputRoot string, maxDim, i int) *errs.SiteError {
	item := &g.Items[i]
	if err := copyFile(item.SourceAbs, filepath.Join(outputRoot, filepath.FromSlash(item.ImageRel))); err != nil {
		item.ThumbFailed = true
		return errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning,
			fmt.Sprintf("gallery image copy failed: %s", item.ImageRel))
	}
	dst := filepath.Join(outputRoot, filepath.FromSlash(item.ThumbRel))
	if err := images.Thumbnail(item.SourceAbs, dst, maxDim); err != nil {
		item.ThumbFailed = true
		return errs.Wrap(err, errs.CategoryThumbnail, errs.SeverityWarning,
			fmt.Sprintf("thumbnail generation failed: %s", item.ImageRel))
	}
	return nil
}

// GenerateThumbnails runs GenerateThumbnail over every item in order. One bad
// image never stops the rest of the set.
func (g *Gallery) GenerateThumbnails(outputRoot string, maxDim int) []*errs.SiteError {
	var warnings []*errs.SiteError
	for i := range g.Items {
		if w := g.GenerateThumbnail(outputRoot, maxDim, i); w != nil {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
