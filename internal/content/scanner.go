package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/logfields"
)

// Entry is one discovery record: a path relative to the content root plus
// its classification. Classification is a pure function of the path and the
// presence of marker entries, so repeated scans of an unchanged tree yield
// the same sequence.
type Entry struct {
	RelPath string // slash-separated, "" for the root directory itself
	AbsPath string
	Kind    EntryKind
}

// Scanner walks a content root and classifies every entry.
type Scanner struct {
	root string
}

// NewScanner creates a scanner for the given content root.
func NewScanner(root string) *Scanner { return &Scanner{root: root} }

// Scan walks the content root and returns discovery records in deterministic
// (lexical walk) order, plus per-entry warnings for rejected inputs.
// Symbolic links and anything resolving outside the root are rejected with
// an invalid-path warning; hidden files and directories are skipped silently.
func (s *Scanner) Scan() ([]Entry, []*errs.SiteError, error) {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return nil, nil, errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal,
			fmt.Sprintf("content root not usable: %s", s.root))
	}

	var entries []Entry
	var warnings []*errs.SiteError

	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			warnings = append(warnings, errs.Wrap(err, errs.CategoryInvalidPath, errs.SeverityWarning,
				fmt.Sprintf("path outside content root: %s", path)))
			return fs.SkipDir
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}

		name := d.Name()
		if rel != "" && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Reject symlinks outright; a link pointing back into the tree would
		// otherwise defeat the acyclic-by-construction assumption.
		if d.Type()&fs.ModeSymlink != 0 {
			warnings = append(warnings, errs.Warning(errs.CategoryInvalidPath,
				fmt.Sprintf("symbolic link rejected: %s", rel)))
			slog.Warn("Rejected symbolic link", logfields.Path(rel))
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// Marker folders are consumed by their resolvers, not scanned.
			if name == GalleryMarker || name == BlogMarker {
				return fs.SkipDir
			}
			entries = append(entries, Entry{RelPath: rel, AbsPath: path, Kind: classifyDir(path)})
			return nil
		}

		kind := EntryAsset
		if strings.EqualFold(filepath.Ext(name), ".md") {
			kind = EntryPage
		}
		entries = append(entries, Entry{RelPath: rel, AbsPath: path, Kind: kind})
		return nil
	})
	if err != nil {
		return nil, warnings, errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal, "content scan failed")
	}

	slog.Debug("Content scan complete", logfields.Count(len(entries)))
	return entries, warnings, nil
}

// classifyDir classifies a directory by the presence of marker subdirectories.
// A gallery marker wins over a blog marker when both are present.
func classifyDir(path string) EntryKind {
	if hasSubdir(path, GalleryMarker) {
		return EntryGallery
	}
	if hasSubdir(path, BlogMarker) {
		return EntryBlog
	}
	return EntryDir
}

func hasSubdir(path, name string) bool {
	info, err := os.Stat(filepath.Join(path, name))
	return err == nil && info.IsDir()
}

// ListDir returns the plain files of dir in sorted, stable order. Used by
// the gallery and blog resolvers to enumerate marker folder contents.
func ListDir(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range dirEntries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
