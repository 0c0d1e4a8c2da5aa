package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"

	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
)

// stageCopyAssets copies theme assets and every non-Markdown content file
// into the output, preserving the source structure. Per-file failures are
// warnings.
func stageCopyAssets(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	if err := gs.Theme.WriteAssets(g.outputRoot); err != nil {
		return newFatalStageError("copy_assets",
			errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal, "cannot write theme assets"))
	}

	copied := 0
	for _, e := range gs.Entries {
		if e.Kind != content.EntryAsset {
			continue
		}
		select {
		case <-ctx.Done():
			return newCanceledStageError("copy_assets", ctx.Err())
		default:
		}

		dst := filepath.Join(g.outputRoot, filepath.FromSlash(e.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			gs.Report.AddSiteErrors([]*errs.SiteError{errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning,
				fmt.Sprintf("cannot create directory for asset %s", e.RelPath))})
			continue
		}
		if err := cp.Copy(e.AbsPath, dst); err != nil {
			gs.Report.AddSiteErrors([]*errs.SiteError{errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning,
				fmt.Sprintf("asset copy failed: %s", e.RelPath))})
			continue
		}
		copied++
	}
	gs.Report.Assets = copied
	return nil
}
