package site

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/theme"
)

// renderJob is one page to lay out and write. Jobs are collected in traversal
// order and rendered concurrently; their warnings are reported in collection
// order so runs stay deterministic.
type renderJob struct {
	outputRel string
	data      theme.PageData
}

// stageRender writes every page of the site: regular pages, gallery pages,
// blog listings and individual posts. Draft posts render too, so their
// permalinks resolve; they stay out of listings, feeds and the search index.
// Per-page failures are warnings.
func stageRender(ctx context.Context, gs *GenState) error {
	jobs, err := collectJobs(gs)
	if err != nil {
		return newFatalStageError("render", err)
	}

	warnings := make([]*errs.SiteError, len(jobs))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(gs.Generator.cfg.Workers)

	for i, job := range jobs {
		i, job := i, job
		grp.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			warnings[i] = writePage(gs, job)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return newCanceledStageError("render", err)
	}

	rendered := 0
	for _, w := range warnings {
		if w == nil {
			rendered++
			continue
		}
		gs.Report.AddSiteErrors([]*errs.SiteError{w})
	}
	gs.Report.Pages = rendered
	gs.Generator.recorder.AddPagesRendered(rendered)
	return nil
}

// collectJobs assembles the page list in tree traversal order.
func collectJobs(gs *GenState) ([]renderJob, error) {
	g := gs.Generator
	var jobs []renderJob
	var fragErr error

	base := func(n *content.Node, title string, body template.HTML) theme.PageData {
		siteName, footer := g.cfg.ChromeFor(n.SourceRel)
		return theme.PageData{
			SiteName: siteName,
			Author:   g.cfg.Author,
			Footer:   footer,
			Title:    title,
			Base:     n.OutputRel,
			Content:  body,
			Crumbs:   gs.Tree.Breadcrumbs(n),
			Nav:      gs.Tree.BuildNav(n),
		}
	}

	gs.Tree.Walk(func(n *content.Node) {
		if n.OutputRel == "" || fragErr != nil {
			return
		}

		switch n.Kind {
		case content.KindPage:
			if n.IsDir && n.Doc == nil {
				return
			}
			if n.Doc == nil {
				return // load already warned; nothing to render
			}
			jobs = append(jobs, renderJob{n.OutputRel, base(n, n.Title, n.Doc.HTML)})

		case content.KindGallery:
			gal := gs.Galleries[n.ID]
			if gal == nil {
				return
			}
			frag, err := gs.Theme.GalleryHTML(n.OutputRel, gal.Items)
			if err != nil {
				fragErr = err
				return
			}
			body := frag
			if n.Doc != nil {
				body = n.Doc.HTML + frag
			}
			jobs = append(jobs, renderJob{n.OutputRel, base(n, n.Title, body)})

		case content.KindBlog:
			b := gs.Blogs[n.ID]
			if b == nil {
				return
			}
			frag, err := gs.Theme.BlogListHTML(n.OutputRel, b.Posts)
			if err != nil {
				fragErr = err
				return
			}
			body := frag
			if n.Doc != nil {
				body = n.Doc.HTML + frag
			}
			jobs = append(jobs, renderJob{n.OutputRel, base(n, n.Title, body)})

			for _, p := range b.All() {
				frag, err := gs.Theme.PostHTML(p)
				if err != nil {
					fragErr = err
					return
				}
				data := base(n, p.Title, frag)
				data.Base = p.OutputRel
				data.Crumbs = append(data.Crumbs, content.Crumb{Title: p.Title})
				crumbs := make([]content.Crumb, len(data.Crumbs))
				copy(crumbs, data.Crumbs)
				// The blog crumb links now that the post is below it.
				if len(crumbs) >= 2 {
					crumbs[len(crumbs)-2].Link = n.Link()
				}
				data.Crumbs = crumbs
				jobs = append(jobs, renderJob{p.OutputRel, data})
			}
		}
	})

	return jobs, fragErr
}

// writePage lays out and writes a single page, returning a warning on failure.
func writePage(gs *GenState, job renderJob) *errs.SiteError {
	dst := filepath.Join(gs.Generator.outputRoot, filepath.FromSlash(job.outputRel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning,
			fmt.Sprintf("cannot create output directory for %s", job.outputRel))
	}

	var buf bytes.Buffer
	if err := gs.Theme.RenderPage(&buf, job.data); err != nil {
		return errs.Wrap(err, errs.CategoryRender, errs.SeverityWarning,
			fmt.Sprintf("page render failed: %s", job.outputRel))
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning,
			fmt.Sprintf("page write failed: %s", job.outputRel))
	}
	return nil
}

// searchDate formats a document date for the index, empty when absent.
func searchDate(n *content.Node) string {
	if n.Doc != nil && n.Doc.Meta.HasDate {
		return n.Doc.Meta.Date.Format("2006-01-02")
	}
	return ""
}

// stageSearchIndex builds and writes the search index in traversal order:
// pages first, then each blog's posts after its listing.
func stageSearchIndex(ctx context.Context, gs *GenState) error {
	gs.Tree.Walk(func(n *content.Node) {
		if n.OutputRel == "" || n.Draft {
			return
		}

		switch n.Kind {
		case content.KindPage:
			if n.Doc == nil {
				return
			}
			gs.Index.Add(n.Title, n.OutputRel, searchDate(n), string(n.Doc.HTML))

		case content.KindGallery:
			gal := gs.Galleries[n.ID]
			if gal == nil {
				return
			}
			body := ""
			if n.Doc != nil {
				body = string(n.Doc.HTML)
			}
			for _, item := range gal.Items {
				body += " <p>" + template.HTMLEscapeString(item.Caption) + "</p>"
			}
			gs.Index.Add(n.Title, n.OutputRel, searchDate(n), body)

		case content.KindBlog:
			b := gs.Blogs[n.ID]
			if b == nil {
				return
			}
			body := ""
			if n.Doc != nil {
				body = string(n.Doc.HTML)
			}
			gs.Index.Add(n.Title, n.OutputRel, searchDate(n), body)
			for _, p := range b.Posts {
				date := ""
				if p.HasDate {
					date = p.Date.Format("2006-01-02")
				}
				gs.Index.Add(p.Title, p.OutputRel, date, string(p.HTML))
			}
		}
	})

	gs.Report.Indexed = gs.Index.Len()
	if err := gs.Index.Write(gs.Generator.outputRoot); err != nil {
		return newFatalStageError("search_index",
			errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal, "cannot write search index"))
	}
	return nil
}
