// Package site orchestrates the generation pipeline: scan, load, tree,
// resolve, render, index. Stages run in a fixed order; per-input failures
// become recorded warnings while run-level failures abort.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/giovifav/ssg/internal/blog"
	"github.com/giovifav/ssg/internal/config"
	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/gallery"
	"github.com/giovifav/ssg/internal/logfields"
	"github.com/giovifav/ssg/internal/markdown"
	"github.com/giovifav/ssg/internal/metrics"
	"github.com/giovifav/ssg/internal/theme"
)

// Generator drives one or more generation runs for a single site.
type Generator struct {
	siteRoot   string
	outputRoot string
	cfg        *config.Config
	recorder   metrics.Recorder
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder injects a metrics recorder; the default is NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// NewGenerator creates a generator for the site at siteRoot.
func NewGenerator(siteRoot string, cfg *config.Config, opts ...Option) *Generator {
	out := cfg.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(siteRoot, out)
	}
	g := &Generator{
		siteRoot:   siteRoot,
		outputRoot: out,
		cfg:        cfg,
		recorder:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputRoot returns the resolved output directory.
func (g *Generator) OutputRoot() string { return g.outputRoot }

// Generate runs the full pipeline once. The returned report is always
// populated, also when the run failed; the error is the first fatal stage
// error, nil otherwise.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	report := newReport(runID)
	gs := newGenState(g, report)

	slog.Info("Site generation started",
		logfields.RunID(runID), logfields.Site(g.cfg.SiteName), logfields.Output(g.outputRoot))

	err := runStages(ctx, gs, []namedStage{
		{"clean_output", stageCleanOutput},
		{"scan", stageScan},
		{"load_documents", stageLoadDocuments},
		{"build_tree", stageBuildTree},
		{"load_theme", stageLoadTheme},
		{"resolve_galleries", stageResolveGalleries},
		{"resolve_blogs", stageResolveBlogs},
		{"render", stageRender},
		{"thumbnails", stageThumbnails},
		{"copy_assets", stageCopyAssets},
		{"search_index", stageSearchIndex},
		{"feeds", stageFeeds},
		{"not_found", stageNotFound},
	})

	report.finish()
	g.recorder.ObserveGenerationDuration(report.Duration())
	g.recorder.IncGenerationOutcome(string(report.Outcome))
	g.recorder.AddWarnings(len(report.Warnings))

	if err != nil {
		slog.Error("Site generation failed",
			logfields.RunID(runID), logfields.Error(err))
		return report, err
	}
	slog.Info("Site generation finished",
		logfields.RunID(runID),
		logfields.Count(report.Pages),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

// stageCleanOutput removes the previous output tree and recreates the root,
// so deleted content never lingers between runs.
func stageCleanOutput(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	if filepath.Clean(g.outputRoot) == filepath.Clean(g.siteRoot) {
		return newFatalStageError("clean_output",
			errs.Fatal(errs.CategoryConfig, "output directory equals the site root"))
	}
	if err := os.RemoveAll(g.outputRoot); err != nil {
		return newFatalStageError("clean_output",
			errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal, "cannot clean output directory"))
	}
	if err := os.MkdirAll(g.outputRoot, 0o755); err != nil {
		return newFatalStageError("clean_output",
			errs.Wrap(err, errs.CategoryIO, errs.SeverityFatal, "cannot create output directory"))
	}
	return nil
}

// stageScan discovers the content tree, dropping the generator's own
// reserved files (configuration, theme overrides, the output directory).
func stageScan(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	entries, warnings, err := content.NewScanner(g.siteRoot).Scan()
	gs.Report.AddSiteErrors(warnings)
	if err != nil {
		return newFatalStageError("scan", err)
	}
	gs.Entries = g.filterReserved(entries)
	return nil
}

func (g *Generator) filterReserved(entries []content.Entry) []content.Entry {
	outputRel := ""
	if rel, err := filepath.Rel(g.siteRoot, g.outputRoot); err == nil && !strings.HasPrefix(rel, "..") {
		outputRel = filepath.ToSlash(rel)
	}
	reserved := map[string]bool{
		config.ConfigFileName: true,
		g.cfg.Theme:           true,
		g.cfg.ThemeCSS:        true,
	}

	var kept []content.Entry
	for _, e := range entries {
		if reserved[e.RelPath] {
			continue
		}
		if outputRel != "" && (e.RelPath == outputRel || strings.HasPrefix(e.RelPath, outputRel+"/")) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// stageLoadDocuments parses every discovered Markdown file. Per-file parse
// problems are warnings; the file either yields a degraded document or none.
func stageLoadDocuments(ctx context.Context, gs *GenState) error {
	for _, e := range gs.Entries {
		if e.Kind != content.EntryPage {
			continue
		}
		select {
		case <-ctx.Done():
			return newCanceledStageError("load_documents", ctx.Err())
		default:
		}
		doc, warn := markdown.Load(e.AbsPath)
		if warn != nil {
			gs.Report.AddSiteErrors([]*errs.SiteError{warn})
		}
		if doc != nil {
			doc.Path = e.RelPath
			gs.Docs[e.RelPath] = doc
		}
	}
	return nil
}

func stageBuildTree(ctx context.Context, gs *GenState) error {
	tree, err := content.Build(gs.Entries, gs.Docs, gs.Generator.cfg.MaxDepth)
	if err != nil {
		return newFatalStageError("build_tree", err)
	}
	gs.Tree = tree
	return nil
}

func stageLoadTheme(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	engine, err := theme.New(g.siteRoot, g.cfg.Theme, g.cfg.ThemeCSS)
	if err != nil {
		return newFatalStageError("load_theme", err)
	}
	gs.Theme = engine
	return nil
}

// stageResolveGalleries resolves every gallery directory in traversal order.
func stageResolveGalleries(ctx context.Context, gs *GenState) error {
	var fatal error
	gs.Tree.Walk(func(n *content.Node) {
		if n.Kind != content.KindGallery || fatal != nil {
			return
		}
		gal, warnings, err := gallery.Resolve(
			filepath.Join(gs.Generator.siteRoot, filepath.FromSlash(n.SourceRel)), n.SourceRel)
		gs.Report.AddSiteErrors(warnings)
		if err != nil {
			fatal = err
			return
		}
		gs.Galleries[n.ID] = gal
		gs.Report.Galleries++
	})
	if fatal != nil {
		return newFatalStageError("resolve_galleries", fatal)
	}
	return nil
}

// stageResolveBlogs resolves every blog directory in traversal order.
func stageResolveBlogs(ctx context.Context, gs *GenState) error {
	var fatal error
	gs.Tree.Walk(func(n *content.Node) {
		if n.Kind != content.KindBlog || fatal != nil {
			return
		}
		b, warnings, err := blog.Resolve(
			filepath.Join(gs.Generator.siteRoot, filepath.FromSlash(n.SourceRel)), n.SourceRel)
		gs.Report.AddSiteErrors(warnings)
		if err != nil {
			fatal = err
			return
		}
		gs.Blogs[n.ID] = b
		gs.Report.Blogs++
		gs.Report.Posts += len(b.Posts)
	})
	if fatal != nil {
		return newFatalStageError("resolve_blogs", fatal)
	}
	return nil
}

// stageThumbnails generates gallery image copies and thumbnails with a
// bounded worker pool, one job per image. Each item writes to its own paths,
// and warnings keep tree traversal order.
func stageThumbnails(ctx context.Context, gs *GenState) error {
	g := gs.Generator

	type thumbJob struct {
		gal  *gallery.Gallery
		item int
	}
	var jobs []thumbJob
	gs.Tree.Walk(func(n *content.Node) {
		gal, ok := gs.Galleries[n.ID]
		if !ok {
			return
		}
		for i := range gal.Items {
			jobs = append(jobs, thumbJob{gal, i})
		}
	})

	warnings := make([]*errs.SiteError, len(jobs))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)
	for i, job := range jobs {
		i, job := i, job
		grp.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			warnings[i] = job.gal.GenerateThumbnail(g.outputRoot, g.cfg.ThumbMax, job.item)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return newCanceledStageError("thumbnails", err)
	}

	produced := 0
	for _, w := range warnings {
		if w == nil {
			produced++
			continue
		}
		gs.Report.AddSiteErrors([]*errs.SiteError{w})
	}
	gs.Report.Thumbnails = produced
	g.recorder.AddThumbnails(produced)
	slog.Debug("Thumbnails generated", logfields.Count(produced))
	return nil
}

// stageFeeds writes one Atom feed per blog directory.
func stageFeeds(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	var firstWarn error
	gs.Tree.Walk(func(n *content.Node) {
		b, ok := gs.Blogs[n.ID]
		if !ok {
			return
		}
		xml, err := b.Feed(n.Title, g.cfg.Author, "")
		if err != nil {
			w := errs.Wrap(err, errs.CategoryRender, errs.SeverityWarning,
				fmt.Sprintf("feed generation failed: %s", b.DirRel))
			gs.Report.AddSiteErrors([]*errs.SiteError{w})
			if firstWarn == nil {
				firstWarn = w
			}
			return
		}
		// The blog directory may not exist yet when its listing render failed.
		dst := filepath.Join(g.outputRoot, filepath.FromSlash(b.DirRel), blog.FeedFile)
		writeErr := os.MkdirAll(filepath.Dir(dst), 0o755)
		if writeErr == nil {
			writeErr = os.WriteFile(dst, xml, 0o644)
		}
		if writeErr != nil {
			w := errs.Wrap(writeErr, errs.CategoryIO, errs.SeverityWarning,
				fmt.Sprintf("feed write failed: %s", b.DirRel))
			gs.Report.AddSiteErrors([]*errs.SiteError{w})
			if firstWarn == nil {
				firstWarn = w
			}
		}
	})
	if firstWarn != nil {
		return newWarnStageError("feeds", firstWarn)
	}
	return nil
}

// stageNotFound renders the not-found page at the output root. A root-level
// 404.md supplies the body when present, the embedded page otherwise.
func stageNotFound(ctx context.Context, gs *GenState) error {
	g := gs.Generator
	body := theme.NotFoundHTML()
	title := "Page not found"
	if doc, ok := gs.Docs["404.md"]; ok {
		body = doc.HTML
		title = doc.Title
	}

	data := theme.PageData{
		SiteName: g.cfg.SiteName,
		Author:   g.cfg.Author,
		Footer:   g.cfg.Footer,
		Title:    title,
		Base:     "404.html",
		Content:  body,
		Crumbs:   []content.Crumb{{Title: title}},
		Nav:      gs.Tree.BuildNav(nil),
	}
	f, err := os.Create(filepath.Join(g.outputRoot, "404.html"))
	if err != nil {
		return newWarnStageError("not_found",
			errs.Wrap(err, errs.CategoryIO, errs.SeverityWarning, "cannot create 404.html"))
	}
	defer f.Close()
	if err := gs.Theme.RenderPage(f, data); err != nil {
		return newWarnStageError("not_found",
			errs.Wrap(err, errs.CategoryRender, errs.SeverityWarning, "404 page render failed"))
	}
	return nil
}
