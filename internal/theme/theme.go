// Package theme renders pages through the site layout. A default layout and
// stylesheet are embedded; a site can override either by placing its own
// files next to its configuration.
package theme

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/giovifav/ssg/internal/content"
	"github.com/giovifav/ssg/internal/errs"
)

//go:embed assets
var assets embed.FS

// Static asset names copied to the output root on every build.
var staticAssets = []string{"gallery.css", "gallery.js", "common.js", "search.js"}

// Engine holds the parsed layout and fragment templates for one site.
type Engine struct {
	tmpl     *template.Template
	siteRoot string
	cssName  string
}

// PageData is everything the layout needs to render one page.
type PageData struct {
	SiteName string
	Author   string
	Footer   string
	Title    string
	Base     string // the page's own output path, for relative link math
	Content  template.HTML
	Crumbs   []content.Crumb
	Nav      *content.NavNode
}

// navCtx pairs a nav node with the rendering page's base path, so the
// recursive nav template can compute relative links.
type navCtx struct {
	Base string
	Node *content.NavNode
}

var funcs = template.FuncMap{
	"rel":    Rel,
	"navctx": func(base string, n *content.NavNode) navCtx { return navCtx{Base: base, Node: n} },
}

// New loads the layout for the site rooted at siteRoot. themeFile and cssName
// name the site-local overrides; when themeFile is absent the embedded layout
// is used.
func New(siteRoot, themeFile, cssName string) (*Engine, error) {
	layout, err := layoutSource(siteRoot, themeFile)
	if err != nil {
		return nil, err
	}

	tmpl := template.New("page").Funcs(funcs)
	if _, err := tmpl.Parse(layout); err != nil {
		return nil, errs.Wrap(err, errs.CategoryConfig, errs.SeverityFatal,
			fmt.Sprintf("theme layout does not parse: %s", themeFile))
	}
	for _, name := range []string{"nav.html", "gallery.html", "bloglist.html", "post.html"} {
		src, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.Parse(string(src)); err != nil {
			return nil, err
		}
	}

	return &Engine{tmpl: tmpl, siteRoot: siteRoot, cssName: cssName}, nil
}

func layoutSource(siteRoot, themeFile string) (string, error) {
	local := filepath.Join(siteRoot, themeFile)
	if data, err := os.ReadFile(local); err == nil {
		return string(data), nil
	} else if !os.IsNotExist(err) {
		return "", errs.Wrap(err, errs.CategoryConfig, errs.SeverityFatal,
			fmt.Sprintf("theme layout not readable: %s", themeFile))
	}
	data, err := assets.ReadFile("assets/theme.html")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// RenderPage writes one laid-out page.
func (e *Engine) RenderPage(w io.Writer, data PageData) error {
	return e.tmpl.ExecuteTemplate(w, "page", data)
}

// GalleryHTML renders the photo grid fragment for a gallery page.
func (e *Engine) GalleryHTML(base string, items any) (template.HTML, error) {
	return e.fragment("gallery", map[string]any{"Base": base, "Items": items})
}

// BlogListHTML renders the post listing fragment for a blog page.
func (e *Engine) BlogListHTML(base string, posts any) (template.HTML, error) {
	return e.fragment("bloglist", map[string]any{"Base": base, "Posts": posts})
}

// PostHTML renders a single post's body with its metadata header.
func (e *Engine) PostHTML(post any) (template.HTML, error) {
	return e.fragment("post", post)
}

func (e *Engine) fragment(name string, data any) (template.HTML, error) {
	var sb strings.Builder
	if err := e.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil
}

// WriteAssets copies the stylesheet and scripts to the output root. The
// stylesheet prefers the site-local override, everything else ships embedded.
func (e *Engine) WriteAssets(outputRoot string) error {
	css, err := os.ReadFile(filepath.Join(e.siteRoot, e.cssName))
	if os.IsNotExist(err) {
		css, err = assets.ReadFile("assets/theme.css")
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputRoot, "theme.css"), css, 0o644); err != nil {
		return err
	}

	for _, name := range staticAssets {
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outputRoot, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// NotFoundHTML returns the embedded not-found page body, used when the site
// does not supply its own 404.md.
func NotFoundHTML() template.HTML {
	data, err := assets.ReadFile("assets/404.html")
	if err != nil {
		return "<h1>Page not found</h1>"
	}
	return template.HTML(data)
}

// Rel rewrites a root-relative target into a link relative to the page at
// base. Both are slash-separated output paths; a target ending in "/" stays
// directory-style.
func Rel(base, target string) string {
	if target == "" {
		return ""
	}
	depth := strings.Count(path.Dir(base), "/")
	if path.Dir(base) != "." {
		depth++
	}
	return strings.Repeat("../", depth) + target
}
