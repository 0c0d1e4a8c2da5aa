package content

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/giovifav/ssg/internal/errs"
	"github.com/giovifav/ssg/internal/markdown"
)

// Tree is the arena-owned content graph for one generation run. It is built
// once, then treated as read-only by every later phase.
type Tree struct {
	nodes  []Node
	byPath map[string]NodeID
}

// Build assembles discovery records and loaded documents into the node tree,
// assigning titles, output paths and sibling order. docs maps the relative
// path of each Markdown entry to its loaded document; entries whose document
// failed to load are simply absent.
func Build(entries []Entry, docs map[string]*markdown.Document, maxDepth int) (*Tree, error) {
	t := &Tree{byPath: map[string]NodeID{}}

	for _, e := range entries {
		if depth(e.RelPath) > maxDepth {
			return nil, errs.Fatal(errs.CategoryDepth,
				fmt.Sprintf("nesting exceeds %d levels at %s (possible filesystem loop)", maxDepth, e.RelPath))
		}

		switch e.Kind {
		case EntryDir, EntryGallery, EntryBlog:
			t.addDir(e, docs)
		case EntryPage:
			t.addPage(e, docs)
		case EntryAsset:
			// Assets are copied through verbatim; they never become nodes.
		}
	}

	if len(t.nodes) == 0 {
		return nil, errs.Fatal(errs.CategoryIO, "content root produced no nodes")
	}
	t.sortChildren()
	return t, nil
}

func (t *Tree) addDir(e Entry, docs map[string]*markdown.Document) {
	kind := KindPage
	switch e.Kind {
	case EntryGallery:
		kind = KindGallery
	case EntryBlog:
		kind = KindBlog
	}

	node := Node{
		ID:        NodeID(len(t.nodes)),
		Parent:    NoParent,
		Kind:      kind,
		IsDir:     true,
		SourceRel: e.RelPath,
	}

	indexRel := IndexFile
	if e.RelPath != "" {
		indexRel = e.RelPath + "/" + IndexFile
	}
	if doc, ok := docs[indexRel]; ok {
		node.Doc = doc
		node.Title = doc.Title
		node.Draft = doc.Meta.Draft
	}

	// Galleries and blogs always render a listing page even without an
	// index file; plain directories render only when one exists.
	if node.Doc != nil || kind != KindPage {
		node.OutputRel = path.Join(e.RelPath, "index.html")
	}
	if node.Title == "" {
		if e.RelPath == "" {
			node.Title = "Home"
		} else {
			node.Title = markdown.TitleFromFilename(path.Base(e.RelPath))
		}
	}

	t.attach(&node, parentPath(e.RelPath), e.RelPath != "")
	t.byPath[e.RelPath] = node.ID
	t.nodes = append(t.nodes, node)
}

func (t *Tree) addPage(e Entry, docs map[string]*markdown.Document) {
	base := path.Base(e.RelPath)
	if base == IndexFile {
		return // the directory node carries its index page
	}
	if e.RelPath == "404.md" {
		return // the not-found page is generated separately at the output root
	}

	node := Node{
		ID:        NodeID(len(t.nodes)),
		Parent:    NoParent,
		Kind:      KindPage,
		SourceRel: e.RelPath,
		OutputRel: strings.TrimSuffix(e.RelPath, ".md") + ".html",
	}
	if doc, ok := docs[e.RelPath]; ok {
		node.Doc = doc
		node.Title = doc.Title
		node.Draft = doc.Meta.Draft
	}
	if node.Title == "" {
		node.Title = markdown.TitleFromFilename(base)
	}

	t.attach(&node, parentPath(e.RelPath), true)
	t.byPath[e.RelPath] = node.ID
	t.nodes = append(t.nodes, node)
}

// attach links a node under its parent directory. The scanner emits parents
// before children, so the parent is always present already.
func (t *Tree) attach(node *Node, parentRel string, hasParent bool) {
	if !hasParent {
		return
	}
	pid, ok := t.byPath[parentRel]
	if !ok {
		return
	}
	node.Parent = pid
	t.nodes[pid].Children = append(t.nodes[pid].Children, node.ID)
}

// sortChildren orders every sibling list case-insensitively by source name,
// falling back to byte-wise comparison when two names differ only by case.
// The index page is the directory's own node, so it is structurally first.
func (t *Tree) sortChildren() {
	for i := range t.nodes {
		children := t.nodes[i].Children
		sort.SliceStable(children, func(a, b int) bool {
			la, ba := sortKey(t.nodes[children[a]].Name())
			lb, bb := sortKey(t.nodes[children[b]].Name())
			if la != lb {
				return la < lb
			}
			return ba < bb
		})
	}
}

// Root returns the content root node.
func (t *Tree) Root() *Node { return &t.nodes[0] }

// Get returns the node with the given id.
func (t *Tree) Get(id NodeID) *Node { return &t.nodes[id] }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Lookup finds a node by its source-relative path.
func (t *Tree) Lookup(rel string) (*Node, bool) {
	id, ok := t.byPath[rel]
	if !ok {
		return nil, false
	}
	return &t.nodes[id], true
}

// Walk visits every node depth-first in sibling order, root first. This is
// the fixed traversal order used for rendering and for the search index, so
// output and report ordering stay deterministic.
func (t *Tree) Walk(fn func(*Node)) {
	var visit func(id NodeID)
	visit = func(id NodeID) {
		fn(&t.nodes[id])
		for _, c := range t.nodes[id].Children {
			visit(c)
		}
	}
	if len(t.nodes) > 0 {
		visit(0)
	}
}

func parentPath(rel string) string {
	p := path.Dir(rel)
	if p == "." {
		return ""
	}
	return p
}

func depth(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
