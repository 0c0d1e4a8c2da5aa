package content

import (
	"path"
	"strings"

	"github.com/giovifav/ssg/internal/markdown"
)

// NodeID indexes a node within its Tree's arena. The root is always 0.
type NodeID int

// NoParent marks the root node's parent reference.
const NoParent NodeID = -1

// Node is one content unit. Nodes live in the Tree's arena; parent and child
// relations are arena indexes, never embedded pointers, so the structure
// carries no ownership cycles.
type Node struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID // ordered: index-first handled structurally, then name order

	Kind  Kind
	IsDir bool

	SourceRel string // source path relative to the content root ("" for the root dir)
	OutputRel string // rendered output path relative to the output root ("" when nothing renders)

	Title string
	Doc   *markdown.Document // nil for directories without an index file
	Draft bool
}

// HasPage reports whether the node produces a rendered page of its own.
// Plain directories without an index file are navigation containers only.
func (n *Node) HasPage() bool {
	if n.Kind == KindGallery || n.Kind == KindBlog {
		return true
	}
	return n.Doc != nil || !n.IsDir
}

// Link returns the node's root-relative link target. Directory-style pages
// link to the directory URL (trailing slash), matching the output-path rule.
func (n *Node) Link() string {
	if n.OutputRel == "" {
		return ""
	}
	if base := path.Base(n.OutputRel); base == "index.html" {
		dir := path.Dir(n.OutputRel)
		if dir == "." {
			return ""
		}
		return dir + "/"
	}
	return n.OutputRel
}

// Name returns the node's source base name (directory or file name).
func (n *Node) Name() string {
	if n.SourceRel == "" {
		return ""
	}
	return path.Base(n.SourceRel)
}

// sortKey orders siblings: case-insensitive name, byte-wise tie-break.
// The index page never appears as a sibling (it is its directory's own
// page), so "index sorts first" holds structurally.
func sortKey(name string) (string, string) {
	return strings.ToLower(name), name
}
