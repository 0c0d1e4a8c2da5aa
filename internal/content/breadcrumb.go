package content

// Crumb is one breadcrumb entry. Link is root-relative; the current page's
// crumb carries an empty Link so templates render it non-clickable.
type Crumb struct {
	Title string
	Link  string
}

// Breadcrumbs returns the chain from the tree root to node inclusive.
// The root entry is always present, even for the homepage itself (where the
// chain is the single, non-clickable root crumb). A node at depth d yields
// exactly d+1 crumbs.
func (t *Tree) Breadcrumbs(node *Node) []Crumb {
	var chain []*Node
	for n := node; ; {
		chain = append(chain, n)
		if n.Parent == NoParent {
			break
		}
		n = &t.nodes[n.Parent]
	}

	crumbs := make([]Crumb, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		crumb := Crumb{Title: n.Title}
		if i > 0 && n.HasPage() {
			// Ancestors link when they have a page; the last entry (the
			// current node) never links.
			crumb.Link = n.Link()
			if crumb.Link == "" && n.OutputRel != "" {
				crumb.Link = n.OutputRel
			}
			if n.Parent == NoParent {
				crumb.Link = "index.html"
			}
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}
