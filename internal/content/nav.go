package content

// NavNode is the navigation-facing projection of a content node: what the
// sidebar needs and nothing else. Every content node projects to exactly one
// NavNode, so the nav tree is isomorphic to the content tree.
type NavNode struct {
	Title    string
	Link     string // root-relative target; "" for containers without a page
	Target   string // root-relative output file, for relative href math
	Children []*NavNode
	Open     bool // UI hint: node lies on the path to the active page
	Active   bool // UI hint: node is the active page itself
}

// BuildNav projects the tree into a NavNode tree, marking the chain to
// active as open. Pass NoParent-rooted nodes only; active may be nil for
// pages outside the tree (such as the generated not-found page).
func (t *Tree) BuildNav(active *Node) *NavNode {
	onActivePath := map[NodeID]bool{}
	if active != nil {
		for n := active; ; {
			onActivePath[n.ID] = true
			if n.Parent == NoParent {
				break
			}
			n = &t.nodes[n.Parent]
		}
	}

	var project func(id NodeID) *NavNode
	project = func(id NodeID) *NavNode {
		n := &t.nodes[id]
		nav := &NavNode{
			Title:  n.Title,
			Link:   n.Link(),
			Target: n.OutputRel,
			Open:   onActivePath[id],
			Active: active != nil && active.ID == id,
		}
		for _, c := range n.Children {
			nav.Children = append(nav.Children, project(c))
		}
		return nav
	}
	return project(0)
}
