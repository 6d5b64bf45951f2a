package forms

// Node is an element on screen with its parent chain
type Node struct {
	ID     string
	Parent *Node
}

// Child creates a node under n
func (n *Node) Child(id string) *Node {
	return &Node{ID: id, Parent: n}
}

// NodeFromPath builds the chain for a click target given its ids from the
// target up to the document root, as the browser shell reports them
func NodeFromPath(path []string) *Node {
	var node *Node
	for i := len(path) - 1; i >= 0; i-- {
		node = &Node{ID: path[i], Parent: node}
	}
	return node
}

// Region is the bounding element of a modal form
type Region struct {
	rootID string
}

// NewRegion creates a region rooted at the element with id
func NewRegion(id string) *Region {
	return &Region{rootID: id}
}

// ID returns the root element id
func (r *Region) ID() string { return r.rootID }

// Contains reports whether target is the region root or one of its descendants
func (r *Region) Contains(target *Node) bool {
	for n := target; n != nil; n = n.Parent {
		if n.ID == r.rootID {
			return true
		}
	}
	return false
}
