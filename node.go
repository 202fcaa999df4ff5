package genealogy

func (n *Node) Name() string {
	return n.name
}

func (n *Node) String() string {
	return n.name
}

// Children returns the node's children in insertion order. The returned
// slice is shared with the node and must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Len() int {
	return len(n.children)
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// AddChild appends child to n. Nothing checks that child is unique or
// not already attached elsewhere. A nil child is ignored.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if len(n.children) == cap(n.children) {
		n.grow()
	}
	n.children = append(n.children, child)
}

// AddChildName creates a node named name, appends it and returns it.
func (n *Node) AddChildName(name string) *Node {
	child := NewNode(name)
	n.AddChild(child)
	return child
}

func (n *Node) AddChildren(children ...*Node) {
	for _, c := range children {
		n.AddChild(c)
	}
}

func (n *Node) grow() {
	newCap := cap(n.children) * 2
	if newCap < initialChildCap {
		newCap = initialChildCap
	}
	grown := make([]*Node, len(n.children), newCap)
	copy(grown, n.children)
	n.children = grown
}
