package genealogy

// Iterator yields the nodes of a tree in depth-first pre-order.
type Iterator interface {
	HasNext() bool
	Next() (*Node, error)
}

// New wraps root into a Tree. A nil root gives an empty tree.
func New(root *Node) *Tree {
	return &Tree{root: root}
}
