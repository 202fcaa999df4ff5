package genealogy

import (
	"strings"

	"github.com/pkg/errors"
)

func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Size returns the number of nodes reachable from the root.
func (t *Tree) Size() int {
	size := 0
	t.Walk(func(*Node, int) bool {
		size++
		return true
	})
	return size
}

// Depth returns the number of nodes on the longest root-to-leaf path.
// A tree holding only its root has depth 1, an empty tree 0.
func (t *Tree) Depth() int {
	depth := 0
	t.Walk(func(_ *Node, d int) bool {
		if d+1 > depth {
			depth = d + 1
		}
		return true
	})
	return depth
}

// FindNode looks target up from the root, ignoring case.
func (t *Tree) FindNode(target string) *Node {
	return FindNode(t.Root(), target)
}

// FindNode returns the first node under root, in pre-order, whose name
// equals target ignoring case, or nil.
func FindNode(root *Node, target string) *Node {
	return findNodeFunc(root, func(name string) bool {
		return strings.EqualFold(name, target)
	})
}

// findExact is the case-sensitive lookup used while building.
func findExact(root *Node, target string) *Node {
	return findNodeFunc(root, func(name string) bool {
		return name == target
	})
}

func findNodeFunc(root *Node, match func(name string) bool) *Node {
	var found *Node
	action := walk(root, func(n *Node, _ int) bool {
		if match(n.name) {
			found = n
			return false
		}
		return true
	})
	if action == traverseStop {
		return found
	}
	return nil
}

// FindPath returns the nodes from ancestor down to descendant, both
// included, following child links only. The path is empty when ancestor
// has no children or descendant is not below it. The descendant is matched
// by name, ignoring case, so with duplicate names the first subtree in
// child order containing the name wins.
func (t *Tree) FindPath(ancestor, descendant *Node) []*Node {
	path := make([]*Node, 0, t.Depth())
	if ancestor == nil || descendant == nil || ancestor.IsLeaf() {
		return path
	}
	if FindNode(ancestor, descendant.name) == nil {
		return path
	}

	path = append(path, ancestor)
	for cur := ancestor; !strings.EqualFold(cur.name, descendant.name); {
		for _, child := range cur.children {
			if FindNode(child, descendant.name) != nil {
				cur = child
				break
			}
		}
		path = append(path, cur)
	}
	return path
}

// Query resolves both names and returns the path between them. It fails
// with ErrNameNotFound when either name is unknown and with ErrNoPath when
// the second person does not descend from the first.
func (t *Tree) Query(ancestorName, descendantName string) ([]*Node, error) {
	ancestor := t.FindNode(ancestorName)
	descendant := t.FindNode(descendantName)
	if ancestor == nil || descendant == nil {
		return nil, errors.Wrapf(ErrNameNotFound, "%s and/or %s", ancestorName, descendantName)
	}

	path := t.FindPath(ancestor, descendant)
	if len(path) == 0 {
		return nil, errors.Wrapf(ErrNoPath, "%s to %s", ancestorName, descendantName)
	}
	return path, nil
}

// Walk visits every node in pre-order until fn returns false.
func (t *Tree) Walk(fn WalkFunc) {
	walk(t.Root(), fn)
}

// walk keeps its own stack so arbitrarily deep lines of descent do not
// exhaust the goroutine stack.
func walk(root *Node, fn WalkFunc) traverseAction {
	if root == nil {
		return traverseContinue
	}

	stack := []walkFrame{{root, 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(top.node, top.depth) {
			return traverseStop
		}
		for i := len(top.node.children) - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{top.node.children[i], top.depth + 1})
		}
	}
	return traverseContinue
}

func (t *Tree) Iterator() Iterator {
	it := &iterator{}
	if root := t.Root(); root != nil {
		it.stack = []*Node{root}
	}
	return it
}

func (it *iterator) HasNext() bool {
	return it != nil && len(it.stack) > 0
}

func (it *iterator) Next() (*Node, error) {
	if !it.HasNext() {
		return nil, ErrNoMoreNodes
	}
	cur := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	for i := len(cur.children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, cur.children[i])
	}
	return cur, nil
}
