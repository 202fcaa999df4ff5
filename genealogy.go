package genealogy

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	traverseStop traverseAction = iota
	traverseContinue
)

const (
	// children slots allocated for a fresh node, doubled whenever full
	initialChildCap = 2

	// longest record line the builder accepts
	maxLineSize = 1 << 20
)

var (
	ErrFileNotFound = errors.New("genealogy: file not found")
	ErrParse        = errors.New("genealogy: malformed integer token")
	ErrEndOfInput   = errors.New("genealogy: unexpected end of input")
	ErrNameNotFound = errors.New("genealogy: name is not part of the tree")
	ErrNoPath       = errors.New("genealogy: no such descendant relationship")
	ErrNoMoreNodes  = errors.New("genealogy: there are no more nodes in the tree")
)

type (
	// Tree is a genealogy rooted at a single person.
	Tree struct {
		root *Node
	}

	// Node is a person and the ordered list of their children.
	// A node keeps no reference to its parent.
	Node struct {
		name     string
		children []*Node
	}

	// WalkFunc is called for every node in pre-order with its depth below
	// the walk root. Returning false stops the walk.
	WalkFunc func(n *Node, depth int) bool

	traverseAction int

	walkFrame struct {
		node  *Node
		depth int
	}

	iterator struct {
		stack []*Node
	}

	// BuildOption configures Build and Load.
	BuildOption func(*buildOptions)

	buildOptions struct {
		log logrus.FieldLogger
	}
)

// NewNode returns a childless node named name.
func NewNode(name string) *Node {
	return &Node{
		name:     name,
		children: make([]*Node, 0, initialChildCap),
	}
}

// WithLogger routes builder diagnostics to log.
func WithLogger(log logrus.FieldLogger) BuildOption {
	return func(o *buildOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// DiscardLogger returns a logger that drops every entry.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
