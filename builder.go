package genealogy

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/util/sets"
)

type (
	// record is one input line: a person followed by their children.
	record struct {
		line     int
		subject  string
		children []string
	}

	builder struct {
		log     logrus.FieldLogger
		scanner *bufio.Scanner
		line    int
		// names that already own a node, attached or not
		seen sets.Set[string]
		root *Node
	}
)

// Load opens path on fs and builds a tree from it. The file is closed
// before Load returns. A path that cannot be opened as a regular file
// yields ErrFileNotFound.
func Load(fs afero.Fs, path string, opts ...BuildOption) (*Tree, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrFileNotFound, "%s: %v", path, err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err != nil || fi.IsDir() {
		return nil, errors.Wrapf(ErrFileNotFound, "%s is not a readable file", path)
	}

	return Build(f, opts...)
}

// Build reads the record format from r and returns the resulting tree.
//
// The first line holds a count n that includes the count line itself, so
// n-1 records follow: the root record and n-2 further records. Each record
// is "<name> <k> <child1> ... <childk>". The subject of a later record is
// resolved by exact, case-sensitive name to the node already in the tree;
// a subject not found there becomes a new node that is not attached to the
// root, so neither it nor its children can be queried. Listed children
// always become fresh nodes, so a repeated child name produces a second
// node with that name. A negative child count reads as zero. Blank lines
// are skipped and lines beyond the declared count are ignored.
func Build(r io.Reader, opts ...BuildOption) (*Tree, error) {
	o := buildOptions{log: DiscardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		log:     o.log,
		scanner: bufio.NewScanner(r),
		seen:    sets.New[string](),
	}
	b.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n, err := b.readCount()
	if err != nil {
		return nil, err
	}

	rec, err := b.nextRecord()
	if err != nil {
		return nil, errors.Wrap(err, "reading root record")
	}
	b.root = NewNode(rec.subject)
	b.seen.Insert(rec.subject)
	b.attach(b.root, rec)

	for i := 0; i < n-2; i++ {
		rec, err := b.nextRecord()
		if err != nil {
			return nil, errors.Wrapf(err, "reading record %d of %d", i+2, n-1)
		}

		var parent *Node
		if b.seen.Has(rec.subject) {
			parent = findExact(b.root, rec.subject)
		}
		if parent == nil {
			// not below the root: the subject and its children stay detached
			parent = NewNode(rec.subject)
			b.seen.Insert(rec.subject)
			b.log.WithFields(logrus.Fields{
				"line":    rec.line,
				"subject": rec.subject,
			}).Warn("record subject is not part of the tree")
		}
		b.attach(parent, rec)
	}

	b.log.WithFields(logrus.Fields{
		"records": n - 1,
		"root":    b.root.name,
		"names":   b.seen.Len(),
	}).Debug("genealogy tree built")

	return New(b.root), nil
}

func (b *builder) attach(parent *Node, rec record) {
	for _, name := range rec.children {
		parent.AddChildName(name)
		b.seen.Insert(name)
	}
	b.log.WithFields(logrus.Fields{
		"line":     rec.line,
		"subject":  rec.subject,
		"children": len(rec.children),
	}).Debug("record attached")
}

func (b *builder) readCount() (int, error) {
	text, err := b.nextLine()
	if err != nil {
		return 0, errors.Wrap(err, "reading record count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Wrapf(ErrParse, "line %d: record count %q", b.line, strings.TrimSpace(text))
	}
	if n < 2 {
		return 0, errors.Wrapf(ErrParse, "line %d: record count %d leaves no root record", b.line, n)
	}
	return n, nil
}

func (b *builder) nextRecord() (record, error) {
	text, err := b.nextLine()
	if err != nil {
		return record{}, err
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return record{}, errors.Wrapf(ErrEndOfInput, "line %d: %s has no child count", b.line, fields[0])
	}
	k, err := strconv.Atoi(fields[1])
	if err != nil {
		return record{}, errors.Wrapf(ErrParse, "line %d: child count %q", b.line, fields[1])
	}
	if k < 0 {
		k = 0
	}
	if len(fields)-2 < k {
		return record{}, errors.Wrapf(ErrEndOfInput, "line %d: %s declares %d children, found %d",
			b.line, fields[0], k, len(fields)-2)
	}

	return record{
		line:     b.line,
		subject:  fields[0],
		children: fields[2 : 2+k],
	}, nil
}

// nextLine returns the next non-blank line.
func (b *builder) nextLine() (string, error) {
	for b.scanner.Scan() {
		b.line++
		text := b.scanner.Text()
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	if err := b.scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "line %d", b.line+1)
	}
	return "", errors.Wrapf(ErrEndOfInput, "line %d", b.line+1)
}
