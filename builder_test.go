package genealogy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFamily(t *testing.T) {
	tree := mustBuild(t, family)

	require.NotNil(t, tree.Root())
	assert.Equal(t, "Alice", tree.Root().Name())
	assert.Equal(t, []string{"Bob", "Carol"}, names(tree.Root().Children()))

	path, err := tree.Query("Alice", "Dave")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Dave"}, names(path))

	_, err = tree.Query("Bob", "Carol")
	assert.True(t, errors.Is(err, ErrNoPath))
}

func TestBuildCountIncludesHeaderLine(t *testing.T) {
	const records = `Alice 2 Bob Carol
Bob 1 Dave
Carol 1 Erin
`
	dataSet := []struct {
		count    int
		expected []string
	}{
		{2, []string{"Alice", "Bob", "Carol"}},
		{3, []string{"Alice", "Bob", "Dave", "Carol"}},
		{4, []string{"Alice", "Bob", "Dave", "Carol", "Erin"}},
	}

	for _, d := range dataSet {
		tree := mustBuild(t, fmt.Sprintf("%d\n%s", d.count, records))

		var visited []string
		tree.Walk(func(n *Node, _ int) bool {
			visited = append(visited, n.Name())
			return true
		})
		assert.Equal(t, d.expected, visited, "count %d", d.count)
	}

	_, err := Build(strings.NewReader("5\n" + records))
	assert.True(t, errors.Is(err, ErrEndOfInput), "%v", err)
}

func TestBuildErrors(t *testing.T) {
	dataSet := []struct {
		input    string
		err      error
		contains string
	}{
		{"", ErrEndOfInput, "record count"},
		{"four\nAlice 0\n", ErrParse, "line 1"},
		{"1\nAlice 0\n", ErrParse, "line 1"},
		{"0\n", ErrParse, "line 1"},
		{"-3\n", ErrParse, "line 1"},
		{"2\n", ErrEndOfInput, "root record"},
		{"2\nAlice\n", ErrEndOfInput, "line 2"},
		{"2\nAlice two Bob Carol\n", ErrParse, "line 2"},
		{"2\nAlice 3 Bob Carol\n", ErrEndOfInput, "line 2"},
		{"3\nAlice 1 Bob\nBob x Dave\n", ErrParse, "line 3"},
		{"3\nAlice 1 Bob\n", ErrEndOfInput, "record 2 of 2"},
	}

	for _, d := range dataSet {
		tree, err := Build(strings.NewReader(d.input))
		assert.Nil(t, tree, d.input)
		require.Error(t, err, d.input)
		assert.True(t, errors.Is(err, d.err), "%q: %v", d.input, err)
		assert.Contains(t, err.Error(), d.contains, d.input)
	}
}

func TestBuildTolerance(t *testing.T) {
	dataSet := []struct {
		name  string
		input string
	}{
		{"blank lines", "\n4\n\nAlice 2 Bob Carol\n\n  \nBob 1 Dave\nCarol 0\n\n"},
		{"crlf", "4\r\nAlice 2 Bob Carol\r\nBob 1 Dave\r\nCarol 0\r\n"},
		{"extra whitespace", " 4 \nAlice\t2  Bob   Carol\nBob 1 Dave\nCarol 0"},
		{"tokens past child count", "4\nAlice 2 Bob Carol Zed\nBob 1 Dave Yan\nCarol 0 Xavier\n"},
		{"lines past record count", family + "Dave 1 Erin\n"},
	}

	for _, d := range dataSet {
		tree, err := Build(strings.NewReader(d.input))
		require.NoError(t, err, d.name)

		path, err := tree.Query("ALICE", "dave")
		require.NoError(t, err, d.name)
		assert.Equal(t, []string{"Alice", "Bob", "Dave"}, names(path), d.name)
		assert.Equal(t, 4, tree.Size(), d.name)
	}
}

func TestBuildEveryChildReachable(t *testing.T) {
	input := `6
A 3 B C D
B 2 E F
D 1 G
F 2 H I
I 1 J
`
	tree := mustBuild(t, input)

	for _, line := range strings.Split(input, "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		for _, child := range fields[2:] {
			assert.NotNil(t, tree.FindNode(child), child)
			assert.NotNil(t, tree.FindNode(strings.ToLower(child)), child)
		}
	}
	assert.Equal(t, 10, tree.Size())
}

func TestBuildDetachedSubject(t *testing.T) {
	logger, hook := test.NewNullLogger()
	tree, err := Build(strings.NewReader("4\nAlice 1 Bob\nZed 1 Yan\nBob 1 Dave\n"), WithLogger(logger))
	require.NoError(t, err)

	path, err := tree.Query("Alice", "Dave")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Dave"}, names(path))

	dataSet := []string{"Zed", "Yan"}
	for _, name := range dataSet {
		assert.Nil(t, tree.FindNode(name), name)
		_, err = tree.Query("Alice", name)
		assert.True(t, errors.Is(err, ErrNameNotFound), "%s: %v", name, err)
	}
	assert.Equal(t, 3, tree.Size())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "Zed", hook.LastEntry().Data["subject"])

	// a seen name found only under a detached subject stays detached too
	tree = mustBuild(t, "4\nAlice 1 Bob\nZed 1 Yan\nYan 1 Xena\n")
	assert.Nil(t, tree.FindNode("Xena"))
	assert.Equal(t, 2, tree.Size())

	// subjects are matched case-sensitively while building
	tree = mustBuild(t, "3\nAlice 1 Bob\nbob 1 Dave\n")
	assert.Nil(t, tree.FindNode("Dave"))
	assert.True(t, tree.FindNode("Bob").IsLeaf())
}

func TestBuildNegativeChildCount(t *testing.T) {
	tree := mustBuild(t, "3\nAlice -1 Bob\nAlice 1 Carol\n")
	assert.Equal(t, []string{"Carol"}, names(tree.Root().Children()))
}

func TestBuildSubjectResolution(t *testing.T) {
	// the root may be a later record's subject as well
	tree := mustBuild(t, "3\nAlice 1 Bob\nAlice 1 Carol\n")
	assert.Equal(t, []string{"Bob", "Carol"}, names(tree.Root().Children()))

	// a repeated child name is not merged, later records resolve to the first
	tree = mustBuild(t, "3\nAlice 2 Bob Bob\nBob 1 Dave\n")
	kids := tree.Root().Children()
	require.Len(t, kids, 2)
	assert.NotSame(t, kids[0], kids[1])
	assert.Equal(t, []string{"Dave"}, names(kids[0].Children()))
	assert.True(t, kids[1].IsLeaf())
}

func TestBuildLongLine(t *testing.T) {
	const children = 12000

	var sb strings.Builder
	sb.WriteString("2\nroot ")
	sb.WriteString(fmt.Sprint(children))
	for i := 0; i < children; i++ {
		fmt.Fprintf(&sb, " child%d", i)
	}
	require.Greater(t, sb.Len(), 64*1024)

	tree := mustBuild(t, sb.String())
	assert.Equal(t, children, tree.Root().Len())
	assert.Equal(t, fmt.Sprintf("child%d", children-1), tree.FindNode(fmt.Sprintf("CHILD%d", children-1)).Name())
}

func TestBuildLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Build(strings.NewReader(family), WithLogger(logger))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)
	for i, e := range entries[:3] {
		assert.Equal(t, "record attached", e.Message)
		assert.Equal(t, i+2, e.Data["line"])
	}
	last := hook.LastEntry()
	assert.Equal(t, "genealogy tree built", last.Message)
	assert.Equal(t, "Alice", last.Data["root"])
	assert.Equal(t, 3, last.Data["records"])
	assert.Equal(t, 4, last.Data["names"])

	// a nil logger keeps the default
	_, err = Build(strings.NewReader(family), WithLogger(nil))
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/family.txt", []byte(family), 0644))
	require.NoError(t, afero.WriteFile(fs, "/data/broken.txt", []byte("4\nAlice x\n"), 0644))
	require.NoError(t, fs.MkdirAll("/data/dir", 0755))

	tree, err := Load(fs, "/data/family.txt")
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Size())

	dataSet := []struct {
		path string
		err  error
	}{
		{"/data/missing.txt", ErrFileNotFound},
		{"/data/dir", ErrFileNotFound},
		{"/data/broken.txt", ErrParse},
	}

	for _, d := range dataSet {
		tree, err := Load(fs, d.path)
		assert.Nil(t, tree, d.path)
		assert.True(t, errors.Is(err, d.err), "%s: %v", d.path, err)
	}
}
