// Package console runs the interactive ancestor/descendant query against a
// genealogy file.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/e11jah/genealogy"
)

const (
	pathSeparator = " -> "
	pathEnd       = "End"

	promptFile       = "File name: "
	promptAncestor   = "Ancestor Name: "
	promptDescendant = "Descendant Name: "
)

// Options pre-fills answers. An empty field is asked for on In.
type Options struct {
	File       string
	Ancestor   string
	Descendant string
}

// Session is a single query run. Every user-facing outcome, including a
// missing file or unknown names, is written to Out and ends the run with a
// nil error; only malformed input is returned as an error.
type Session struct {
	Fs  afero.Fs
	In  io.Reader
	Out io.Writer
	Log logrus.FieldLogger

	Options
}

func (s *Session) Run(ctx context.Context) error {
	log := s.Log
	if log == nil {
		log = genealogy.DiscardLogger()
	}
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	in := bufio.NewReader(s.In)

	file, err := s.ask(ctx, in, promptFile, s.File)
	if err != nil {
		return err
	}

	tree, err := genealogy.Load(fs, file, genealogy.WithLogger(log))
	if errors.Is(err, genealogy.ErrFileNotFound) {
		log.WithError(err).Debug("input file unavailable")
		fmt.Fprintf(s.Out, "'%s' not found.\n", file)
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "loading %s", file)
	}

	ancestorName, err := s.ask(ctx, in, promptAncestor, s.Ancestor)
	if err != nil {
		return err
	}
	descendantName, err := s.ask(ctx, in, promptDescendant, s.Descendant)
	if err != nil {
		return err
	}

	path, err := tree.Query(ancestorName, descendantName)
	switch {
	case errors.Is(err, genealogy.ErrNameNotFound):
		fmt.Fprintf(s.Out, "%s and/or %s is not part of the genealogy tree.\n", ancestorName, descendantName)
		return nil
	case errors.Is(err, genealogy.ErrNoPath):
		fmt.Fprintf(s.Out, "%s doesn't have a descendant named %s.\n", ancestorName, descendantName)
		return nil
	case err != nil:
		return err
	}

	log.WithFields(logrus.Fields{
		"ancestor":   ancestorName,
		"descendant": descendantName,
		"length":     len(path),
	}).Debug("path found")
	fmt.Fprintln(s.Out, FormatPath(path))
	return nil
}

// ask prints prompt and reads one line, unless preset already holds the
// answer.
func (s *Session) ask(ctx context.Context, in *bufio.Reader, prompt, preset string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if preset != "" {
		return preset, nil
	}

	fmt.Fprint(s.Out, prompt)
	line, err := in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		if err == io.EOF {
			err = genealogy.ErrEndOfInput
		}
		return "", errors.Wrapf(err, "reading %q", strings.TrimSpace(prompt))
	}
	return strings.TrimSpace(line), nil
}

// FormatPath renders path as "A -> B -> C -> End".
func FormatPath(path []*genealogy.Node) string {
	var sb strings.Builder
	for _, n := range path {
		sb.WriteString(n.Name())
		sb.WriteString(pathSeparator)
	}
	sb.WriteString(pathEnd)
	return sb.String()
}

// Render writes the tree one person per line, indented two spaces per
// generation.
func Render(w io.Writer, tree *genealogy.Tree) error {
	var err error
	tree.Walk(func(n *genealogy.Node, depth int) bool {
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.Name())
		return err == nil
	})
	return err
}
