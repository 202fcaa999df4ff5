package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/e11jah/genealogy"
	"github.com/e11jah/genealogy/internal/console"
)

var (
	// fs is swapped for an in-memory filesystem in tests.
	fs afero.Fs = afero.NewOsFs()

	log = logrus.New()
)

type options struct {
	console.Options
	logLevel string
}

func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "genealogy",
		Short: "Find the line of descent between two people",
		Long: `Load a genealogy file and print the line of descent from an ancestor
to one of their descendants.

Anything not given as a flag is prompted for:
  File name, Ancestor Name, Descendant Name

Input format:
  <n>                         count of lines, this one included
  <root> <k> <c1> ... <ck>    root record
  <name> <k> <c1> ... <ck>    one record per further line

Examples:
  genealogy
  genealogy --file family.txt --ancestor Alice --descendant Dave
  genealogy show family.txt`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(o.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &console.Session{
				Fs:      fs,
				In:      cmd.InOrStdin(),
				Out:     cmd.OutOrStdout(),
				Log:     log,
				Options: o.Options,
			}
			return s.Run(cmd.Context())
		},
	}

	root.Flags().StringVarP(&o.File, "file", "f", "", "genealogy file to load")
	root.Flags().StringVarP(&o.Ancestor, "ancestor", "a", "", "name of the ancestor")
	root.Flags().StringVarP(&o.Descendant, "descendant", "d", "", "name of the descendant")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newShowCmd())
	return root
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE",
		Short: "Print the genealogy tree, one generation per indent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := genealogy.Load(fs, args[0], genealogy.WithLogger(log))
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"people": tree.Size(),
				"depth":  tree.Depth(),
			}).Info("loaded genealogy")
			return console.Render(cmd.OutOrStdout(), tree)
		},
	}
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid --log-level %q", level)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: !isatty.IsTerminal(os.Stderr.Fd()),
	})
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
