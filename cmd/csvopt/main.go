// csvopt loads a delimited text file with memory-efficient column
// types inferred from a random sample of its rows.  It can print the
// inferred types, write the data to a parquet file, or split it into
// one file per column.
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	csvoptimizer "github.com/timmueller0/csv-optimizer"
)

// app carries what the subcommands share.
type app struct {
	fs  afero.Fs
	out io.Writer
	log *logrus.Logger
}

// loader builds a Loader for filename from the config file and the
// command line flags.
func (a *app) loader(cmd *cobra.Command, filename string) (*csvoptimizer.Loader, error) {

	l := csvoptimizer.NewLoader(filename)
	l.Fs = a.fs
	l.Logger = a.log

	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		cfg, err := loadConfig(a.fs, path)
		if err != nil {
			return nil, err
		}
		if err := cfg.apply(l); err != nil {
			return nil, err
		}
	}
	if err := applyFlags(flags, l); err != nil {
		return nil, err
	}
	if v, _ := flags.GetBool("verbose"); v {
		a.log.SetLevel(logrus.DebugLevel)
	}
	return l, nil
}

func newRootCommand(fs afero.Fs, out io.Writer) *cobra.Command {

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	a := &app{fs: fs, out: out, log: log}

	root := &cobra.Command{
		Use:           "csvopt",
		Short:         "Load CSV files with memory-efficient column types",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	registerLoaderFlags(root.PersistentFlags())
	root.SetOut(out)

	root.AddCommand(
		newSchemaCommand(a),
		newParquetCommand(a),
		newColumnizeCommand(a),
	)
	return root
}

func main() {
	root := newRootCommand(afero.NewOsFs(), os.Stdout)
	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("csvopt failed")
		os.Exit(1)
	}
}
