package main

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	csvoptimizer "github.com/timmueller0/csv-optimizer"
)

// parquetPath replaces the extension of the input file by .parquet.
func parquetPath(infile string) string {
	e := path.Ext(infile)
	if e == "" {
		return infile + ".parquet"
	}
	return strings.TrimSuffix(infile, e) + ".parquet"
}

func newParquetCommand(a *app) *cobra.Command {
	var outfile string
	cmd := &cobra.Command{
		Use:   "parquet FILE",
		Short: "Convert a file to parquet using the inferred column types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loader(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := l.Load()
			if err != nil {
				return err
			}

			if outfile == "" {
				outfile = parquetPath(args[0])
			}
			f, err := a.fs.Create(outfile)
			if err != nil {
				return errors.Wrapf(err, "creating %s", outfile)
			}
			if err := csvoptimizer.WriteParquet(f, data); err != nil {
				f.Close()
				return errors.Wrapf(err, "writing %s", outfile)
			}
			if err := f.Close(); err != nil {
				return err
			}

			rows := 0
			if len(data) > 0 {
				rows = data[0].Length()
			}
			a.log.WithField("rows", rows).Infof("%s finished", outfile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outfile, "out", "o", "", "parquet file to write (default: FILE with a .parquet extension)")
	return cmd
}
