package main

// columnize saves the data from each column into a separate file.
// Character data is stored in raw format, with values separated by
// newline characters.  Numeric data can be stored either in text or
// binary format; binary columns keep their inferred width.  A text
// file containing the column names and types is also generated.

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	csvoptimizer "github.com/timmueller0/csv-optimizer"
)

func writeColumns(fs afero.Fs, data csvoptimizer.SeriesArray, dir, mode string) error {

	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	cf, err := fs.Create(filepath.Join(dir, "columns.txt"))
	if err != nil {
		return errors.Wrapf(err, "unable to create file in %s", dir)
	}
	defer cf.Close()
	for j, ser := range data {
		if _, err := fmt.Fprintf(cf, "%d,%s,%s\n", j+1, ser.Name, ser.Dtype()); err != nil {
			return err
		}
	}

	for j, ser := range data {
		f, err := fs.Create(filepath.Join(dir, fmt.Sprintf("%d", j+1)))
		if err != nil {
			return errors.Wrapf(err, "unable to create file for column %d", j+1)
		}
		if mode == "binary" {
			err = ser.WriteBinary(f)
		} else {
			err = ser.ToString().WriteBinary(f)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "writing column %d", j+1)
		}
	}
	return nil
}

func newColumnizeCommand(a *app) *cobra.Command {
	var dir, mode string
	cmd := &cobra.Command{
		Use:   "columnize FILE",
		Short: "Write every column of a file into its own file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "text" && mode != "binary" {
				return errors.New("mode must be either 'text' or 'binary'")
			}
			if dir == "" {
				return errors.New("'out' is a required argument")
			}
			l, err := a.loader(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := l.Load()
			if err != nil {
				return err
			}
			return writeColumns(a.fs, data, dir, mode)
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "directory for writing the columns")
	cmd.Flags().StringVar(&mode, "mode", "text", "write numeric data as 'text' or 'binary'")
	return cmd
}
