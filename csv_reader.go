package csvoptimizer

import (
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// A CSVReader reads raw records from delimited text, projected on a
// subset of the columns.
type CSVReader struct {

	// Skip this number of rows before reading the header.
	SkipRows int

	// If true, there is a header to read, otherwise ColumnNames or
	// default column names are used.
	HasHeader bool

	// The column names, in the order that they appear in the
	// file.  Can be set by caller.
	ColumnNames []string

	// If not empty, only these columns are returned.
	UseColumns []string

	// Field delimiter, comma if zero.
	Comma rune

	// Lines starting with this character are skipped, if set.
	Comment rune

	LazyQuotes       bool
	TrimLeadingSpace bool

	// If true, every field must be valid UTF-8.
	ValidateUTF8 bool

	// Has the init method been run yet?
	initRun bool

	// Position of each selected column in the file.
	selected []int

	// Number of fields in the header.
	width int

	// The first data row, read while sizing the file.
	pending []string

	// Current record number in the file, for error messages.
	line int

	csvreader *csv.Reader
}

// NewCSVReader returns a CSVReader that reads delimited data from the
// given io.Reader.
func NewCSVReader(r io.Reader) *CSVReader {

	rdr := new(CSVReader)
	rdr.HasHeader = true

	rdr.csvreader = csv.NewReader(r)
	rdr.csvreader.FieldsPerRecord = -1
	rdr.csvreader.ReuseRecord = false

	return rdr
}

func (rdr *CSVReader) next() ([]string, error) {
	rec, err := rdr.csvreader.Read()
	if err == io.EOF {
		return nil, err
	} else if err != nil {
		return nil, parseError(err, "reading record")
	}
	rdr.line++
	if rdr.ValidateUTF8 {
		for j, f := range rec {
			if !utf8.ValidString(f) {
				return nil, errors.Mark(
					errors.Newf("record %d field %d: invalid utf-8", rdr.line, j+1), ErrRead)
			}
		}
	}
	return rec, nil
}

// uniqueNames renames repeated column names to name.1, name.2, ...
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	used := make(map[string]bool, len(names))
	for _, n := range names {
		used[n] = true
	}
	out := make([]string, len(names))
	for i, n := range names {
		k, dup := seen[n]
		if !dup {
			seen[n] = 1
			out[i] = n
			continue
		}
		cand := fmt.Sprintf("%s.%d", n, k)
		for used[cand] {
			k++
			cand = fmt.Sprintf("%s.%d", n, k)
		}
		used[cand] = true
		seen[n] = k + 1
		out[i] = cand
	}
	return out
}

// init reads the header, or the first record when there is no header.
func (rdr *CSVReader) init() error {

	if rdr.Comma != 0 {
		rdr.csvreader.Comma = rdr.Comma
	}
	rdr.csvreader.Comment = rdr.Comment
	rdr.csvreader.LazyQuotes = rdr.LazyQuotes
	rdr.csvreader.TrimLeadingSpace = rdr.TrimLeadingSpace

	for k := 0; k < rdr.SkipRows; k++ {
		if _, err := rdr.next(); err == io.EOF {
			return parseErrorf("file appears to be empty")
		} else if err != nil {
			return err
		}
	}

	first, err := rdr.next()
	if err == io.EOF {
		return parseErrorf("file appears to be empty")
	} else if err != nil {
		return err
	}

	if rdr.HasHeader {
		rdr.ColumnNames = uniqueNames(first)
	} else {
		rdr.pending = first
		if rdr.ColumnNames == nil {
			// Default names
			rdr.ColumnNames = make([]string, len(first))
			for k := range first {
				rdr.ColumnNames[k] = fmt.Sprintf("Column %d", k+1)
			}
		}
	}
	rdr.width = len(rdr.ColumnNames)

	if len(rdr.UseColumns) == 0 {
		rdr.selected = make([]int, rdr.width)
		for j := range rdr.selected {
			rdr.selected[j] = j
		}
	} else {
		want := make(map[string]bool, len(rdr.UseColumns))
		for _, c := range rdr.UseColumns {
			want[c] = true
		}
		var names []string
		for j, c := range rdr.ColumnNames {
			if want[c] {
				rdr.selected = append(rdr.selected, j)
				names = append(names, c)
				delete(want, c)
			}
		}
		for _, c := range rdr.UseColumns {
			if want[c] {
				return errors.Mark(errors.Newf("column %q not found", c), ErrInvalidOption)
			}
		}
		rdr.ColumnNames = names
	}

	rdr.initRun = true

	return nil
}

// Columns returns the names of the selected columns.  The header is
// read if this has not happened yet.
func (rdr *CSVReader) Columns() ([]string, error) {
	if !rdr.initRun {
		if err := rdr.init(); err != nil {
			return nil, err
		}
	}
	return rdr.ColumnNames, nil
}

// ReadRecords reads up to lines records and returns the selected fields
// of each.  If lines is negative the whole file is read.  Records that
// are shorter than the header are padded with empty (missing) fields.
// At the end of the data ReadRecords returns nil, io.EOF.
func (rdr *CSVReader) ReadRecords(lines int) ([][]string, error) {

	if !rdr.initRun {
		if err := rdr.init(); err != nil {
			return nil, err
		}
	}

	var recs [][]string
	if lines > 0 {
		recs = make([][]string, 0, lines)
	}

	for lines < 0 || len(recs) < lines {

		var line []string
		if rdr.pending != nil {
			line = rdr.pending
			rdr.pending = nil
		} else {
			var err error
			line, err = rdr.next()
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, err
			}
		}

		if len(line) > rdr.width {
			return nil, parseErrorf("record %d: expected %d fields, saw %d",
				rdr.line, rdr.width, len(line))
		}

		rec := make([]string, len(rdr.selected))
		for i, j := range rdr.selected {
			if j < len(line) {
				rec[i] = line[j]
			}
		}
		recs = append(recs, rec)
	}

	if len(recs) == 0 {
		return nil, io.EOF
	}
	return recs, nil
}

// Line returns the number of records consumed from the file so far,
// including skipped rows and the header.
func (rdr *CSVReader) Line() int {
	return rdr.line
}
