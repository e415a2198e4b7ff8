package csvoptimizer

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// A Loader reads a delimited text file into a SeriesArray, choosing for
// each column the narrowest storage type that holds the values seen in
// a random sample of the rows.
type Loader struct {

	// Path of the file to read.
	Filename string

	// Fraction of the rows of every chunk drawn into the sample, and
	// of the concatenated chunk samples drawn again.  Must be in (0, 1].
	SampleFraction float64

	// Number of rows per chunk while sampling.
	ChunkSize int

	// Store integer columns with missing values as float32 instead of
	// nullable integers.
	UseFloatForNanInts bool

	// Store {0,1} columns with missing values as float32 instead of
	// nullable bools.
	UseFloatForNanBools bool

	// Text encoding of the file, e.g. "latin1" or "utf-8".
	Encoding string

	// Sample the chunks only once.  By default the concatenated chunk
	// samples are sampled again, so roughly SampleFraction squared of
	// the rows are inspected.
	SingleStageSampling bool

	// Seed of the sampling generator.
	Seed int64

	// Options passed to the CSVReader.
	Delimiter        rune
	Comment          rune
	HasHeader        bool
	SkipRows         int
	ColumnNames      []string
	UseColumns       []string
	LazyQuotes       bool
	TrimLeadingSpace bool

	// Field values treated as missing.  If nil, DefaultNAValues is used.
	NAValues []string

	// User-specified data types.  Columns named here are not inferred.
	TypeHints map[string]Dtype

	Fs     afero.Fs
	Logger logrus.FieldLogger
}

// NewLoader returns a Loader for the named file with the default
// options.
func NewLoader(filename string) *Loader {
	return &Loader{
		Filename:       filename,
		SampleFraction: 0.1,
		ChunkSize:      1000,
		Encoding:       "latin1",
		Seed:           1,
		HasHeader:      true,
		Fs:             afero.NewOsFs(),
		Logger:         logrus.StandardLogger(),
	}
}

// LoadOptimized reads filename with the default options.
func LoadOptimized(filename string) (SeriesArray, error) {
	return NewLoader(filename).Load()
}

func (l *Loader) validate() error {
	if !(l.SampleFraction > 0 && l.SampleFraction <= 1) {
		return errors.Mark(errors.Newf("sample fraction %v is not in (0, 1]", l.SampleFraction), ErrInvalidOption)
	}
	if l.ChunkSize <= 0 {
		return errors.Mark(errors.Newf("chunk size %d is not positive", l.ChunkSize), ErrInvalidOption)
	}
	if l.SkipRows < 0 {
		return errors.Mark(errors.Newf("skip rows %d is negative", l.SkipRows), ErrInvalidOption)
	}
	if _, err := lookupEncoding(l.Encoding); err != nil {
		return err
	}
	return nil
}

func (l *Loader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

func (l *Loader) logger() logrus.FieldLogger {
	if l.Logger == nil {
		return logrus.StandardLogger()
	}
	return l.Logger
}

// open returns a reader positioned at the start of the file, and the
// file to close once reading is done.
func (l *Loader) open() (*CSVReader, io.Closer, error) {

	f, err := l.fs().Open(l.Filename)
	if err != nil {
		return nil, nil, readError(err, "opening %s", l.Filename)
	}

	r, err := decodingReader(f, l.Encoding)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	rdr := NewCSVReader(r)
	rdr.SkipRows = l.SkipRows
	rdr.HasHeader = l.HasHeader
	if l.ColumnNames != nil {
		rdr.ColumnNames = append([]string(nil), l.ColumnNames...)
	}
	rdr.UseColumns = l.UseColumns
	rdr.Comma = l.Delimiter
	rdr.Comment = l.Comment
	rdr.LazyQuotes = l.LazyQuotes
	rdr.TrimLeadingSpace = l.TrimLeadingSpace
	rdr.ValidateUTF8 = validatesUTF8(l.Encoding)

	return rdr, f, nil
}

// InferSchema samples the file and returns the type decision for each
// column.  Columns that get no decision are absent from the result.
func (l *Loader) InferSchema() (Schema, error) {

	if err := l.validate(); err != nil {
		return Schema{}, err
	}

	rdr, f, err := l.open()
	if err != nil {
		return Schema{}, err
	}
	defer f.Close()

	columns, err := rdr.Columns()
	if err != nil {
		return Schema{}, err
	}

	sample, nrows, err := sampleChunks(rdr, l.ChunkSize, l.SampleFraction, l.Seed, l.SingleStageSampling)
	if err != nil {
		return Schema{}, err
	}

	policy := Policy{
		UseFloatForNanInts:  l.UseFloatForNanInts,
		UseFloatForNanBools: l.UseFloatForNanBools,
	}
	schema := inferSchema(columns, sample, newNASet(l.NAValues), policy)

	for c, d := range l.TypeHints {
		schema.Types[c] = d
	}

	log := l.logger().WithFields(logrus.Fields{
		"file":   l.Filename,
		"rows":   nrows,
		"sample": len(sample),
	})
	for _, c := range columns {
		if d, ok := schema.Lookup(c); ok {
			log.WithField("column", c).Debugf("inferred %s", d)
		} else {
			log.WithField("column", c).Debug("no decision, reader default applies")
		}
	}

	return schema, nil
}

// Load infers a schema from a sample, then reads the whole file with it.
func (l *Loader) Load() (SeriesArray, error) {
	schema, err := l.InferSchema()
	if err != nil {
		return nil, err
	}
	return l.LoadWithSchema(schema)
}

// LoadWithSchema reads the whole file, giving every column the type
// recorded in schema.  Columns without a decision get the type the
// reader infers from all of their values.
func (l *Loader) LoadWithSchema(schema Schema) (SeriesArray, error) {

	if err := l.validate(); err != nil {
		return nil, err
	}

	rdr, f, err := l.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	columns, err := rdr.Columns()
	if err != nil {
		return nil, err
	}

	na := newNASet(l.NAValues)
	builders := make([]columnBuilder, len(columns))
	for j, c := range columns {
		d, ok := schema.Lookup(c)
		builders[j] = newColumnBuilder(c, d, ok, na)
	}

	row := 0
	for {
		chunk, err := rdr.ReadRecords(l.ChunkSize)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		for _, rec := range chunk {
			row++
			for j, v := range rec {
				if err := builders[j].add(v, na.missing(v), row); err != nil {
					return nil, err
				}
			}
		}
	}

	data := make(SeriesArray, len(columns))
	for j, c := range columns {
		if data[j], err = builders[j].build(c); err != nil {
			return nil, err
		}
	}

	l.logger().WithFields(logrus.Fields{
		"file":    l.Filename,
		"rows":    row,
		"columns": len(columns),
		"bytes":   data.MemoryUsage(),
	}).Debug("loaded")

	return data, nil
}
