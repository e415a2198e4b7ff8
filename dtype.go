package csvoptimizer

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind is the storage kind of a loaded column.
type Kind int

const (
	Bool Kind = iota + 1
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	String
	Category
	DateTime
)

var kindNames = map[Kind]string{
	Bool:     "bool",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Float32:  "float32",
	Float64:  "float64",
	String:   "string",
	Category: "category",
	DateTime: "datetime",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsInteger reports whether k is one of the signed integer kinds.
func (k Kind) IsInteger() bool {
	return k >= Int8 && k <= Int64
}

// intRange holds the representable range of a signed integer width.
type intRange struct {
	kind     Kind
	bits     int
	min, max int64
}

// intWidths is ordered from narrowest to widest; width searches rely on it.
var intWidths = []intRange{
	{Int8, 8, math.MinInt8, math.MaxInt8},
	{Int16, 16, math.MinInt16, math.MaxInt16},
	{Int32, 32, math.MinInt32, math.MaxInt32},
	{Int64, 64, math.MinInt64, math.MaxInt64},
}

// narrowestInt returns the narrowest integer kind covering [lo, hi].
func narrowestInt(lo, hi int64) Kind {
	for _, w := range intWidths {
		if w.min <= lo && hi <= w.max {
			return w.kind
		}
	}
	return Int64
}

// narrowestIntFloat is narrowestInt for integral float64 values.  The
// second return value is false when no width covers the range.
func narrowestIntFloat(lo, hi float64) (Kind, bool) {
	// float64(math.MaxInt64) rounds up to 2^63, hence the strict bound.
	const two63 = 9223372036854775808.0
	if lo < -two63 || hi >= two63 {
		return 0, false
	}
	return narrowestInt(int64(lo), int64(hi)), true
}

// intBounds returns the range of an integer kind.
func intBounds(k Kind) (int64, int64) {
	for _, w := range intWidths {
		if w.kind == k {
			return w.min, w.max
		}
	}
	return math.MinInt64, math.MaxInt64
}

// A Dtype is the type decision for one column.
type Dtype struct {
	Kind Kind

	// Nullable is meaningful for Bool and the integer kinds; the
	// remaining kinds always carry a missing mask.
	Nullable bool

	// Layout is the strftime layout used to parse DateTime columns.
	Layout string
}

// String returns the pandas-style name of the dtype, e.g. "Int16" for
// a nullable 16 bit integer or "boolean" for a nullable bool.
func (d Dtype) String() string {
	switch {
	case d.Kind == Bool && d.Nullable:
		return "boolean"
	case d.Kind.IsInteger() && d.Nullable:
		s := d.Kind.String()
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return d.Kind.String()
}

// ParseDtype parses a pandas-style dtype name.  Names are case
// sensitive for the integers, where "Int8".."Int64" denote nullable
// integers.
func ParseDtype(name string) (Dtype, error) {
	switch name {
	case "boolean":
		return Dtype{Kind: Bool, Nullable: true}, nil
	case "Int8", "Int16", "Int32", "Int64":
		d, err := ParseDtype(strings.ToLower(name))
		d.Nullable = true
		return d, err
	case "datetime", "datetime64", "datetime64[ns]", "date":
		return Dtype{Kind: DateTime}, nil
	case "str", "object":
		return Dtype{Kind: String}, nil
	case "float":
		return Dtype{Kind: Float64}, nil
	case "int":
		return Dtype{Kind: Int64}, nil
	}
	for k, s := range kindNames {
		if s == name {
			return Dtype{Kind: k}, nil
		}
	}
	return Dtype{}, errors.Mark(errors.Newf("unknown dtype %q", name), ErrInvalidOption)
}

// Schema is the column type decision mapping produced by inference.
// Columns absent from Types keep the reader's default inference.
type Schema struct {
	Columns []string
	Types   map[string]Dtype
}

// Lookup returns the decision for a column, if any.
func (s Schema) Lookup(col string) (Dtype, bool) {
	d, ok := s.Types[col]
	return d, ok
}

// DateColumns returns the columns marked for date parsing, in file order.
func (s Schema) DateColumns() []string {
	var cols []string
	for _, c := range s.Columns {
		if d, ok := s.Types[c]; ok && d.Kind == DateTime {
			cols = append(cols, c)
		}
	}
	return cols
}

// Equal reports whether two schemas hold the same decisions.
func (s Schema) Equal(other Schema) bool {
	if len(s.Columns) != len(other.Columns) || len(s.Types) != len(other.Types) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != other.Columns[i] {
			return false
		}
	}
	for c, d := range s.Types {
		if od, ok := other.Types[c]; !ok || od != d {
			return false
		}
	}
	return true
}
