package csvoptimizer

import (
	"math"
	"strconv"
	"strings"
)

// sampleKind is the shape of a sampled column's non-missing values.
type sampleKind int

const (
	// Nothing but missing values were sampled.
	sampleEmpty sampleKind = iota

	// Every value parses as an integer and nothing is missing.
	sampleInteger

	// Every value parses as a number, or the values are integral
	// with some missing.
	sampleFloat

	// Every value is a true/false literal.  The literals are kept as
	// text, since a column of them with missing values is treated as
	// text.
	sampleBoolLiteral

	sampleText
)

// sampledColumn is one column of the sample, split by kind.  Only the
// slice matching kind is populated.
type sampledColumn struct {
	kind       sampleKind
	hasMissing bool
	ints       []int64
	floats     []float64
	text       []string
}

// naSet is a set of field values treated as missing.
type naSet map[string]bool

// DefaultNAValues are the field values treated as missing when the
// loader is not given its own list.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

func newNASet(values []string) naSet {
	if values == nil {
		values = DefaultNAValues
	}
	s := make(naSet, len(values)+1)
	for _, v := range values {
		s[v] = true
	}
	// Padding of short rows produces empty fields.
	s[""] = true
	return s
}

func (s naSet) missing(v string) bool {
	return s[v]
}

func parseInt(s string) (int64, bool) {
	x, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return x, err == nil
}

func parseFloat(s string) (float64, bool) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return x, err == nil
}

func parseBoolLiteral(s string) (bool, bool) {
	switch strings.TrimSpace(s) {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

// sampleColumn drops the missing values of column j of the sample and
// decides the kind of what remains.
func sampleColumn(rows [][]string, j int, na naSet) sampledColumn {

	var col sampledColumn
	vals := make([]string, 0, len(rows))
	for _, row := range rows {
		if na.missing(row[j]) {
			col.hasMissing = true
			continue
		}
		vals = append(vals, row[j])
	}
	if len(vals) == 0 {
		col.kind = sampleEmpty
		return col
	}

	allInt, allFloat, allBool := true, true, true
	for _, v := range vals {
		if allInt {
			if _, ok := parseInt(v); !ok {
				allInt = false
			}
		}
		if allFloat {
			if _, ok := parseFloat(v); !ok {
				allFloat = false
			}
		}
		if allBool {
			if _, ok := parseBoolLiteral(v); !ok {
				allBool = false
			}
		}
	}

	switch {
	case allInt && !col.hasMissing:
		col.kind = sampleInteger
		col.ints = make([]int64, len(vals))
		for i, v := range vals {
			col.ints[i], _ = parseInt(v)
		}
	case allFloat:
		// Integers with missing values sample as floats, since
		// an integer column has no room for a missing marker.
		col.kind = sampleFloat
		col.floats = make([]float64, len(vals))
		for i, v := range vals {
			col.floats[i], _ = parseFloat(v)
		}
	case allBool:
		col.kind = sampleBoolLiteral
		col.text = vals
	default:
		col.kind = sampleText
		col.text = vals
	}
	return col
}

// Policy controls how columns with missing values are represented.
type Policy struct {
	UseFloatForNanInts  bool
	UseFloatForNanBools bool
}

// boolDtype is the decision for a column whose values are all 0 or 1.
func (p Policy) boolDtype(hasMissing bool) Dtype {
	switch {
	case !hasMissing:
		return Dtype{Kind: Bool}
	case p.UseFloatForNanBools:
		return Dtype{Kind: Float32}
	default:
		return Dtype{Kind: Bool, Nullable: true}
	}
}

// classify returns the type decision for a sampled column.  The second
// return value is false when the reader's default should apply.
func (p Policy) classify(col sampledColumn) (Dtype, bool) {

	switch col.kind {

	case sampleEmpty:
		return Dtype{}, false

	case sampleBoolLiteral, sampleText:
		if col.kind == sampleBoolLiteral && !col.hasMissing {
			// The reader loads these as bool by itself.
			return Dtype{}, false
		}
		if layout, ok := detectDateLayout(col.text); ok {
			return Dtype{Kind: DateTime, Layout: layout}, true
		}
		distinct := make(map[string]struct{}, len(col.text))
		for _, v := range col.text {
			distinct[v] = struct{}{}
		}
		if float64(len(distinct))/float64(len(col.text)) < 0.5 {
			return Dtype{Kind: Category}, true
		}
		return Dtype{}, false

	case sampleFloat:
		integral := true
		lo, hi, amax := math.Inf(1), math.Inf(-1), 0.0
		for _, x := range col.floats {
			if math.Mod(x, 1) != 0 {
				integral = false
			}
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
			amax = math.Max(amax, math.Abs(x))
		}
		if !integral {
			if amax < math.MaxFloat32 {
				return Dtype{Kind: Float32}, true
			}
			return Dtype{Kind: Float64}, true
		}
		if isBinary(col.floats) {
			return p.boolDtype(col.hasMissing), true
		}
		kind, ok := narrowestIntFloat(lo, hi)
		if !ok {
			// Beyond the int64 range; keep the values as doubles.
			return Dtype{Kind: Float64}, true
		}
		if col.hasMissing {
			if p.UseFloatForNanInts {
				return Dtype{Kind: Float32}, true
			}
			return Dtype{Kind: kind, Nullable: true}, true
		}
		return Dtype{Kind: kind}, true

	case sampleInteger:
		lo, hi := col.ints[0], col.ints[0]
		binary := true
		for _, x := range col.ints {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
			if x != 0 && x != 1 {
				binary = false
			}
		}
		if binary {
			return p.boolDtype(false), true
		}
		return Dtype{Kind: narrowestInt(lo, hi)}, true
	}

	return Dtype{}, false
}

// isBinary reports whether every value is 0 or 1.
func isBinary(x []float64) bool {
	for _, v := range x {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

// inferSchema classifies every column of a sample.
func inferSchema(columns []string, sample [][]string, na naSet, p Policy) Schema {
	s := Schema{
		Columns: columns,
		Types:   make(map[string]Dtype),
	}
	for j, c := range columns {
		if d, ok := p.classify(sampleColumn(sample, j, na)); ok {
			s.Types[c] = d
		}
	}
	return s
}
