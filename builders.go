package csvoptimizer

import (
	"math"
	"time"
)

// A columnBuilder accumulates the values of one column during the
// final read.
type columnBuilder interface {
	// add appends a raw field; row is the 1-based data row.
	add(raw string, missing bool, row int) error
	build(name string) (*Series, error)
}

func newColumnBuilder(name string, d Dtype, ok bool, na naSet) columnBuilder {
	if !ok {
		return &defaultBuilder{name: name, na: na}
	}
	switch d.Kind {
	case Bool:
		return &boolBuilder{name: name, nullable: d.Nullable}
	case Int8:
		return &intBuilder[int8]{name: name, dtype: d}
	case Int16:
		return &intBuilder[int16]{name: name, dtype: d}
	case Int32:
		return &intBuilder[int32]{name: name, dtype: d}
	case Int64:
		return &intBuilder[int64]{name: name, dtype: d}
	case Float32:
		return &float32Builder{name: name}
	case Float64:
		return &float64Builder{name: name}
	case Category:
		return &categoryBuilder{name: name, index: make(map[string]int32)}
	case DateTime:
		return &timeBuilder{name: name, layout: d.Layout}
	default:
		return &stringBuilder{}
	}
}

// maskOrNil drops a missing mask with no missing values.
func maskOrNil(miss []bool, hasMiss bool) []bool {
	if !hasMiss {
		return nil
	}
	return miss
}

type boolBuilder struct {
	name     string
	nullable bool
	data     []bool
	miss     []bool
	hasMiss  bool
}

func (b *boolBuilder) add(raw string, missing bool, row int) error {
	if missing {
		if !b.nullable {
			return parseErrorf("row %d column %q: missing value in bool column", row, b.name)
		}
		b.data = append(b.data, false)
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	var v bool
	if x, ok := parseFloat(raw); ok && (x == 0 || x == 1) {
		v = x == 1
	} else if lit, ok := parseBoolLiteral(raw); ok {
		v = lit
	} else {
		return parseErrorf("row %d column %q: %q is not a bool", row, b.name, raw)
	}
	b.data = append(b.data, v)
	b.miss = append(b.miss, false)
	return nil
}

func (b *boolBuilder) build(name string) (*Series, error) {
	return newSeriesDtype(name, b.data, maskOrNil(b.miss, b.hasMiss), Dtype{Kind: Bool, Nullable: b.nullable})
}

type intBuilder[T int8 | int16 | int32 | int64] struct {
	name    string
	dtype   Dtype
	data    []T
	miss    []bool
	hasMiss bool
}

func (b *intBuilder[T]) add(raw string, missing bool, row int) error {
	if missing {
		if !b.dtype.Nullable {
			return parseErrorf("row %d column %q: missing value in %s column", row, b.name, b.dtype)
		}
		b.data = append(b.data, 0)
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	x, ok := parseInt(raw)
	if !ok {
		// Integral floats such as "3.0" are accepted.
		f, fok := parseFloat(raw)
		if !fok || math.Mod(f, 1) != 0 || f < math.MinInt64 || f >= math.MaxInt64 {
			return parseErrorf("row %d column %q: %q is not an integer", row, b.name, raw)
		}
		x = int64(f)
	}
	lo, hi := intBounds(b.dtype.Kind)
	if x < lo || x > hi {
		return parseErrorf("row %d column %q: %d overflows %s", row, b.name, x, b.dtype)
	}
	b.data = append(b.data, T(x))
	b.miss = append(b.miss, false)
	return nil
}

func (b *intBuilder[T]) build(name string) (*Series, error) {
	return newSeriesDtype(name, b.data, maskOrNil(b.miss, b.hasMiss), b.dtype)
}

type float32Builder struct {
	name    string
	data    []float32
	miss    []bool
	hasMiss bool
}

func (b *float32Builder) add(raw string, missing bool, row int) error {
	if missing {
		b.data = append(b.data, float32(math.NaN()))
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	x, ok := parseFloat(raw)
	if !ok {
		return parseErrorf("row %d column %q: %q is not a number", row, b.name, raw)
	}
	if math.Abs(x) > math.MaxFloat32 && !math.IsInf(x, 0) {
		return parseErrorf("row %d column %q: %q overflows float32", row, b.name, raw)
	}
	b.data = append(b.data, float32(x))
	b.miss = append(b.miss, false)
	return nil
}

func (b *float32Builder) build(name string) (*Series, error) {
	return NewSeries(name, b.data, maskOrNil(b.miss, b.hasMiss))
}

type float64Builder struct {
	name    string
	data    []float64
	miss    []bool
	hasMiss bool
}

func (b *float64Builder) add(raw string, missing bool, row int) error {
	if missing {
		b.data = append(b.data, math.NaN())
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	x, ok := parseFloat(raw)
	if !ok {
		return parseErrorf("row %d column %q: %q is not a number", row, b.name, raw)
	}
	b.data = append(b.data, x)
	b.miss = append(b.miss, false)
	return nil
}

func (b *float64Builder) build(name string) (*Series, error) {
	return NewSeries(name, b.data, maskOrNil(b.miss, b.hasMiss))
}

type stringBuilder struct {
	data    []string
	miss    []bool
	hasMiss bool
}

func (b *stringBuilder) add(raw string, missing bool, row int) error {
	if missing {
		raw = ""
		b.hasMiss = true
	}
	b.data = append(b.data, raw)
	b.miss = append(b.miss, missing)
	return nil
}

func (b *stringBuilder) build(name string) (*Series, error) {
	return NewSeries(name, b.data, maskOrNil(b.miss, b.hasMiss))
}

type categoryBuilder struct {
	name    string
	cat     Categorical
	index   map[string]int32
	miss    []bool
	hasMiss bool
}

func (b *categoryBuilder) add(raw string, missing bool, row int) error {
	if missing {
		b.cat.Codes = append(b.cat.Codes, -1)
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	code, ok := b.index[raw]
	if !ok {
		code = int32(len(b.cat.Levels))
		b.index[raw] = code
		b.cat.Levels = append(b.cat.Levels, raw)
	}
	b.cat.Codes = append(b.cat.Codes, code)
	b.miss = append(b.miss, false)
	return nil
}

func (b *categoryBuilder) build(name string) (*Series, error) {
	cat := b.cat
	return NewSeries(name, &cat, maskOrNil(b.miss, b.hasMiss))
}

type timeBuilder struct {
	name    string
	layout  string
	data    []time.Time
	miss    []bool
	hasMiss bool
}

func (b *timeBuilder) add(raw string, missing bool, row int) error {
	if missing {
		b.data = append(b.data, time.Time{})
		b.miss = append(b.miss, true)
		b.hasMiss = true
		return nil
	}
	if b.layout == "" {
		// Columns given as datetime by the caller carry no layout.
		layout, ok := detectDateLayout([]string{raw})
		if !ok {
			return parseErrorf("row %d column %q: %q is not a date", row, b.name, raw)
		}
		b.layout = layout
	}
	t, err := parseDate(raw, b.layout)
	if err != nil {
		return parseError(err, "row %d column %q", row, b.name)
	}
	b.data = append(b.data, t)
	b.miss = append(b.miss, false)
	return nil
}

func (b *timeBuilder) build(name string) (*Series, error) {
	return NewSeries(name, b.data, maskOrNil(b.miss, b.hasMiss))
}

// defaultBuilder holds the raw values of a column without a decision,
// and infers a type from all of them once the read is done.
type defaultBuilder struct {
	name string
	na   naSet
	raw  []string
	miss []bool
}

func (b *defaultBuilder) add(raw string, missing bool, row int) error {
	b.raw = append(b.raw, raw)
	b.miss = append(b.miss, missing)
	return nil
}

// defaultDtype is the type the reader gives a column by itself: int64
// when every value is an integer and none is missing, float64 when
// every value is a number, bool when every value is a true/false
// literal and none is missing, and string otherwise.
func defaultDtype(raw []string, miss []bool) Dtype {
	allInt, allFloat, allBool, anyMiss, anyVal := true, true, true, false, false
	for i, v := range raw {
		if miss[i] {
			anyMiss = true
			continue
		}
		anyVal = true
		if allInt {
			_, allInt = parseInt(v)
		}
		if allFloat {
			_, allFloat = parseFloat(v)
		}
		if allBool {
			_, allBool = parseBoolLiteral(v)
		}
	}
	switch {
	case !anyVal:
		// Entirely missing columns load as doubles.
		return Dtype{Kind: Float64}
	case allInt && !anyMiss:
		return Dtype{Kind: Int64}
	case allFloat:
		return Dtype{Kind: Float64}
	case allBool && !anyMiss:
		return Dtype{Kind: Bool}
	}
	return Dtype{Kind: String}
}

func (b *defaultBuilder) build(name string) (*Series, error) {
	d := defaultDtype(b.raw, b.miss)
	inner := newColumnBuilder(b.name, d, true, b.na)
	for i, v := range b.raw {
		if err := inner.add(v, b.miss[i], i+1); err != nil {
			return nil, err
		}
	}
	return inner.build(name)
}
