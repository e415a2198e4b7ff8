package csvoptimizer

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Categorical holds a low-cardinality string column as integer codes
// into a table of levels.  Missing values have code -1.
type Categorical struct {
	Codes  []int32
	Levels []string
}

// Value returns the string at position i.
func (c *Categorical) Value(i int) string {
	if c.Codes[i] < 0 {
		return ""
	}
	return c.Levels[c.Codes[i]]
}

// A Series is a fixed-type one-dimensional sequence of data
// values, with an optional mask for missing values.
type Series struct {

	// A name describing what is in this series.
	Name string

	// The length of the series.
	length int

	// The data, must be a slice of primitives, e.g. []float64, or a
	// *Categorical.
	data interface{}

	// The storage type of the data.
	dtype Dtype

	// Indicators that data values are missing.  If nil, there are
	// no missing values.
	missing []bool
}

// dtypeOf returns the length and the dtype of a data slice, held in an
// interface value.  If the interface does not hold a slice of a known
// type, an error is returned.
func dtypeOf(data interface{}) (int, Dtype, error) {

	switch x := data.(type) {
	case []bool:
		return len(x), Dtype{Kind: Bool}, nil
	case []int8:
		return len(x), Dtype{Kind: Int8}, nil
	case []int16:
		return len(x), Dtype{Kind: Int16}, nil
	case []int32:
		return len(x), Dtype{Kind: Int32}, nil
	case []int64:
		return len(x), Dtype{Kind: Int64}, nil
	case []float32:
		return len(x), Dtype{Kind: Float32}, nil
	case []float64:
		return len(x), Dtype{Kind: Float64}, nil
	case []string:
		return len(x), Dtype{Kind: String}, nil
	case *Categorical:
		return len(x.Codes), Dtype{Kind: Category}, nil
	case []time.Time:
		return len(x), Dtype{Kind: DateTime}, nil
	default:
		return 0, Dtype{}, errors.Newf("unknown data type %T", data)
	}
}

// NewSeries returns a new Series value with the given name and data
// contents.  The data slice parameter is not copied.  Bool and integer
// series with a missing mask are nullable.
func NewSeries(name string, data interface{}, missing []bool) (*Series, error) {

	length, dtype, err := dtypeOf(data)
	if err != nil {
		return nil, err
	}
	if missing != nil && len(missing) != length {
		return nil, errors.Newf("missing mask has length %d, data has length %d", len(missing), length)
	}
	if missing != nil && (dtype.Kind == Bool || dtype.Kind.IsInteger()) {
		dtype.Nullable = true
	}

	ser := Series{
		Name:    name,
		length:  length,
		data:    data,
		dtype:   dtype,
		missing: missing,
	}

	return &ser, nil
}

// newSeriesDtype is NewSeries with the nullability taken from d.
func newSeriesDtype(name string, data interface{}, missing []bool, d Dtype) (*Series, error) {
	ser, err := NewSeries(name, data, missing)
	if err != nil {
		return nil, err
	}
	ser.dtype.Nullable = d.Nullable
	return ser, nil
}

func (ser *Series) isMissing(j int) bool {
	return ser.missing != nil && ser.missing[j]
}

// formatValue returns the text form of element j.
func (ser *Series) formatValue(j int) string {
	switch x := ser.data.(type) {
	case []bool:
		return fmt.Sprintf("%t", x[j])
	case []int8:
		return fmt.Sprintf("%d", x[j])
	case []int16:
		return fmt.Sprintf("%d", x[j])
	case []int32:
		return fmt.Sprintf("%d", x[j])
	case []int64:
		return fmt.Sprintf("%d", x[j])
	case []float32:
		return fmt.Sprintf("%v", x[j])
	case []float64:
		return fmt.Sprintf("%v", x[j])
	case []string:
		return x[j]
	case *Categorical:
		return x.Value(j)
	case []time.Time:
		return x[j].UTC().Format("2006-01-02 15:04:05")
	}
	panic(fmt.Sprintf("unknown type %T in Series", ser.data))
}

// Write writes the entire Series to the given writer.
func (ser *Series) Write(w io.Writer) error {
	return ser.WriteRange(w, 0, ser.length)
}

// WriteRange writes the given subinterval of the Series to the given writer.
func (ser *Series) WriteRange(w io.Writer, first, last int) error {

	if _, err := fmt.Fprintf(w, "Name: %s\n", ser.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Type: %s\n", ser.dtype); err != nil {
		return err
	}

	for j := first; j < last; j++ {
		var err error
		if ser.isMissing(j) {
			_, err = fmt.Fprintf(w, "%d:\n", j)
		} else {
			_, err = fmt.Fprintf(w, "%d:  %s\n", j, ser.formatValue(j))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Print prints the entire Series to the standard output.
func (ser *Series) Print() error {
	return ser.Write(os.Stdout)
}

// Data returns the data component of the Series.
func (ser *Series) Data() interface{} {
	return ser.data
}

// Dtype returns the storage type of the Series.
func (ser *Series) Dtype() Dtype {
	return ser.dtype
}

// Missing returns the array of missing value indicators.
func (ser *Series) Missing() []bool {
	return ser.missing
}

// Length returns the number of elements in a Series.
func (ser *Series) Length() int {
	return ser.length
}

// CountMissing returns the number of missing values in the Series.
func (ser *Series) CountMissing() int {

	m := 0
	for i := 0; i < ser.length; i++ {
		if ser.isMissing(i) {
			m++
		}
	}

	return m
}

// MemoryUsage returns the number of bytes held by the data and the
// missing mask.  Strings count their headers and contents.
func (ser *Series) MemoryUsage() int64 {

	var n int64
	if ser.missing != nil {
		n += int64(len(ser.missing))
	}

	switch x := ser.data.(type) {
	case []bool:
		n += int64(len(x))
	case []int8:
		n += int64(len(x))
	case []int16:
		n += 2 * int64(len(x))
	case []int32:
		n += 4 * int64(len(x))
	case []int64:
		n += 8 * int64(len(x))
	case []float32:
		n += 4 * int64(len(x))
	case []float64:
		n += 8 * int64(len(x))
	case []string:
		n += stringsSize(x)
	case *Categorical:
		n += 4*int64(len(x.Codes)) + stringsSize(x.Levels)
	case []time.Time:
		n += int64(unsafe.Sizeof(time.Time{})) * int64(len(x))
	}
	return n
}

func stringsSize(x []string) int64 {
	n := int64(unsafe.Sizeof("")) * int64(len(x))
	for _, s := range x {
		n += int64(len(s))
	}
	return n
}

// Float64 returns element i widened to float64, and false when that is
// not possible for the data type.
func (ser *Series) Float64(i int) (float64, bool) {
	switch x := ser.data.(type) {
	case []bool:
		if x[i] {
			return 1, true
		}
		return 0, true
	case []int8:
		return float64(x[i]), true
	case []int16:
		return float64(x[i]), true
	case []int32:
		return float64(x[i]), true
	case []int64:
		return float64(x[i]), true
	case []float32:
		return float64(x[i]), true
	case []float64:
		return x[i], true
	}
	return 0, false
}

// AllClose returns true, 0 if the Series is within tol of the other
// series.  If the Series have different lengths, AllClose returns
// false, -1.  If the Series have different types, AllClose returns
// false, -2.  If the Series have the same type and the same length
// but are not equal, AllClose returns false, j, where j is the index
// of the first position where the two series differ.
func (ser *Series) AllClose(other *Series, tol float64) (bool, int) {

	if ser.length != other.length {
		return false, -1
	}

	if ser.dtype.Kind != other.dtype.Kind {
		return false, -2
	}

	for j := 0; j < ser.length; j++ {

		m1, m2 := ser.isMissing(j), other.isMissing(j)
		if m1 != m2 {
			return false, j
		}
		if m1 {
			continue
		}

		if u, ok := ser.Float64(j); ok {
			v, _ := other.Float64(j)
			if math.Abs(u-v) > tol {
				return false, j
			}
			continue
		}

		switch u := ser.data.(type) {
		case []time.Time:
			if !u[j].Equal(other.data.([]time.Time)[j]) {
				return false, j
			}
		default:
			if ser.formatValue(j) != other.formatValue(j) {
				return false, j
			}
		}
	}
	return true, 0
}

// AllEqual is equivalent to AllClose with tol=0.
func (ser *Series) AllEqual(other *Series) (bool, int) {
	return ser.AllClose(other, 0.0)
}

// UpcastNumeric returns a float64 Series holding the values of a
// numeric or bool Series.  Non-numeric data is returned unchanged.
func (ser *Series) UpcastNumeric() *Series {

	switch ser.data.(type) {
	case []float64, []string, *Categorical, []time.Time:
		return ser
	}

	var cmiss []bool
	if ser.missing != nil {
		cmiss = make([]bool, ser.length)
		copy(cmiss, ser.missing)
	}

	a := make([]float64, ser.length)
	for i := range a {
		if ser.isMissing(i) {
			a[i] = math.NaN()
			continue
		}
		a[i], _ = ser.Float64(i)
	}
	s, _ := NewSeries(ser.Name, a, cmiss)
	return s
}

// ToString returns a Series with string values, derived
// from the given series.
func (ser *Series) ToString() *Series {

	if _, ok := ser.data.([]string); ok {
		return ser
	}

	n := ser.length
	var cmiss []bool
	if ser.missing != nil {
		cmiss = make([]bool, n)
		copy(cmiss, ser.missing)
	}

	x := make([]string, n)
	for i := 0; i < n; i++ {
		if !ser.isMissing(i) {
			x[i] = ser.formatValue(i)
		}
	}
	s, _ := NewSeries(ser.Name, x, cmiss)
	return s
}

// WriteBinary writes the values in their native width, little endian.
// Bools are written as one byte, missing floats as NaN and dates as
// Unix milliseconds.  String and categorical data are written as
// newline terminated text.
func (ser *Series) WriteBinary(w io.Writer) error {

	switch x := ser.data.(type) {
	case []bool, []int8, []int16, []int32, []int64:
		return binary.Write(w, binary.LittleEndian, x)
	case []float32:
		y := make([]float32, len(x))
		for i, v := range x {
			if ser.isMissing(i) {
				v = float32(math.NaN())
			}
			y[i] = v
		}
		return binary.Write(w, binary.LittleEndian, y)
	case []float64:
		y := make([]float64, len(x))
		for i, v := range x {
			if ser.isMissing(i) {
				v = math.NaN()
			}
			y[i] = v
		}
		return binary.Write(w, binary.LittleEndian, y)
	case []time.Time:
		y := make([]int64, len(x))
		for i, v := range x {
			y[i] = v.UnixMilli()
		}
		return binary.Write(w, binary.LittleEndian, y)
	}

	for i := 0; i < ser.length; i++ {
		var s string
		if !ser.isMissing(i) {
			s = ser.formatValue(i)
		}
		if _, err := io.WriteString(w, s+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// AsFloat64Slice returns the data of the series as a float64 slice,
// and a boolean slice for the missing value indicators.
func (ser *Series) AsFloat64Slice() ([]float64, []bool, error) {

	v, ok := ser.data.([]float64)
	if !ok {
		return nil, nil, errors.Newf("can't convert %T to []float64", ser.data)
	}

	return v, ser.missing, nil
}

// AsStringSlice returns the series data as slices for the values,
// and the missing data indicators.
func (ser *Series) AsStringSlice() ([]string, []bool, error) {

	v, ok := ser.data.([]string)
	if !ok {
		return nil, nil, errors.Newf("can't convert %T to []string", ser.data)
	}

	return v, ser.missing, nil
}

// SeriesArray is an array of pointers to Series objects.  It can represent
// a dataset consisting of several variables.
type SeriesArray []*Series

// AllClose returns (true, 0, 0) if all numeric values in
// corresponding columns of the two arrays of Series objects are
// within the given tolerance.  If any corresponding columns are not
// identically equal, returns (false, j, i), where j is the index of a
// column and i is the index of a row where the two Series are not
// identical.  If the two SeriesArray objects have different numbers
// of columns, returns (false, -1, -1).  If column j of the two
// SeriesArray objects have different lengths, returns (false, j, -1).
// If column j of the two SeriesArray objects have different types,
// returns (false, j, -2)
func (sa SeriesArray) AllClose(other []*Series, tol float64) (bool, int, int) {

	if len(sa) != len(other) {
		return false, -1, -1
	}

	for j := 0; j < len(sa); j++ {
		f, i := sa[j].AllClose(other[j], tol)
		if !f {
			return false, j, i
		}
	}

	return true, 0, 0
}

// AllEqual is equivalent to AllClose with tol = 0.
func (sa SeriesArray) AllEqual(other []*Series) (bool, int, int) {
	return sa.AllClose(other, 0.0)
}

// Names returns the names of the series.
func (sa SeriesArray) Names() []string {
	names := make([]string, len(sa))
	for j, s := range sa {
		names[j] = s.Name
	}
	return names
}

// Get returns the series with the given name, or nil.
func (sa SeriesArray) Get(name string) *Series {
	for _, s := range sa {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// MemoryUsage is the sum of the memory usage of the series.
func (sa SeriesArray) MemoryUsage() int64 {
	var n int64
	for _, s := range sa {
		n += s.MemoryUsage()
	}
	return n
}

// Schema returns the dtypes of the series as a Schema.
func (sa SeriesArray) Schema() Schema {
	s := Schema{
		Columns: sa.Names(),
		Types:   make(map[string]Dtype, len(sa)),
	}
	for _, ser := range sa {
		s.Types[ser.Name] = ser.dtype
	}
	return s
}
