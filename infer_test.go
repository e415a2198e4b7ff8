package csvoptimizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// column returns the values as the rows of a one-column sample.
func column(values ...string) [][]string {
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return rows
}

func classifyValues(p Policy, values ...string) (Dtype, bool) {
	return p.classify(sampleColumn(column(values...), 0, newNASet(nil)))
}

func TestSampleColumnKinds(t *testing.T) {

	na := newNASet(nil)

	cases := []struct {
		values []string
		kind   sampleKind
	}{
		{[]string{"1", "2", "3"}, sampleInteger},
		{[]string{"1", "", "3"}, sampleFloat},
		{[]string{"1", "NaN", "3"}, sampleFloat},
		{[]string{"1.5", "2"}, sampleFloat},
		{[]string{"True", "false"}, sampleBoolLiteral},
		{[]string{"a", "1"}, sampleText},
		{[]string{"", "NA", "null"}, sampleEmpty},
		{nil, sampleEmpty},
	}

	for _, c := range cases {
		col := sampleColumn(column(c.values...), 0, na)
		assert.Equal(t, c.kind, col.kind, "%v", c.values)
	}

	col := sampleColumn(column("4", "", "-2"), 0, na)
	assert.True(t, col.hasMissing)
	assert.Equal(t, []float64{4, -2}, col.floats)
}

func TestClassifyBool(t *testing.T) {

	d, ok := classifyValues(Policy{}, "1", "0", "1", "1", "0")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Bool}, d)

	d, ok = classifyValues(Policy{}, "1", "1")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Bool}, d)

	// Integral floats count as integers.
	d, ok = classifyValues(Policy{}, "1.0", "0.0")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Bool}, d)

	d, ok = classifyValues(Policy{}, "1", "", "0")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Bool, Nullable: true}, d)

	d, ok = classifyValues(Policy{UseFloatForNanBools: true}, "1", "", "0")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float32}, d)

	// Without missing values the float policy does not apply.
	d, ok = classifyValues(Policy{UseFloatForNanBools: true}, "1", "0")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Bool}, d)
}

func TestClassifyIntegers(t *testing.T) {

	cases := []struct {
		values []string
		want   Dtype
	}{
		{[]string{"10", "200", "3000"}, Dtype{Kind: Int16}},
		{[]string{"-128", "127"}, Dtype{Kind: Int8}},
		{[]string{"2", "127"}, Dtype{Kind: Int8}},
		{[]string{"0", "128"}, Dtype{Kind: Int16}},
		{[]string{"0", "40000"}, Dtype{Kind: Int32}},
		{[]string{"-1", "3000000000"}, Dtype{Kind: Int64}},
		{[]string{"2.0", "5.0"}, Dtype{Kind: Int8}},
		{[]string{"10", "200", "3000", ""}, Dtype{Kind: Int16, Nullable: true}},
		{[]string{"10", "NaN", "5"}, Dtype{Kind: Int8, Nullable: true}},
		{[]string{"1e19", "2"}, Dtype{Kind: Float64}},
	}

	for _, c := range cases {
		d, ok := classifyValues(Policy{}, c.values...)
		require.True(t, ok, "%v", c.values)
		assert.Equal(t, c.want, d, "%v", c.values)
	}

	d, ok := classifyValues(Policy{UseFloatForNanInts: true}, "10", "200", "3000", "")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float32}, d)
}

func TestClassifyFloats(t *testing.T) {

	d, ok := classifyValues(Policy{}, "1.5", "2.25", "-3")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float32}, d)

	d, ok = classifyValues(Policy{}, "1.5", "", "2")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float32}, d)

	d, ok = classifyValues(Policy{}, "1.5", "1e39")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float64}, d)

	d, ok = classifyValues(Policy{}, "1.5", "-1e300")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Float64}, d)
}

func TestClassifyText(t *testing.T) {

	d, ok := classifyValues(Policy{}, "2020-01-01", "2021-06-30", "", "2019-12-31")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: DateTime, Layout: "%Y-%m-%d"}, d)

	d, ok = classifyValues(Policy{}, "a", "b", "a", "a", "b", "a")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Category}, d)

	// A ratio of exactly one half is not below the threshold.
	_, ok = classifyValues(Policy{}, "a", "b", "a", "b")
	assert.False(t, ok)

	// A value that is not a date exempts the column.
	_, ok = classifyValues(Policy{}, "2020-01-01", "apple")
	assert.False(t, ok)

	d, ok = classifyValues(Policy{}, "2020-01-01", "apple", "2020-01-01", "2020-01-01", "2020-01-01")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Category}, d)

	distinct := make([]string, 1000)
	for i := range distinct {
		distinct[i] = fmt.Sprintf("text %d", i)
	}
	_, ok = classifyValues(Policy{}, distinct...)
	assert.False(t, ok)
}

func TestClassifyTextNotDate(t *testing.T) {

	d, ok := classifyValues(Policy{}, "red", "blue", "red", "red")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Category}, d)

	// Mostly dates, but not every value is one.
	d, ok = classifyValues(Policy{}, "2020-01-01", "2020-01-01", "2020-01-01", "later", "2020-01-01", "2020-01-01")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Category}, d)
}

func TestClassifyBoolLiteralsWithMissing(t *testing.T) {

	col := sampleColumn(column("True", "", "False", "True", "False", "True"), 0, newNASet(nil))
	assert.Equal(t, sampleBoolLiteral, col.kind)
	assert.True(t, col.hasMissing)

	d, ok := classifyValues(Policy{}, "True", "", "False", "True", "False", "True")
	require.True(t, ok)
	assert.Equal(t, Dtype{Kind: Category}, d)

	// Complete literal columns are left to the reader.
	_, ok = classifyValues(Policy{}, "True", "False", "True", "False", "True")
	assert.False(t, ok)
}

func TestClassifyNoDecision(t *testing.T) {

	_, ok := classifyValues(Policy{}, "", "NA", "")
	assert.False(t, ok)

	_, ok = classifyValues(Policy{})
	assert.False(t, ok)

	_, ok = classifyValues(Policy{}, "True", "False", "True")
	assert.False(t, ok)
}

func TestInferSchema(t *testing.T) {

	sample := [][]string{
		{"1", "a", "", "1.5"},
		{"0", "a", "", "2"},
		{"1", "a", "", "3"},
	}
	s := inferSchema([]string{"flag", "word", "empty", "x"}, sample, newNASet(nil), Policy{})

	assert.Equal(t, []string{"flag", "word", "empty", "x"}, s.Columns)
	assert.Equal(t, map[string]Dtype{
		"flag": {Kind: Bool},
		"word": {Kind: Category},
		"x":    {Kind: Float32},
	}, s.Types)
}

func TestNASet(t *testing.T) {

	na := newNASet(nil)
	for _, v := range []string{"", "NA", "NaN", "null", "#N/A"} {
		assert.True(t, na.missing(v), v)
	}
	assert.False(t, na.missing("0"))
	assert.False(t, na.missing("none"))

	na = newNASet([]string{"-999"})
	assert.True(t, na.missing("-999"))
	assert.True(t, na.missing(""))
	assert.False(t, na.missing("NA"))
}
