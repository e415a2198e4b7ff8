package csvoptimizer

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildColumn feeds raw values through the builder for d.
func buildColumn(d Dtype, ok bool, raw ...string) (*Series, error) {
	na := newNASet(nil)
	b := newColumnBuilder("x", d, ok, na)
	for i, v := range raw {
		if err := b.add(v, na.missing(v), i+1); err != nil {
			return nil, err
		}
	}
	return b.build("x")
}

func TestDefaultDtype(t *testing.T) {

	cases := []struct {
		raw  []string
		miss []bool
		want Kind
	}{
		{[]string{"1", "2"}, []bool{false, false}, Int64},
		{[]string{"1", ""}, []bool{false, true}, Float64},
		{[]string{"1", "2.5"}, []bool{false, false}, Float64},
		{[]string{"true", "False"}, []bool{false, false}, Bool},
		{[]string{"true", ""}, []bool{false, true}, String},
		{[]string{"a", "1"}, []bool{false, false}, String},
		{[]string{"", ""}, []bool{true, true}, Float64},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, defaultDtype(c.raw, c.miss).Kind, "%v", c.raw)
	}
}

func TestCategoryBuilder(t *testing.T) {

	s, err := buildColumn(Dtype{Kind: Category}, true, "b", "a", "", "b", "c")
	require.NoError(t, err)

	cat := s.Data().(*Categorical)
	assert.Equal(t, []string{"b", "a", "c"}, cat.Levels)
	assert.Equal(t, []int32{0, 1, -1, 0, 2}, cat.Codes)
	assert.Equal(t, "c", cat.Value(4))
	assert.Equal(t, 1, s.CountMissing())
}

func TestIntBuilder(t *testing.T) {

	s, err := buildColumn(Dtype{Kind: Int16}, true, "-32768", "3.0", "32767")
	require.NoError(t, err)
	assert.Equal(t, []int16{-32768, 3, 32767}, s.Data())
	assert.Nil(t, s.Missing())

	_, err = buildColumn(Dtype{Kind: Int16}, true, "32768")
	assert.True(t, errors.Is(err, ErrParse))

	_, err = buildColumn(Dtype{Kind: Int32}, true, "2.5")
	assert.True(t, errors.Is(err, ErrParse))

	s, err = buildColumn(Dtype{Kind: Int32, Nullable: true}, true, "", "7")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, s.Missing())
	assert.True(t, s.Dtype().Nullable)
}

func TestBoolBuilder(t *testing.T) {

	s, err := buildColumn(Dtype{Kind: Bool}, true, "1", "0", "1.0", "True")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, true}, s.Data())

	_, err = buildColumn(Dtype{Kind: Bool}, true, "1", "")
	assert.True(t, errors.Is(err, ErrParse))

	s, err = buildColumn(Dtype{Kind: Bool, Nullable: true}, true, "1", "")
	require.NoError(t, err)
	assert.Equal(t, Dtype{Kind: Bool, Nullable: true}, s.Dtype())
	assert.Equal(t, 1, s.CountMissing())
}

func TestFloatBuilders(t *testing.T) {

	s, err := buildColumn(Dtype{Kind: Float32}, true, "1.5", "NA")
	require.NoError(t, err)
	x := s.Data().([]float32)
	assert.Equal(t, float32(1.5), x[0])
	assert.True(t, math.IsNaN(float64(x[1])))

	s, err = buildColumn(Dtype{Kind: Float64}, true, "1e300")
	require.NoError(t, err)
	assert.Equal(t, []float64{1e300}, s.Data())

	_, err = buildColumn(Dtype{Kind: Float32}, true, "1.5", "1e300")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Contains(t, err.Error(), "row 2")

	s, err = buildColumn(Dtype{Kind: Float32}, true, "inf", "-3.4e38")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(s.Data().([]float32)[0]), 1))

	_, err = buildColumn(Dtype{Kind: Float64}, true, "abc")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestDefaultBuilder(t *testing.T) {

	s, err := buildColumn(Dtype{}, false, "1", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, s.Data())

	s, err = buildColumn(Dtype{}, false, "a", "null", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, s.Data())
	assert.Equal(t, []bool{false, true, false}, s.Missing())
}
