package csvoptimizer

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("%d", i)}
	}
	return rows
}

func TestSampleSize(t *testing.T) {
	assert.Equal(t, 0, sampleSize(0, 0.1))
	assert.Equal(t, 100, sampleSize(1000, 0.1))
	assert.Equal(t, 2, sampleSize(5, 0.5))
	assert.Equal(t, 4, sampleSize(7, 0.5))
	assert.Equal(t, 7, sampleSize(7, 1))
}

func TestSampleRows(t *testing.T) {

	rows := makeRows(1000)

	s1 := sampleRows(rows, 0.1, 1)
	s2 := sampleRows(rows, 0.1, 1)
	require.Len(t, s1, 100)
	assert.Equal(t, s1, s2)

	seen := make(map[string]bool)
	for _, r := range s1 {
		assert.False(t, seen[r[0]], "row %s drawn twice", r[0])
		seen[r[0]] = true
	}

	all := sampleRows(rows, 1, 1)
	require.Len(t, all, 1000)
	assert.ElementsMatch(t, rows, all)

	assert.Empty(t, sampleRows(makeRows(4), 0.1, 1))
}

// sliceReader serves rows from memory in chunks.
type sliceReader struct {
	cols []string
	rows [][]string
}

func (r *sliceReader) Columns() ([]string, error) {
	return r.cols, nil
}

func (r *sliceReader) ReadRecords(n int) ([][]string, error) {
	if len(r.rows) == 0 {
		return nil, io.EOF
	}
	if n < 0 || n > len(r.rows) {
		n = len(r.rows)
	}
	chunk := r.rows[:n]
	r.rows = r.rows[n:]
	return chunk, nil
}

func TestSampleChunks(t *testing.T) {

	sample, nrows, err := sampleChunks(&sliceReader{rows: makeRows(2500)}, 1000, 0.1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2500, nrows)
	assert.Len(t, sample, 25)

	sample, nrows, err = sampleChunks(&sliceReader{rows: makeRows(2500)}, 1000, 0.1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 2500, nrows)
	assert.Len(t, sample, 250)

	a, _, err := sampleChunks(&sliceReader{rows: makeRows(2500)}, 1000, 0.1, 1, false)
	require.NoError(t, err)
	b, _, err := sampleChunks(&sliceReader{rows: makeRows(2500)}, 1000, 0.1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	sample, nrows, err = sampleChunks(&sliceReader{}, 1000, 0.1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 0, nrows)
	assert.Empty(t, sample)
}
