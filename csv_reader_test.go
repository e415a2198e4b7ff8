package csvoptimizer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV1(t *testing.T) {

	file, err := os.Open(filepath.Join("test_files", "data", "testcsv1.csv"))
	require.NoError(t, err)
	defer file.Close()

	rdr := NewCSVReader(file)
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Var1", "Var2", "Var3"}, rdr.ColumnNames)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}}, data)

	_, err = rdr.ReadRecords(-1)
	assert.Equal(t, io.EOF, err)
}

func TestCSV2(t *testing.T) {

	file, err := os.Open(filepath.Join("test_files", "data", "testcsv2.csv"))
	require.NoError(t, err)
	defer file.Close()

	rdr := NewCSVReader(file)
	rdr.HasHeader = false
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)

	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, rdr.ColumnNames)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}, {"4", "5", "6"}, {"7", "8", "9"}}, data)
}

func TestCSV3(t *testing.T) {

	file, err := os.Open(filepath.Join("test_files", "data", "testcsv2.csv"))
	require.NoError(t, err)
	defer file.Close()

	rdr := NewCSVReader(file)
	rdr.HasHeader = false
	rdr.SkipRows = 2
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"4", "5", "6"}, {"7", "8", "9"}}, data)
}

func TestCSVChunks(t *testing.T) {

	rdr := NewCSVReader(strings.NewReader("x\n1\n2\n3\n4\n5\n"))

	var sizes []int
	for {
		chunk, err := rdr.ReadRecords(2)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(chunk))
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, 6, rdr.Line())
}

func TestCSVUseColumns(t *testing.T) {

	rdr := NewCSVReader(strings.NewReader("a,b,c\n1,2,3\n4,5,6\n"))
	rdr.UseColumns = []string{"c", "a"}
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)

	// File order is kept.
	assert.Equal(t, []string{"a", "c"}, rdr.ColumnNames)
	assert.Equal(t, [][]string{{"1", "3"}, {"4", "6"}}, data)

	rdr = NewCSVReader(strings.NewReader("a,b,c\n1,2,3\n"))
	rdr.UseColumns = []string{"d"}
	_, err = rdr.ReadRecords(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOption))
}

func TestCSVRaggedRows(t *testing.T) {

	rdr := NewCSVReader(strings.NewReader("a,b,c\n1,2\n4,5,6\n"))
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"4", "5", "6"}}, data)

	rdr = NewCSVReader(strings.NewReader("a,b\n1,2\n4,5,6\n"))
	_, err = rdr.ReadRecords(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestCSVOptions(t *testing.T) {

	rdr := NewCSVReader(strings.NewReader("# comment\na;b\n1;x y\n"))
	rdr.Comma = ';'
	rdr.Comment = '#'
	data, err := rdr.ReadRecords(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rdr.ColumnNames)
	assert.Equal(t, [][]string{{"1", "x y"}}, data)

	rdr = NewCSVReader(strings.NewReader("a,b\n1,2\n"))
	rdr.HasHeader = false
	rdr.ColumnNames = []string{"x", "y"}
	data, err = rdr.ReadRecords(-1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, rdr.ColumnNames)
	assert.Len(t, data, 2)

	rdr = NewCSVReader(strings.NewReader("a,b\n1,\"2\n"))
	_, err = rdr.ReadRecords(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestCSVDuplicateNames(t *testing.T) {
	assert.Equal(t, []string{"a", "a.1", "a.2", "b"}, uniqueNames([]string{"a", "a", "a", "b"}))
	assert.Equal(t, []string{"a", "a.1", "a.2"}, uniqueNames([]string{"a", "a.1", "a"}))

	rdr := NewCSVReader(strings.NewReader("x,x\n1,2\n"))
	cols, err := rdr.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x.1"}, cols)
}

func TestCSVEmpty(t *testing.T) {

	_, err := NewCSVReader(strings.NewReader("")).ReadRecords(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	rdr := NewCSVReader(strings.NewReader("a,b\n"))
	_, err = rdr.ReadRecords(-1)
	assert.Equal(t, io.EOF, err)
}

func TestCSVInvalidUTF8(t *testing.T) {

	rdr := NewCSVReader(strings.NewReader("a\n\xff\n"))
	rdr.ValidateUTF8 = true
	_, err := rdr.ReadRecords(-1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRead))
}
