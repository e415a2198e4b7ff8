package csvoptimizer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetName removes the characters that the schema tag syntax
// reserves.
func parquetName(name string) string {
	return strings.NewReplacer(",", "_", "=", "_", " ", "_", ".", "_").Replace(name)
}

// parquetNames sanitises the column names and suffixes the ones that
// collide after sanitising with _1, _2, ...
func parquetNames(data SeriesArray) []string {
	names := make([]string, len(data))
	used := make(map[string]bool, len(data))
	for _, ser := range data {
		used[parquetName(ser.Name)] = false
	}
	for j, ser := range data {
		name := parquetName(ser.Name)
		if taken, ok := used[name]; ok && !taken {
			used[name] = true
			names[j] = name
			continue
		}
		for k := 1; ; k++ {
			cand := fmt.Sprintf("%s_%d", name, k)
			if _, ok := used[cand]; !ok {
				used[cand] = true
				names[j] = cand
				break
			}
		}
	}
	return names
}

// parquetMetadata returns the schema tag of a series stored under name.
func parquetMetadata(ser *Series, name string) (string, error) {

	var t string
	switch ser.dtype.Kind {
	case Bool:
		t = "type=BOOLEAN"
	case Int8:
		t = "type=INT32, convertedtype=INT_8"
	case Int16:
		t = "type=INT32, convertedtype=INT_16"
	case Int32:
		t = "type=INT32"
	case Int64:
		t = "type=INT64"
	case Float32:
		t = "type=FLOAT"
	case Float64:
		t = "type=DOUBLE"
	case String:
		t = "type=BYTE_ARRAY, convertedtype=UTF8"
	case Category:
		t = "type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"
	case DateTime:
		t = "type=INT64, convertedtype=TIMESTAMP_MILLIS"
	default:
		return "", errors.Newf("column %q: no parquet type for %s", ser.Name, ser.dtype)
	}

	rep := "REQUIRED"
	if ser.missing != nil || ser.dtype.Nullable {
		rep = "OPTIONAL"
	}

	return fmt.Sprintf("name=%s, %s, repetitiontype=%s", name, t, rep), nil
}

// parquetValue returns element i in the Go type the parquet writer
// expects for the column, or nil when it is missing.
func parquetValue(ser *Series, i int) interface{} {

	if ser.isMissing(i) {
		return nil
	}

	switch x := ser.data.(type) {
	case []bool:
		return x[i]
	case []int8:
		return int32(x[i])
	case []int16:
		return int32(x[i])
	case []int32:
		return x[i]
	case []int64:
		return x[i]
	case []float32:
		return x[i]
	case []float64:
		return x[i]
	case []string:
		return x[i]
	case *Categorical:
		return x.Value(i)
	case []time.Time:
		return x[i].UnixMilli()
	}
	return nil
}

// WriteParquet writes the series to w as a snappy compressed parquet
// file, with one parquet column per series.
func WriteParquet(w io.Writer, data SeriesArray) error {

	if len(data) == 0 {
		return errors.New("no columns to write")
	}

	names := parquetNames(data)
	md := make([]string, len(data))
	for j, ser := range data {
		m, err := parquetMetadata(ser, names[j])
		if err != nil {
			return err
		}
		md[j] = m
	}

	fw := writerfile.NewWriterFile(w)
	pw, err := writer.NewCSVWriter(md, fw, 4)
	if err != nil {
		return errors.Wrap(err, "creating parquet writer")
	}
	pw.RowGroupSize = 128 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	nrow := data[0].Length()
	for i := 0; i < nrow; i++ {
		// The writer buffers records until a row group is flushed.
		rec := make([]interface{}, len(data))
		for j, ser := range data {
			rec[j] = parquetValue(ser, i)
		}
		if err := pw.Write(rec); err != nil {
			return errors.Wrapf(err, "writing row %d", i+1)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return errors.Wrap(err, "finishing parquet file")
	}
	return fw.Close()
}
