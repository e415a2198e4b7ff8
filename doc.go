// Copyright 2024 The csv-optimizer Authors

// Package csvoptimizer loads delimited text files into memory using a
// compact storage type for every column.
//
// A Loader reads the file in chunks of consecutive rows, draws a random
// sample from every chunk, and samples the concatenated chunk samples
// once more.  The sampled values of each column decide its type:
// columns holding only 0 and 1 become bools, integral columns get the
// narrowest of int8, int16, int32 and int64 covering the sampled range,
// other numeric columns become float32 when the values fit, text in which
// every value is a date becomes a time column, and text with few distinct
// values becomes categorical.  The file is then read in full with these
// types.  Columns with missing values become nullable, or float32 when the
// loader is asked to.
//
// The data is returned as a SeriesArray, a simple column-oriented
// container holding one typed slice and a missing value mask per column.
// A SeriesArray can be written to a parquet file with WriteParquet.
//
// The sampling is seeded, so the same file and options always give the
// same types.  The types are decided from the sample only; a value in the
// unsampled rows that does not fit its column's type makes the load fail.
package csvoptimizer
