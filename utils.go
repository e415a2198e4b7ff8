package csvoptimizer

// A RecordReader yields raw records in chunks of consecutive rows.
// CSVReader satisfies it.
type RecordReader interface {
	Columns() ([]string, error)
	ReadRecords(int) ([][]string, error)
}
