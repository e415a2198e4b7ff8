package csvoptimizer

import "github.com/cockroachdb/errors"

// Failures returned by the loader are marked with one of these, so
// callers can test them with errors.Is.
var (
	// ErrRead marks files that cannot be opened, read or decoded.
	ErrRead = errors.New("read failure")

	// ErrParse marks malformed delimited content, and values that do
	// not fit the type decided for their column.
	ErrParse = errors.New("parse failure")

	// ErrInvalidOption marks loader options outside their domain.
	ErrInvalidOption = errors.New("invalid option")
)

func readError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrRead)
}

func parseError(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrParse)
}

func parseErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrParse)
}
