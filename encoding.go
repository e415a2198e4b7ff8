package csvoptimizer

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Python style names that the IANA registry does not know about.
var encodingAliases = map[string]string{
	"latin-1": "latin1",
	"latin_1": "latin1",
	"l1":      "latin1",
	"utf8":    "utf-8",
	"utf_8":   "utf-8",
	"cp1252":  "windows-1252",
	"ascii":   "us-ascii",
}

// lookupEncoding resolves an encoding name.  The empty name is latin1.
func lookupEncoding(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		n = "latin1"
	}
	if a, ok := encodingAliases[n]; ok {
		n = a
	}
	switch n {
	case "latin1":
		return charmap.ISO8859_1, nil
	case "utf-8":
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "encoding %q", name), ErrRead)
	}
	if enc == nil {
		return nil, errors.Mark(errors.Newf("encoding %q is not supported", name), ErrRead)
	}
	return enc, nil
}

// decodingReader returns a reader producing UTF-8 text from r.
func decodingReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		// The x/text decoder substitutes U+FFFD for invalid bytes;
		// validation happens on the records instead.
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

// validatesUTF8 reports whether records decoded under the named
// encoding must be checked for invalid byte sequences.
func validatesUTF8(name string) bool {
	enc, err := lookupEncoding(name)
	return err == nil && enc == unicode.UTF8
}
