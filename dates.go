package csvoptimizer

import (
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/itchyny/timefmt-go"
)

// dateLayouts are tried in order.  Layouts with a time part come
// before their date-only prefix.
var dateLayouts = []string{
	"%Y-%m-%dT%H:%M:%S",
	"%Y-%m-%d %H:%M:%S",
	"%Y-%m-%d %H:%M",
	"%Y-%m-%d",
	"%Y/%m/%d %H:%M:%S",
	"%Y/%m/%d",
	"%m/%d/%Y %H:%M:%S",
	"%m/%d/%Y %H:%M",
	"%m/%d/%Y",
	"%d.%m.%Y %H:%M:%S",
	"%d.%m.%Y",
}

// layoutShapes holds, per layout, an anchored pattern that a value must
// match in full before it is parsed.
var layoutShapes = map[string]*regexp.Regexp{}

func init() {
	for _, layout := range dateLayouts {
		layoutShapes[layout] = layoutShape(layout)
	}
}

// layoutShape translates the directives used in dateLayouts into a
// regular expression matching the whole value.
func layoutShape(layout string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(layout); i++ {
		if layout[i] == '%' && i+1 < len(layout) {
			i++
			switch layout[i] {
			case 'Y':
				b.WriteString(`\d{4}`)
			case 'm', 'd', 'H', 'M', 'S':
				b.WriteString(`\d{1,2}`)
			default:
				b.WriteString(regexp.QuoteMeta(layout[i-1 : i+1]))
			}
			continue
		}
		b.WriteString(regexp.QuoteMeta(layout[i : i+1]))
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// parseDate parses s with a strftime layout.  The whole of s must be
// consumed by the layout.
func parseDate(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	shape, ok := layoutShapes[layout]
	if !ok {
		shape = layoutShape(layout)
	}
	if !shape.MatchString(s) {
		return time.Time{}, errors.Newf("%q does not match layout %q", s, layout)
	}
	t, err := timefmt.Parse(s, layout)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing %q with layout %q", s, layout)
	}
	return t, nil
}

// detectDateLayout returns the layout that parses every value, when
// the first value selects one.  Parse failures only mean the values
// are not dates.
func detectDateLayout(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	for _, layout := range dateLayouts {
		if _, err := parseDate(values[0], layout); err != nil {
			continue
		}
		for _, v := range values[1:] {
			if _, err := parseDate(v, layout); err != nil {
				return "", false
			}
		}
		return layout, true
	}
	return "", false
}
