package postprocess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nao1215/webharvest/internal/model"
)

// ErrInvalidPattern is returned when the filter expression does not compile.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// fold returns the case-folded form of s. A Caser is stateful, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Matcher decides whether a value survives filtering.
// A non-empty keyword always wins over the pattern.
type Matcher struct {
	keyword string
	re      *regexp.Regexp
}

// NewMatcher creates a Matcher. It returns nil when both keyword and
// pattern are empty, meaning no filtering.
func NewMatcher(keyword, pattern string) (*Matcher, error) {
	if keyword != "" {
		return &Matcher{keyword: fold(keyword)}, nil
	}
	if pattern == "" {
		return nil, nil //nolint:nilnil // nil matcher disables filtering
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err) //nolint:errorlint // regexp error is informational
	}
	return &Matcher{re: re}, nil
}

// Match reports whether value contains the keyword, ignoring case, or
// matches the pattern.
func (m *Matcher) Match(value string) bool {
	if m.keyword != "" {
		return strings.Contains(fold(value), m.keyword)
	}
	return m.re.MatchString(value)
}

// Filter returns a copy of rec holding only the values accepted by the
// keyword or pattern. Social links are filtered per platform, metadata per
// name, and a table is kept when any of its cells matches. A field that
// becomes empty is dropped.
func Filter(rec *model.Record, keyword, pattern string) (*model.Record, error) {
	m, err := NewMatcher(keyword, pattern)
	if err != nil {
		return nil, err
	}
	return m.Apply(rec), nil
}

// Apply filters a copy of rec. A nil Matcher returns the copy unchanged.
func (m *Matcher) Apply(rec *model.Record) *model.Record {
	out := rec.Clone()
	if m == nil || out == nil {
		return out
	}

	for _, field := range model.StringFields {
		values, _ := out.Strings(field)
		out.SetStrings(field, m.keep(values))
	}

	social := make(map[string][]string, len(out.Social))
	for platform, links := range out.Social {
		if kept := m.keep(links); kept != nil {
			social[platform] = kept
		}
	}
	out.Social = nilIfEmptyMap(social)

	metadata := make(model.Metadata, len(out.Metadata))
	for name, value := range out.Metadata {
		if kept := m.keep(value.Values); kept != nil {
			metadata[name] = model.MetaValue{Values: kept}
		}
	}
	if len(metadata) == 0 {
		metadata = nil
	}
	out.Metadata = metadata

	var tables []model.Table
	for _, t := range out.Tables {
		if m.matchTable(t) {
			tables = append(tables, t)
		}
	}
	out.Tables = tables

	return out
}

// keep returns the matching values, or nil when none match.
func (m *Matcher) keep(values []string) []string {
	var out []string
	for _, v := range values {
		if m.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (m *Matcher) matchTable(t model.Table) bool {
	for _, row := range t.Rows {
		for _, cell := range row {
			if m.Match(cell) {
				return true
			}
		}
	}
	return false
}

func nilIfEmptyMap(m map[string][]string) map[string][]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
