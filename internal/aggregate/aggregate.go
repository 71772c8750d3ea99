// Package aggregate merges per-page records into one running union.
//
// An Aggregate is the set-shaped accumulator threaded through a crawl:
// string sequences are sets, social links are a set per platform,
// metadata is taken from the first page that has any, and tables are an
// append-only list. Flatten converts it into the flat model.Record consumed
// by renderers and is called exactly once, by whoever owns the crawl.
package aggregate

import "github.com/nao1215/webharvest/internal/model"

// StringSet is a set of strings that remembers first-insertion order so
// flattened output is deterministic.
type StringSet struct {
	index map[string]struct{}
	order []string
}

// NewStringSet returns an empty set.
func NewStringSet() *StringSet {
	return &StringSet{index: make(map[string]struct{})}
}

// Add inserts v and reports whether it was not already present.
func (s *StringSet) Add(v string) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// AddAll inserts every value of values.
func (s *StringSet) AddAll(values []string) {
	for _, v := range values {
		s.Add(v)
	}
}

// Contains reports whether v is in the set.
func (s *StringSet) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of members.
func (s *StringSet) Len() int {
	return len(s.order)
}

// Slice returns the members in first-insertion order.
func (s *StringSet) Slice() []string {
	if len(s.order) == 0 {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Aggregate is the running union of facts across the pages of one crawl.
// It is not safe for concurrent use; a crawl owns exactly one.
type Aggregate struct {
	sets     map[string]*StringSet
	social   map[string]*StringSet
	metadata model.Metadata
	tables   []model.Table
	pages    int
}

// New returns an empty Aggregate.
func New() *Aggregate {
	sets := make(map[string]*StringSet, len(model.StringFields))
	for _, field := range model.StringFields {
		sets[field] = NewStringSet()
	}
	return &Aggregate{
		sets:   sets,
		social: make(map[string]*StringSet),
	}
}

// Merge adds the facts of page to the aggregate. Merging only ever adds:
//   - string fields and per-platform social links are unioned
//   - metadata is adopted only while the aggregate has none
//   - tables are appended with their per-page index untouched
//
// A nil page is ignored.
func (a *Aggregate) Merge(page *model.Record) {
	if page == nil {
		return
	}
	for _, field := range model.StringFields {
		values, _ := page.Strings(field)
		a.sets[field].AddAll(values)
	}

	for platform, links := range page.Social {
		set, ok := a.social[platform]
		if !ok {
			set = NewStringSet()
			a.social[platform] = set
		}
		set.AddAll(links)
	}

	if len(a.metadata) == 0 && len(page.Metadata) > 0 {
		a.metadata = page.Clone().Metadata
	}

	a.tables = append(a.tables, page.Tables...)

	a.pages++
}

// Pages returns the number of records merged so far.
func (a *Aggregate) Pages() int {
	return a.pages
}

// Contains reports whether value is already recorded under a string field.
func (a *Aggregate) Contains(field, value string) bool {
	set, ok := a.sets[field]
	if !ok {
		return false
	}
	return set.Contains(value)
}

// Flatten converts the aggregate into a flat record with every set turned
// into a list in first-seen order.
func (a *Aggregate) Flatten() *model.Record {
	r := model.NewRecord()
	for _, field := range model.StringFields {
		r.SetStrings(field, a.sets[field].Slice())
	}
	for platform, set := range a.social {
		if set.Len() > 0 {
			r.Social[platform] = set.Slice()
		}
	}
	if a.metadata != nil {
		r.Metadata = a.metadata
	}
	if len(a.tables) > 0 {
		r.Tables = make([]model.Table, len(a.tables))
		copy(r.Tables, a.tables)
	}
	return r
}
