package model

import (
	"encoding/json"
	"sort"
	"time"
)

// Outcome is the result of processing one URL in a fan-out run:
// either a Record or an error reason.
type Outcome struct {
	Record *Record
	Err    string
}

// Failed reports whether the outcome is an error marker.
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// MarshalJSON renders the record itself, or {"error": reason} for failures.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: o.Err})
	}
	if o.Record == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.Record)
}

// Batch maps each input URL to its outcome. Entries are indexed by URL
// because fan-out results complete in arbitrary order.
type Batch map[string]Outcome

// URLs returns the batch keys in sorted order.
func (b Batch) URLs() []string {
	urls := make([]string, 0, len(b))
	for u := range b {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Failures returns the number of error entries.
func (b Batch) Failures() int {
	n := 0
	for _, o := range b {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Capture is one entry of a scheduled capture file.
type Capture struct {
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url"`
	Data      *Record   `json:"data"`
}
