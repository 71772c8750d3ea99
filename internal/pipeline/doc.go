// Package pipeline turns the content of one fetched page into a model.Record.
//
// A Pipeline parses the page once and runs an ordered list of steps over it,
// each step filling one field of the record. Steps are isolated from each
// other: a step that returns an error or panics is logged, its field stays
// empty, and the remaining steps still run. An observer can be attached to
// a run to see the record after every step, which is how the live preview
// shows partial results.
package pipeline
