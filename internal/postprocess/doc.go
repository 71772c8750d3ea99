// Package postprocess transforms a finished record before it is rendered.
//
// Filter keeps only values that match a keyword or a regular expression and
// Normalize deduplicates and sorts string lists. Both return a new record and
// leave their input untouched.
package postprocess
