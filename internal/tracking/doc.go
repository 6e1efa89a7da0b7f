// Package tracking summarizes model-tracking workbooks into a dial table.
//
// For each dealtype the flow finds the latest Dialed and Undialed tracking
// workbooks, extracts the per-status and per-bucket summary rows, joins
// the two sides, and derives the current, implied, and proposed dials for
// a configured error window. The result is written as one formatted sheet
// per dealtype.
package tracking
