// Package engine applies dial override batches to a model document and
// runs the reverse direction: regenerating the override list that
// reproduces a document's current shock state.
//
// Apply and Generate are inverses for documents holding only simple
// shocks: generating overrides, resetting the document to identity, and
// reapplying them reproduces every StartDate and multiplier up to the
// 3-decimal rounding of the schedule builder.
package engine
