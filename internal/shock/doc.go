// Package shock manages the Shock field of a resolved transition leaf.
//
// A shock takes one of two mutually exclusive shapes: simple
// ({StartDate, Detail}) or cohort ({HasCohort: true, Cohorts: [...]}).
// This package is the only place shape transitions happen, so callers
// reason about intent (add_cohort, convert_cohort) rather than tree shape.
// Conversions are never implicit: writing a simple shock over a cohort
// shock always fails, and converting a simple shock to a cohort container
// requires explicit authorization because the simple terms are discarded.
package shock
