package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/quantresi/dialctl/internal/dial"
	"github.com/quantresi/dialctl/internal/model"
	"github.com/quantresi/dialctl/internal/override"
	"github.com/quantresi/dialctl/internal/shock"
)

// ApplyOptions selects the dial-schedule shape written for non-identity
// overrides. Zero values fall back to the current defaults.
type ApplyOptions struct {
	FlatMonths int
	RampMonths int
}

func (o ApplyOptions) withDefaults() ApplyOptions {
	if o.FlatMonths == 0 {
		o.FlatMonths = dial.DefaultFlatMonths
	}
	if o.RampMonths == 0 {
		o.RampMonths = dial.DefaultRampMonths
	}
	return o
}

// Apply mutates the document in place, applying the override batch strictly
// in list order. Later overrides on the same path win; there is no
// deduplication. Disabled overrides are skipped before expansion.
//
// An identity dial (1.0 after 3-decimal rounding) removes the shock,
// honoring the override's cohort scope. A cohort override upserts a cohort
// entry; anything else upserts a simple shock.
//
// The first failure aborts the batch. Mutations already applied stay in the
// in-memory tree, so callers must not persist the document unless Apply
// returns nil.
func Apply(doc *model.Document, overrides []override.Override, opts ApplyOptions) error {
	opts = opts.withDefaults()

	for i := range overrides {
		o := &overrides[i]
		if o.IsDisabled() {
			continue
		}
		atomics, err := override.Expand(o)
		if err != nil {
			return errors.Wrapf(err, "override %d", i)
		}
		for _, a := range atomics {
			if err := applyOne(doc, a, opts); err != nil {
				return errors.Wrapf(err, "override %d (%s)", i, a.Shorthand())
			}
		}
	}
	return nil
}

func applyOne(doc *model.Document, a override.Atomic, opts ApplyOptions) error {
	leaf, err := doc.Resolve(a.State, a.Transition, a.Detail)
	if err != nil {
		return err
	}

	if dial.IsIdentity(a.Dial) {
		cohort := ""
		if a.Cohort != nil {
			cohort = *a.Cohort
		}
		shock.Remove(leaf, cohort)
		return nil
	}

	schedule, err := dial.Schedule(a.Dial, opts.FlatMonths, opts.RampMonths)
	if err != nil {
		return err
	}

	if a.Cohort != nil {
		return shock.UpsertCohort(leaf, *a.Cohort, a.StartDate, schedule, a.AddCohort, a.ConvertCohort)
	}
	return shock.UpsertSimple(leaf, a.StartDate, schedule)
}
