package shock

import (
	"fmt"

	"github.com/iancoleman/orderedmap"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/model"
)

// Kind is the tagged classification of a leaf's shock state.
type Kind int

const (
	// None means the leaf has no Shock key: implicit identity.
	None Kind = iota
	// Simple is a scalar shock: {StartDate, Detail}.
	Simple
	// Cohort is a cohort-segmented shock: {HasCohort: true, Cohorts: [...]}.
	Cohort
)

// Classify reports the kind of a raw shock value. A shock is cohort-shaped
// iff it is an object carrying HasCohort: true or a Cohorts key; anything
// else that is present is simple.
func Classify(raw any, present bool) Kind {
	if !present || raw == nil {
		return None
	}
	if isCohortShaped(raw) {
		return Cohort
	}
	return Simple
}

func isCohortShaped(raw any) bool {
	obj, ok := raw.(*orderedmap.OrderedMap)
	if !ok {
		return false
	}
	if v, ok := obj.Get("HasCohort"); ok {
		if b, ok := v.(bool); ok && b {
			return true
		}
	}
	_, ok = obj.Get("Cohorts")
	return ok
}

// UpsertSimple writes a simple shock {StartDate, Detail} onto the leaf.
// It refuses to overwrite a cohort-shaped shock: there is no implicit
// downgrade path, and no override flag enables one.
func UpsertSimple(leaf *model.Leaf, startDate, schedule string) error {
	raw, present := leaf.Shock()
	if Classify(raw, present) == Cohort {
		return fmt.Errorf("%w at %s", dialerrors.ErrSimpleOverCohort, leaf.Path())
	}

	obj := orderedmap.New()
	obj.Set("StartDate", startDate)
	obj.Set("Detail", schedule)
	leaf.SetShock(obj)
	return nil
}

// ensureCohortContainer returns the leaf's cohort-shaped shock object,
// creating or converting as authorized:
//   - no shock: created as {HasCohort: true, Cohorts: []} only when allowCreate
//   - simple shock: replaced only when allowConvert (the simple terms are
//     discarded), otherwise ErrCohortConversionRefused
//   - HasCohort: true with no Cohorts list: normalized to an empty list
func ensureCohortContainer(leaf *model.Leaf, allowCreate, allowConvert bool) (*orderedmap.OrderedMap, error) {
	raw, present := leaf.Shock()

	if !present || raw == nil {
		if !allowCreate {
			return nil, fmt.Errorf("%w: no cohort shock at %s (set add_cohort to create)",
				dialerrors.ErrCohortNotFound, leaf.Path())
		}
		obj := newCohortContainer()
		leaf.SetShock(obj)
		return obj, nil
	}

	obj, ok := raw.(*orderedmap.OrderedMap)
	if !ok {
		return nil, fmt.Errorf("shock at %s must be an object", leaf.Path())
	}

	if _, ok := obj.Get("Cohorts"); !ok {
		if v, ok := obj.Get("HasCohort"); ok {
			if b, ok := v.(bool); ok && b {
				obj.Set("Cohorts", []any{})
			}
		}
		if _, ok := obj.Get("Cohorts"); !ok {
			if !allowConvert {
				return nil, fmt.Errorf("%w at %s", dialerrors.ErrCohortConversionRefused, leaf.Path())
			}
			obj = newCohortContainer()
			leaf.SetShock(obj)
		}
	}

	if v, ok := obj.Get("HasCohort"); !ok || v != true {
		obj.Set("HasCohort", true)
	}

	if _, ok := cohortList(obj); !ok {
		return nil, fmt.Errorf("Shock.Cohorts at %s must be a list", leaf.Path())
	}

	return obj, nil
}

// UpsertCohort updates every cohort entry named cohort on the leaf, or
// appends a new entry when none match and addCohort permits. Duplicate
// cohort names are all updated together; the fan-out is intentional.
// convertCohort authorizes replacing an existing simple shock (and implies
// creation).
func UpsertCohort(leaf *model.Leaf, cohort, startDate, schedule string, addCohort, convertCohort bool) error {
	addCohort = addCohort || convertCohort

	obj, err := ensureCohortContainer(leaf, addCohort, convertCohort)
	if err != nil {
		return err
	}
	cohorts, _ := cohortList(obj)

	var matches []*orderedmap.OrderedMap
	for _, item := range cohorts {
		entry, ok := item.(*orderedmap.OrderedMap)
		if !ok {
			continue
		}
		if name, ok := entry.Get("Cohort"); ok && name == cohort {
			matches = append(matches, entry)
		}
	}

	if len(matches) == 0 {
		if !addCohort {
			return fmt.Errorf("%w: %q at %s (set add_cohort to create)",
				dialerrors.ErrCohortNotFound, cohort, leaf.Path())
		}
		entry := orderedmap.New()
		entry.Set("Cohort", cohort)
		obj.Set("Cohorts", append(cohorts, entry))
		matches = append(matches, entry)
	}

	for _, entry := range matches {
		entry.Set("StartDate", startDate)
		entry.Set("Detail", schedule)
	}
	return nil
}

// Remove retires a shock. With no cohort the whole Shock key is deleted
// regardless of shape. With a cohort name, matching entries are pruned and
// the key is deleted when the list empties; a cohort name against a
// non-cohort shock also deletes the whole key, so removal by cohort on a
// simple path just clears it.
func Remove(leaf *model.Leaf, cohort string) {
	raw, present := leaf.Shock()
	if !present {
		return
	}

	if cohort == "" {
		leaf.ClearShock()
		return
	}

	if !isCohortShaped(raw) {
		leaf.ClearShock()
		return
	}

	obj, ok := raw.(*orderedmap.OrderedMap)
	if !ok {
		return
	}
	cohorts, ok := cohortList(obj)
	if !ok {
		return
	}

	remaining := make([]any, 0, len(cohorts))
	for _, item := range cohorts {
		if entry, ok := item.(*orderedmap.OrderedMap); ok {
			if name, ok := entry.Get("Cohort"); ok && name == cohort {
				continue
			}
		}
		remaining = append(remaining, item)
	}

	if len(remaining) == len(cohorts) {
		return
	}

	if len(remaining) == 0 {
		leaf.ClearShock()
		return
	}
	obj.Set("Cohorts", remaining)
}

// Entries returns the cohort entry objects of a cohort-shaped shock value.
// A cohort shock with no usable list yields nil.
func Entries(raw any) []*orderedmap.OrderedMap {
	obj, ok := raw.(*orderedmap.OrderedMap)
	if !ok {
		return nil
	}
	cohorts, ok := cohortList(obj)
	if !ok {
		return nil
	}
	entries := make([]*orderedmap.OrderedMap, 0, len(cohorts))
	for _, item := range cohorts {
		if entry, ok := item.(*orderedmap.OrderedMap); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func newCohortContainer() *orderedmap.OrderedMap {
	obj := orderedmap.New()
	obj.Set("HasCohort", true)
	obj.Set("Cohorts", []any{})
	return obj
}

func cohortList(obj *orderedmap.OrderedMap) ([]any, bool) {
	v, ok := obj.Get("Cohorts")
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}
