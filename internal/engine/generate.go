package engine

import (
	"github.com/iancoleman/orderedmap"

	"github.com/quantresi/dialctl/internal/dial"
	"github.com/quantresi/dialctl/internal/model"
	"github.com/quantresi/dialctl/internal/override"
	"github.com/quantresi/dialctl/internal/shock"
)

// PlaceholderCohort marks a cohort container with no entries: the generated
// override needs a real cohort name filled in before it can be applied.
const PlaceholderCohort = "COHORT_NAME"

// GenerateOptions controls the reverse direction: which leaves are emitted
// and how the resulting overrides are shaped.
type GenerateOptions struct {
	// DefaultStartDate and DefaultDial fill in leaves that carry no shock
	// (or whose shock fields are missing or unparseable).
	DefaultStartDate string
	DefaultDial      float64

	// OnlyWithShock skips leaves whose Shock key is absent or not an object.
	OnlyWithShock bool

	// GroupByModelDetail merges overrides sharing the same
	// (model detail tag, cohort, start date, dial) into one multi-target
	// override. Singleton groups stay plain.
	GroupByModelDetail bool

	// CompactTargets rewrites single-address overrides to the shorthand
	// target string, and renders grouped targets as shorthand strings.
	CompactTargets bool
}

type genEntry struct {
	ov          override.Override
	modelDetail string
}

// Generate walks every transition leaf in document order and produces the
// override list that reproduces the document's current shock state. It is
// the structural inverse of Apply: identity entries are skipped because
// applying them would remove the shock they describe.
func Generate(doc *model.Document, opts GenerateOptions) []override.Override {
	var entries []genEntry

	for _, ref := range doc.Leaves() {
		raw, present := ref.Leaf.Shock()
		shockObj, isObject := raw.(*orderedmap.OrderedMap)
		if opts.OnlyWithShock && !isObject {
			continue
		}
		modelDetail, _ := ref.Leaf.ModelDetail()

		if shock.Classify(raw, present) == shock.Cohort {
			cohortEntries := shock.Entries(raw)
			if len(cohortEntries) == 0 {
				placeholder := PlaceholderCohort
				entries = append(entries, genEntry{ov: override.Override{
					State:      ref.State,
					Transition: ref.Transition,
					Detail:     ref.Detail,
					Cohort:     &placeholder,
					StartDate:  opts.DefaultStartDate,
					Dial:       opts.DefaultDial,
				}})
				continue
			}
			for _, entry := range cohortEntries {
				name := stringValue(entry, "Cohort")
				if name == "" {
					name = PlaceholderCohort
				}
				startDate := stringValue(entry, "StartDate")
				if startDate == "" {
					startDate = opts.DefaultStartDate
				}
				dialValue := dial.ParseMultiplier(stringValue(entry, "Detail"), opts.DefaultDial)
				if dial.IsIdentity(dialValue) {
					continue
				}
				cohort := name
				entries = append(entries, genEntry{
					ov: override.Override{
						State:      ref.State,
						Transition: ref.Transition,
						Detail:     ref.Detail,
						Cohort:     &cohort,
						StartDate:  startDate,
						Dial:       dialValue,
					},
					modelDetail: modelDetail,
				})
			}
			continue
		}

		startDate := opts.DefaultStartDate
		dialValue := opts.DefaultDial
		if isObject {
			if s := stringValue(shockObj, "StartDate"); s != "" {
				startDate = s
			}
			dialValue = dial.ParseMultiplier(stringValue(shockObj, "Detail"), opts.DefaultDial)
		}
		if dial.IsIdentity(dialValue) {
			continue
		}
		entries = append(entries, genEntry{
			ov: override.Override{
				State:      ref.State,
				Transition: ref.Transition,
				Detail:     ref.Detail,
				StartDate:  startDate,
				Dial:       dialValue,
			},
			modelDetail: modelDetail,
		})
	}

	var result []override.Override
	if opts.GroupByModelDetail {
		result = groupByModelDetail(entries, opts.CompactTargets)
	} else {
		result = make([]override.Override, 0, len(entries))
		for _, e := range entries {
			result = append(result, e.ov)
		}
	}

	if opts.CompactTargets {
		compactSingleTargets(result)
	}
	return result
}

type groupKey struct {
	modelDetail string
	cohort      string
	hasCohort   bool
	startDate   string
	dial        float64
}

// groupByModelDetail merges entries sharing a model detail tag and identical
// shock terms into one multi-target override, preserving first-seen order.
// Entries with no model detail tag pass through untouched.
func groupByModelDetail(entries []genEntry, compactTargets bool) []override.Override {
	type bucket struct {
		members []override.Override
	}

	var order []any // either an override.Override index or a groupKey
	groups := make(map[groupKey]*bucket)
	var singles []override.Override

	for _, e := range entries {
		if e.modelDetail == "" {
			order = append(order, len(singles))
			singles = append(singles, e.ov)
			continue
		}
		key := groupKey{
			modelDetail: e.modelDetail,
			startDate:   e.ov.StartDate,
			dial:        e.ov.Dial,
		}
		if e.ov.Cohort != nil {
			key.hasCohort = true
			key.cohort = *e.ov.Cohort
		}
		b, ok := groups[key]
		if !ok {
			b = &bucket{}
			groups[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, e.ov)
	}

	result := make([]override.Override, 0, len(order))
	for _, item := range order {
		switch v := item.(type) {
		case int:
			result = append(result, singles[v])
		case groupKey:
			members := groups[v].members
			if len(members) == 1 {
				result = append(result, members[0])
				continue
			}
			base := members[0]
			grouped := override.Override{
				ModelDetail: v.modelDetail,
				Cohort:      base.Cohort,
				StartDate:   base.StartDate,
				Dial:        base.Dial,
			}
			for _, m := range members {
				if compactTargets {
					grouped.Targets = append(grouped.Targets,
						override.NewCompactTarget(m.State, m.Transition, m.Detail))
				} else {
					grouped.Targets = append(grouped.Targets,
						override.NewTarget(m.State, m.Transition, m.Detail))
				}
			}
			result = append(result, grouped)
		}
	}
	return result
}

// compactSingleTargets rewrites each plain state/transition override to its
// shorthand target string in place. Overrides already carrying target or
// targets are left alone.
func compactSingleTargets(overrides []override.Override) {
	for i := range overrides {
		o := &overrides[i]
		if o.Target != "" || len(o.Targets) > 0 {
			continue
		}
		if o.State == "" || o.Transition == "" {
			continue
		}
		o.Target = override.NewTarget(o.State, o.Transition, o.Detail).Shorthand()
		o.State, o.Transition, o.Detail = "", "", ""
	}
}

func stringValue(obj *orderedmap.OrderedMap, key string) string {
	v, ok := obj.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
