package override

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

// Override is one entry of an override spec. Addressing is either inline
// (state/transition/detail), a single shorthand target, or a targets list;
// the remaining fields are shared by every expanded target.
type Override struct {
	Target      string   `json:"target,omitempty"`
	Targets     []Target `json:"targets,omitempty"`
	ModelDetail string   `json:"model_detail,omitempty"`

	State      string `json:"state,omitempty"`
	Transition string `json:"transition,omitempty"`
	Detail     string `json:"detail,omitempty"`

	Cohort    *string `json:"cohort,omitempty"`
	StartDate string  `json:"start_date,omitempty"`
	Dial      float64 `json:"dial,omitempty"`

	AddCohort     bool  `json:"add_cohort,omitempty"`
	ConvertCohort *bool `json:"convert_cohort,omitempty"`

	Disabled bool  `json:"disabled,omitempty"`
	Enabled  *bool `json:"enabled,omitempty"`

	// hasTargets records that the targets key was present in the JSON,
	// even as an empty list. An explicit empty list is an addressing
	// mistake, not an inline override.
	hasTargets bool
}

// UnmarshalJSON decodes an override, remembering whether the targets key
// was present so an explicit empty list can be rejected.
func (o *Override) UnmarshalJSON(data []byte) error {
	type plain Override
	aux := struct {
		*plain
		Targets json.RawMessage `json:"targets"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Targets != nil && string(aux.Targets) != "null" {
		o.hasTargets = true
		if err := json.Unmarshal(aux.Targets, &o.Targets); err != nil {
			return err
		}
	}
	return nil
}

// IsDisabled reports whether the override is switched off
// (disabled: true or enabled: false). Disabled overrides are skipped
// before expansion.
func (o *Override) IsDisabled() bool {
	return o.Disabled || (o.Enabled != nil && !*o.Enabled)
}

// Target addresses one transition leaf. It unmarshals from either the
// shorthand string form or an explicit {state, transition, detail?} object,
// and remembers which form to marshal back to.
type Target struct {
	State      string
	Transition string
	Detail     string

	// compact selects the shorthand string form when marshaling.
	compact bool
}

// NewTarget builds an explicit-object target.
func NewTarget(state, transition, detail string) Target {
	return Target{State: state, Transition: transition, Detail: detail}
}

// NewCompactTarget builds a target that marshals as a shorthand string.
func NewCompactTarget(state, transition, detail string) Target {
	return Target{State: state, Transition: transition, Detail: detail, compact: true}
}

// UnmarshalJSON accepts a shorthand string or an explicit target object.
func (t *Target) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var shorthand string
		if err := json.Unmarshal(data, &shorthand); err != nil {
			return err
		}
		parsed, err := ParseTarget(shorthand)
		if err != nil {
			return err
		}
		*t = parsed
		t.compact = true
		return nil
	}

	var obj struct {
		State      string `json:"state"`
		Transition string `json:"transition"`
		Detail     string `json:"detail"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "each target must be an object or shorthand string")
	}
	if obj.State == "" || obj.Transition == "" {
		return errors.New("each target must include state and transition")
	}
	*t = Target{State: obj.State, Transition: obj.Transition, Detail: obj.Detail}
	return nil
}

// MarshalJSON renders the form the target was built with.
func (t Target) MarshalJSON() ([]byte, error) {
	if t.compact {
		return json.Marshal(t.Shorthand())
	}
	obj := map[string]string{"state": t.State, "transition": t.Transition}
	if t.Detail != "" {
		obj["detail"] = t.Detail
	}
	return json.Marshal(obj)
}

// ParseTarget parses the shorthand STATE->TRANSITION or
// STATE->TRANSITION@DETAIL.
func ParseTarget(value string) (Target, error) {
	raw, detail, _ := strings.Cut(value, "@")
	state, transition, found := strings.Cut(raw, "->")
	state = strings.TrimSpace(state)
	transition = strings.TrimSpace(transition)
	detail = strings.TrimSpace(detail)
	if !found || state == "" || transition == "" {
		return Target{}, fmt.Errorf("%w: %q (want STATE->TRANSITION or STATE->TRANSITION@DETAIL)",
			dialerrors.ErrMalformedShorthand, value)
	}
	return Target{State: state, Transition: transition, Detail: detail}, nil
}

// Shorthand renders the target in shorthand form.
func (t Target) Shorthand() string {
	s := t.State + "->" + t.Transition
	if t.Detail != "" {
		s += "@" + t.Detail
	}
	return s
}

// Atomic is a fully expanded override: exactly one leaf address plus the
// resolved shock intent. ConvertCohort defaults to true so that a cohort
// override on a previously simple-shocked path converts unless the caller
// forces otherwise; AddCohort defaults to false so a typo'd cohort name
// cannot silently create a new one.
type Atomic struct {
	State      string
	Transition string
	Detail     string

	Cohort    *string
	StartDate string
	Dial      float64

	AddCohort     bool
	ConvertCohort bool
}

// Shorthand renders the atomic override's address.
func (a Atomic) Shorthand() string {
	return Target{State: a.State, Transition: a.Transition, Detail: a.Detail}.Shorthand()
}

// Expand normalizes one override into its atomic applications.
//
// Inline state/transition, a single target, and a targets list are three
// mutually exclusive addressing styles: target+targets conflict outright,
// and mixing either with outer state/transition is rejected so two styles
// cannot combine by accident.
func Expand(o *Override) ([]Atomic, error) {
	usesTargets := o.hasTargets || len(o.Targets) > 0

	if o.Target != "" && usesTargets {
		return nil, errors.Mark(errors.New("override includes both target and targets"),
			dialerrors.ErrConflictingTargets)
	}

	if o.Target == "" && !usesTargets {
		if o.State == "" || o.Transition == "" {
			return nil, errors.Newf("override must include state and transition (or a target)")
		}
		atomic, err := o.atomic(NewTarget(o.State, o.Transition, o.Detail))
		if err != nil {
			return nil, err
		}
		return []Atomic{atomic}, nil
	}

	if o.State != "" || o.Transition != "" {
		return nil, fmt.Errorf("%w: targets cannot be combined with outer state/transition",
			dialerrors.ErrAmbiguousOverride)
	}

	if o.Target != "" {
		target, err := ParseTarget(o.Target)
		if err != nil {
			return nil, err
		}
		atomic, err := o.atomic(target)
		if err != nil {
			return nil, err
		}
		return []Atomic{atomic}, nil
	}

	if len(o.Targets) == 0 {
		return nil, errors.Newf("override targets list must not be empty")
	}

	expanded := make([]Atomic, 0, len(o.Targets))
	for _, target := range o.Targets {
		atomic, err := o.atomic(target)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, atomic)
	}
	return expanded, nil
}

// atomic merges the override's shared fields with one target address.
// The target's detail wins when set; otherwise the override-level detail
// carries through.
func (o *Override) atomic(t Target) (Atomic, error) {
	detail := t.Detail
	if detail == "" {
		detail = o.Detail
	}

	if o.StartDate == "" {
		return Atomic{}, errors.Newf("override %s missing start_date", t.Shorthand())
	}
	if o.Dial == 0 {
		return Atomic{}, errors.Newf("override %s missing dial", t.Shorthand())
	}

	convert := true
	if o.ConvertCohort != nil {
		convert = *o.ConvertCohort
	}

	return Atomic{
		State:         t.State,
		Transition:    t.Transition,
		Detail:        detail,
		Cohort:        o.Cohort,
		StartDate:     o.StartDate,
		Dial:          o.Dial,
		AddCohort:     o.AddCohort,
		ConvertCohort: convert,
	}, nil
}
