package model

import (
	"fmt"

	"github.com/iancoleman/orderedmap"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

// TransitionKind distinguishes the two shapes a transition node can take.
// A node is never both at once.
type TransitionKind int

const (
	// LeafTransition holds its own (optional) Shock.
	LeafTransition TransitionKind = iota
	// GroupedTransition holds a Detail mapping of independently shockable leaves.
	GroupedTransition
)

// Leaf is a resolved transition leaf: the node a shock attaches to.
type Leaf struct {
	state      string
	transition string
	detail     string // empty when the leaf is the transition node itself
	obj        *orderedmap.OrderedMap
}

// Path renders the leaf's address for error messages,
// e.g. State['CUR'].Transitions['DEF'].Detail['FIXED'].
func (l *Leaf) Path() string {
	path := fmt.Sprintf("State[%q].Transitions[%q]", l.state, l.transition)
	if l.detail != "" {
		path += fmt.Sprintf(".Detail[%q]", l.detail)
	}
	return path
}

// Object exposes the leaf's underlying node for the shock manager.
func (l *Leaf) Object() *orderedmap.OrderedMap {
	return l.obj
}

// Shock returns the raw value of the leaf's Shock key, if present.
func (l *Leaf) Shock() (any, bool) {
	return l.obj.Get("Shock")
}

// SetShock writes the leaf's Shock key.
func (l *Leaf) SetShock(v any) {
	l.obj.Set("Shock", v)
}

// ClearShock removes the leaf's Shock key entirely. A leaf with no Shock
// is implicitly identity.
func (l *Leaf) ClearShock() {
	l.obj.Delete("Shock")
}

// ModelDetail returns the leaf's model detail tag: a Detail value that is a
// string rather than a grouping object. It names the model file the leaf
// came from and is used only for grouping generated overrides.
func (l *Leaf) ModelDetail() (string, bool) {
	return stringAt(l.obj, "Detail")
}

// Kind classifies a transition node. A node whose Detail key holds an
// object is a grouped transition; anything else is a leaf.
func Kind(obj *orderedmap.OrderedMap) TransitionKind {
	if _, ok := objectAt(obj, "Detail"); ok {
		return GroupedTransition
	}
	return LeafTransition
}

// Resolve locates the leaf addressed by (state, transition, detail).
// An empty detail addresses the transition node itself. Resolution never
// creates structure; any missing segment is an ErrPathNotFound naming the
// exact segment that is absent.
func (d *Document) Resolve(state, transition, detail string) (*Leaf, error) {
	states, ok := objectAt(d.root, "State")
	if !ok {
		return nil, fmt.Errorf("%w: document has no State mapping", dialerrors.ErrPathNotFound)
	}

	stateObj, ok := objectAt(states, state)
	if !ok {
		return nil, fmt.Errorf("%w: State[%q]", dialerrors.ErrPathNotFound, state)
	}

	transitions, ok := objectAt(stateObj, "Transitions")
	if !ok {
		return nil, fmt.Errorf("%w: State[%q].Transitions", dialerrors.ErrPathNotFound, state)
	}

	transitionObj, ok := objectAt(transitions, transition)
	if !ok {
		return nil, fmt.Errorf("%w: State[%q].Transitions[%q]", dialerrors.ErrPathNotFound, state, transition)
	}

	if detail == "" {
		return &Leaf{state: state, transition: transition, obj: transitionObj}, nil
	}

	detailRoot, ok := objectAt(transitionObj, "Detail")
	if !ok {
		return nil, fmt.Errorf("%w: State[%q].Transitions[%q].Detail[%q]",
			dialerrors.ErrPathNotFound, state, transition, detail)
	}
	detailObj, ok := objectAt(detailRoot, detail)
	if !ok {
		return nil, fmt.Errorf("%w: State[%q].Transitions[%q].Detail[%q]",
			dialerrors.ErrPathNotFound, state, transition, detail)
	}

	return &Leaf{state: state, transition: transition, detail: detail, obj: detailObj}, nil
}

// LeafRef is one entry in a full-document walk.
type LeafRef struct {
	State      string
	Transition string
	Detail     string // empty for ungrouped transitions
	Leaf       *Leaf
}

// Leaves walks every transition leaf in document order, flattening grouped
// transitions into one entry per detail.
func (d *Document) Leaves() []LeafRef {
	var refs []LeafRef

	states, ok := objectAt(d.root, "State")
	if !ok {
		return refs
	}

	for _, stateName := range states.Keys() {
		stateObj, ok := objectAt(states, stateName)
		if !ok {
			continue
		}
		transitions, ok := objectAt(stateObj, "Transitions")
		if !ok {
			continue
		}
		for _, transitionName := range transitions.Keys() {
			transitionObj, ok := objectAt(transitions, transitionName)
			if !ok {
				continue
			}
			if Kind(transitionObj) == GroupedTransition {
				detailRoot, _ := objectAt(transitionObj, "Detail")
				for _, detailName := range detailRoot.Keys() {
					detailObj, ok := objectAt(detailRoot, detailName)
					if !ok {
						continue
					}
					refs = append(refs, LeafRef{
						State:      stateName,
						Transition: transitionName,
						Detail:     detailName,
						Leaf:       &Leaf{state: stateName, transition: transitionName, detail: detailName, obj: detailObj},
					})
				}
				continue
			}
			refs = append(refs, LeafRef{
				State:      stateName,
				Transition: transitionName,
				Leaf:       &Leaf{state: stateName, transition: transitionName, obj: transitionObj},
			})
		}
	}

	return refs
}
