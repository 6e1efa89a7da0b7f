// Package override defines dial override specs and their expansion into
// atomic apply operations.
//
// An override addresses one or more transition leaves and carries a shared
// shock intent (start date, dial multiplier, cohort scope, conversion
// flags). Addressing takes one of three mutually exclusive styles:
//
//   - inline: {"state": "CUR", "transition": "DEF", ...}
//   - shorthand: {"target": "CUR->DEF@FIXED", ...}
//   - fan-out: {"targets": ["CUR->DEF", {"state": "DLQ", "transition": "CUR"}], ...}
//
// Expansion yields one Atomic per addressed leaf with the shared fields
// merged in. Structural mistakes (both target and targets, outer
// state/transition next to a targets list, malformed shorthand) fail the
// whole batch rather than guessing intent.
package override
