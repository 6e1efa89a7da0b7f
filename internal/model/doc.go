// Package model reads, addresses, and rewrites model configuration documents.
//
// A document is a JSON tree with a State mapping from state name to state
// node; each state holds a Transitions mapping; each transition is either a
// leaf (directly shockable) or a grouped node whose Detail mapping holds
// independently shockable leaves. The package deliberately preserves every
// field it does not understand: documents are decoded into order-preserving
// maps and re-serialized with key order as encountered, so applying an
// override produces a minimal diff against the input file.
//
// Resolution is strict. The engine never creates state, transition, or
// detail structure; a missing segment is an error naming exactly which
// segment was absent. Only the Shock substructure beneath an already
// resolved leaf is ever created.
package model
