// Package specfile loads and writes override spec files.
//
// A spec file is either a bare JSON list of overrides, an object carrying
// input/output/version defaults alongside the overrides, or a
// {"models": {...}} object mapping model keys to either of those forms.
// Writing uses a fixed reviewable layout so specs diff cleanly in version
// control.
package specfile
