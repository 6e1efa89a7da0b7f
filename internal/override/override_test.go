package override

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

func strptr(s string) *string { return &s }

func boolptr(b bool) *bool { return &b }

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Target
		wantErr bool
	}{
		{
			name: "state and transition",
			in:   "CUR->DEF",
			want: Target{State: "CUR", Transition: "DEF"},
		},
		{
			name: "with detail",
			in:   "CUR->PRE@FIXED",
			want: Target{State: "CUR", Transition: "PRE", Detail: "FIXED"},
		},
		{
			name: "whitespace trimmed",
			in:   " CUR -> DEF @ FIXED ",
			want: Target{State: "CUR", Transition: "DEF", Detail: "FIXED"},
		},
		{
			name: "trailing at with no detail",
			in:   "CUR->DEF@",
			want: Target{State: "CUR", Transition: "DEF"},
		},
		{name: "missing separator", in: "CURDEF", wantErr: true},
		{name: "empty state", in: "->DEF", wantErr: true},
		{name: "empty transition", in: "CUR->", wantErr: true},
		{name: "empty string", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				if !errors.Is(err, dialerrors.ErrMalformedShorthand) {
					t.Fatalf("expected ErrMalformedShorthand, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTarget(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTarget(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShorthand_Inverses(t *testing.T) {
	// format∘parse is the identity on well-formed shorthands.
	for _, s := range []string{"CUR->DEF", "CUR->PRE@FIXED"} {
		parsed, err := ParseTarget(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := parsed.Shorthand(); got != s {
			t.Errorf("Shorthand(ParseTarget(%q)) = %q", s, got)
		}
	}

	// parse∘format is the identity on well-formed targets.
	for _, target := range []Target{
		{State: "CUR", Transition: "DEF"},
		{State: "CUR", Transition: "PRE", Detail: "FIXED"},
	} {
		parsed, err := ParseTarget(target.Shorthand())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != target {
			t.Errorf("ParseTarget(Shorthand(%+v)) = %+v", target, parsed)
		}
	}
}

func TestTarget_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Target
		wantErr bool
	}{
		{
			name: "shorthand string",
			in:   `"CUR->DEF@FIXED"`,
			want: Target{State: "CUR", Transition: "DEF", Detail: "FIXED", compact: true},
		},
		{
			name: "explicit object",
			in:   `{"state": "CUR", "transition": "DEF"}`,
			want: Target{State: "CUR", Transition: "DEF"},
		},
		{name: "object missing transition", in: `{"state": "CUR"}`, wantErr: true},
		{name: "malformed shorthand", in: `"CURDEF"`, wantErr: true},
		{name: "wrong type", in: `42`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Target
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTarget_MarshalJSON(t *testing.T) {
	compact, err := json.Marshal(NewCompactTarget("CUR", "DEF", "FIXED"))
	if err != nil {
		t.Fatal(err)
	}
	if string(compact) != `"CUR->DEF@FIXED"` {
		t.Errorf("compact target = %s", compact)
	}

	verbose, err := json.Marshal(NewTarget("CUR", "DEF", ""))
	if err != nil {
		t.Fatal(err)
	}
	var obj map[string]string
	if err := json.Unmarshal(verbose, &obj); err != nil {
		t.Fatal(err)
	}
	if obj["state"] != "CUR" || obj["transition"] != "DEF" {
		t.Errorf("verbose target = %s", verbose)
	}
	if _, ok := obj["detail"]; ok {
		t.Error("empty detail should be omitted")
	}
}

func TestIsDisabled(t *testing.T) {
	tests := []struct {
		name string
		o    Override
		want bool
	}{
		{"default", Override{}, false},
		{"disabled true", Override{Disabled: true}, true},
		{"enabled false", Override{Enabled: boolptr(false)}, true},
		{"enabled true", Override{Enabled: boolptr(true)}, false},
	}
	for _, tt := range tests {
		if got := tt.o.IsDisabled(); got != tt.want {
			t.Errorf("%s: IsDisabled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExpand_Inline(t *testing.T) {
	o := &Override{State: "CUR", Transition: "DEF", StartDate: "20240101", Dial: 1.05}

	atomics, err := Expand(o)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(atomics) != 1 {
		t.Fatalf("len = %d, want 1", len(atomics))
	}
	a := atomics[0]
	if a.State != "CUR" || a.Transition != "DEF" || a.Dial != 1.05 {
		t.Errorf("atomic = %+v", a)
	}
	if !a.ConvertCohort {
		t.Error("ConvertCohort should default to true")
	}
	if a.AddCohort {
		t.Error("AddCohort should default to false")
	}
}

func TestExpand_SingleTarget(t *testing.T) {
	o := &Override{Target: "CUR->PRE@FIXED", StartDate: "20240101", Dial: 1.2, Cohort: strptr("2021")}

	atomics, err := Expand(o)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(atomics) != 1 {
		t.Fatalf("len = %d, want 1", len(atomics))
	}
	a := atomics[0]
	if a.Detail != "FIXED" {
		t.Errorf("Detail = %q", a.Detail)
	}
	if a.Cohort == nil || *a.Cohort != "2021" {
		t.Errorf("Cohort = %v", a.Cohort)
	}
}

func TestExpand_Targets(t *testing.T) {
	o := &Override{
		Targets: []Target{
			NewCompactTarget("CUR", "DEF", ""),
			NewTarget("DLQ", "CUR", "ARM"),
		},
		StartDate: "20240101",
		Dial:      1.1,
	}

	atomics, err := Expand(o)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(atomics) != 2 {
		t.Fatalf("len = %d, want 2", len(atomics))
	}
	if atomics[0].Shorthand() != "CUR->DEF" {
		t.Errorf("atomics[0] = %q", atomics[0].Shorthand())
	}
	if atomics[1].Shorthand() != "DLQ->CUR@ARM" {
		t.Errorf("atomics[1] = %q", atomics[1].Shorthand())
	}
	for _, a := range atomics {
		if a.Dial != 1.1 || a.StartDate != "20240101" {
			t.Errorf("shared fields not merged: %+v", a)
		}
	}
}

func TestExpand_OuterDetailCarriesThrough(t *testing.T) {
	o := &Override{
		Targets:   []Target{NewCompactTarget("CUR", "DEF", "")},
		Detail:    "FIXED",
		StartDate: "20240101",
		Dial:      1.1,
	}
	atomics, err := Expand(o)
	if err != nil {
		t.Fatal(err)
	}
	if atomics[0].Detail != "FIXED" {
		t.Errorf("Detail = %q, want outer detail to carry through", atomics[0].Detail)
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		o       *Override
		wantErr error
	}{
		{
			name: "target and targets conflict",
			o: &Override{
				Target:    "CUR->DEF",
				Targets:   []Target{NewCompactTarget("DLQ", "CUR", "")},
				StartDate: "20240101", Dial: 1.1,
			},
			wantErr: dialerrors.ErrConflictingTargets,
		},
		{
			name: "targets with outer state",
			o: &Override{
				Targets:   []Target{NewCompactTarget("DLQ", "CUR", "")},
				State:     "CUR",
				StartDate: "20240101", Dial: 1.1,
			},
			wantErr: dialerrors.ErrAmbiguousOverride,
		},
		{
			name: "target with outer transition",
			o: &Override{
				Target:     "CUR->DEF",
				Transition: "DEF",
				StartDate:  "20240101", Dial: 1.1,
			},
			wantErr: dialerrors.ErrAmbiguousOverride,
		},
		{
			name:    "malformed shorthand target",
			o:       &Override{Target: "CURDEF", StartDate: "20240101", Dial: 1.1},
			wantErr: dialerrors.ErrMalformedShorthand,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.o)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expand() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpand_ExplicitEmptyTargets(t *testing.T) {
	var o Override
	raw := `{"targets": [], "state": "CUR", "transition": "DEF", "start_date": "20240101", "dial": 1.1}`
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, err := Expand(&o); !errors.Is(err, dialerrors.ErrAmbiguousOverride) {
		t.Errorf("Expand() error = %v, want ErrAmbiguousOverride", err)
	}

	o = Override{}
	if err := json.Unmarshal([]byte(`{"targets": [], "start_date": "20240101", "dial": 1.1}`), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, err := Expand(&o); err == nil || !strings.Contains(err.Error(), "must not be empty") {
		t.Errorf("Expand() error = %v, want empty-targets error", err)
	}
}

func TestExpand_NullTargetsIsInline(t *testing.T) {
	var o Override
	raw := `{"targets": null, "state": "CUR", "transition": "DEF", "start_date": "20240101", "dial": 1.1}`
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	got, err := Expand(&o)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(got) != 1 || got[0].Shorthand() != "CUR->DEF" {
		t.Errorf("atomics = %+v", got)
	}
}

func TestExpand_MissingFields(t *testing.T) {
	if _, err := Expand(&Override{StartDate: "20240101", Dial: 1.1}); err == nil {
		t.Error("expected error for override with no address")
	}
	if _, err := Expand(&Override{State: "CUR", Transition: "DEF", Dial: 1.1}); err == nil {
		t.Error("expected error for override with no start_date")
	}
	if _, err := Expand(&Override{State: "CUR", Transition: "DEF", StartDate: "20240101"}); err == nil {
		t.Error("expected error for override with no dial")
	}
}

func TestExpand_ConvertCohortExplicitFalse(t *testing.T) {
	o := &Override{
		State: "CUR", Transition: "DEF",
		StartDate: "20240101", Dial: 1.1,
		Cohort:        strptr("2021"),
		ConvertCohort: boolptr(false),
	}
	atomics, err := Expand(o)
	if err != nil {
		t.Fatal(err)
	}
	if atomics[0].ConvertCohort {
		t.Error("explicit convert_cohort=false must be honored")
	}
}
