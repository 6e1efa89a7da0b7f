package version

import (
	"errors"
	"testing"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Parts
		wantErr bool
	}{
		{
			name: "plain three segments",
			in:   "1.8.0",
			want: Parts{Major: "1", Minor: "8", Patch: "0"},
		},
		{
			name: "v prefix on major",
			in:   "v1.8.0",
			want: Parts{Prefix: "v", Major: "1", Minor: "8", Patch: "0"},
		},
		{
			name: "v prefix on patch",
			in:   "1.2.v3",
			want: Parts{Major: "1", Minor: "2", PatchPrefix: "v", Patch: "3"},
		},
		{
			name: "four segments",
			in:   "1.2.3.4",
			want: Parts{Major: "1", Minor: "2", Patch: "3", Extra: "4"},
		},
		{
			name: "uppercase prefixes everywhere",
			in:   "V2.0.V1.v7",
			want: Parts{Prefix: "V", Major: "2", Minor: "0", PatchPrefix: "V", Patch: "1", ExtraPrefix: "v", Extra: "7"},
		},
		{
			name: "surrounding whitespace",
			in:   "  v1.8.0  ",
			want: Parts{Prefix: "v", Major: "1", Minor: "8", Patch: "0"},
		},
		{name: "two segments", in: "1.8", wantErr: true},
		{name: "trailing junk", in: "1.8.0-rc1", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "prefix on minor", in: "1.v8.0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Split(%q) expected error", tt.in)
				}
				if !errors.Is(err, dialerrors.ErrUnrecognizedVersion) {
					t.Errorf("error should wrap ErrUnrecognizedVersion, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Split(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParts_String_RoundTrip(t *testing.T) {
	for _, in := range []string{"1.8.0", "v1.8.0", "1.2.v3", "1.2.3.4", "V2.0.V1.v7"} {
		p, err := Split(in)
		if err != nil {
			t.Fatalf("Split(%q) error = %v", in, err)
		}
		if got := p.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestBump(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"v1.8.0", "v1.8.1"},
		{"1.2.3.4", "1.2.3.5"},
		{"1.2.v3", "1.2.v4"},
		{"V1.0.9", "V1.0.10"},
		{"1.2.3.v9", "1.2.3.v10"},
	}
	for _, tt := range tests {
		got, err := Bump(tt.in)
		if err != nil {
			t.Fatalf("Bump(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Bump(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBump_Unrecognized(t *testing.T) {
	if _, err := Bump("not-a-version"); !errors.Is(err, dialerrors.ErrUnrecognizedVersion) {
		t.Errorf("expected ErrUnrecognizedVersion, got %v", err)
	}
}

func TestReplaceInFilename(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		version   string
		want      string
		wantFound bool
	}{
		{
			name:      "replaces embedded version",
			file:      "stacr_v1.8.0.json",
			version:   "v1.8.1",
			want:      "stacr_v1.8.1.json",
			wantFound: true,
		},
		{
			name:      "replaces first match only",
			file:      "model_1.0.0_backup_2.0.0.json",
			version:   "3.0.0",
			want:      "model_3.0.0_backup_2.0.0.json",
			wantFound: true,
		},
		{
			name:      "no version in name",
			file:      "model.json",
			version:   "v1.8.1",
			wantFound: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := ReplaceInFilename(tt.file, tt.version)
			if err != nil {
				t.Fatalf("ReplaceInFilename() error = %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("ReplaceInFilename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceInFilename_InvalidVersion(t *testing.T) {
	if _, _, err := ReplaceInFilename("model.json", "nope"); !errors.Is(err, dialerrors.ErrUnrecognizedVersion) {
		t.Errorf("expected ErrUnrecognizedVersion, got %v", err)
	}
}
