package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/quantresi/dialctl/internal/config"
	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/logging"
)

const testModel = `{
    "Key": {"Dealtype": "STACR", "Version": "v1.0.0"},
    "State": {
        "CUR": {
            "Version": "v1.0.0",
            "Transitions": {
                "DEF": {},
                "PRE": {
                    "Detail": {
                        "FIXED": {"Shock": {"StartDate": "20230601", "Detail": "1.2x for 48 1x"}}
                    }
                }
            }
        }
    }
}`

// testCommand builds a cobra command whose context carries a test logger.
func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(logging.NewContext(context.Background(), logging.ForTest(t)))
	return cmd
}

func resetFlags(t *testing.T) {
	t.Helper()
	cfg = config.Default()
	runSpecFlag, runModelFlag, runInputFlag, runOutputFlag, runVersionFlag = "", "", "", "", ""
	runPickFlag = false
	genOutFlag, genSpecFlag, genModelFlag, genInputFlag, genOutputFlag, genVersionFlag = "", "", "", "", "", ""
	genGroupByModel, genVerboseTargets, genOnlyDials = false, false, false
	genDefaultStartFlag, genDefaultDialFlag = "", 0
	summaryDealtypes, summaryBucket, summaryWindow, summaryOutDir = nil, "", "", ""
}

func TestRootCommand_Metadata(t *testing.T) {
	if rootCmd.Use != "dialctl" {
		t.Errorf("Use = %q", rootCmd.Use)
	}
	if rootCmd.Version != cliVersion {
		t.Errorf("Version = %q, want %q", rootCmd.Version, cliVersion)
	}
	for _, flag := range []string{"verbose", "quiet", "log-format", "log-file", "config"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestRunCommand_Metadata(t *testing.T) {
	if runCmd.Use != "run" {
		t.Errorf("Use = %q", runCmd.Use)
	}
	for _, flag := range []string{"spec", "model", "pick", "input", "output", "version"} {
		if runCmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestGenerateCommand_Metadata(t *testing.T) {
	if generateCmd.Use != "generate" {
		t.Errorf("Use = %q", generateCmd.Use)
	}
	for _, flag := range []string{"out", "group-by-model", "verbose-targets", "only-dials", "default-start", "default-dial"} {
		if generateCmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestSummaryCommand_Metadata(t *testing.T) {
	if summaryCmd.Use != "summary" {
		t.Errorf("Use = %q", summaryCmd.Use)
	}
	for _, flag := range []string{"dealtype", "bucket", "window", "out"} {
		if summaryCmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s flag should be defined", flag)
		}
	}
}

func TestRunBump(t *testing.T) {
	var buf bytes.Buffer
	if err := runBumpWithWriter(&buf, "v1.8.0"); err != nil {
		t.Fatalf("runBumpWithWriter() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "v1.8.1" {
		t.Errorf("output = %q", got)
	}
}

func TestRunBump_Unrecognized(t *testing.T) {
	var buf bytes.Buffer
	err := runBumpWithWriter(&buf, "not-a-version")
	if !errors.Is(err, dialerrors.ErrUnrecognizedVersion) {
		t.Fatalf("error = %v, want ErrUnrecognizedVersion", err)
	}
	var exitErr *dialerrors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Suggestion == "" {
		t.Errorf("bump failure should carry a suggestion: %v", err)
	}
}

func TestRunRun_EndToEnd(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	modelPath := filepath.Join(dir, "model_v1.0.0.json")
	if err := os.WriteFile(modelPath, []byte(testModel), 0o644); err != nil {
		t.Fatal(err)
	}
	specPath := filepath.Join(dir, "spec.json")
	spec := `{"input": ` + jsonString(modelPath) + `, "overrides": [{"target": "CUR->DEF", "start_date": "20240101", "dial": 1.05}]}`
	if err := os.WriteFile(specPath, []byte(spec), 0o644); err != nil {
		t.Fatal(err)
	}

	runSpecFlag = specPath
	var buf bytes.Buffer
	if err := runRunWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("runRunWithWriter() error = %v", err)
	}

	outPath := filepath.Join(dir, "model_v1.0.1.json")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output document not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "1.05x for 48 ") {
		t.Error("output should carry the applied dial schedule")
	}
	if !strings.Contains(out, `"v1.0.1"`) || strings.Contains(out, `"v1.0.0"`) {
		t.Error("every version field should be rewritten to the bumped version")
	}
	if !strings.Contains(buf.String(), outPath) {
		t.Errorf("command output = %q", buf.String())
	}
}

func TestRunRun_FailedBatchWritesNothing(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	modelPath := filepath.Join(dir, "model_v1.0.0.json")
	if err := os.WriteFile(modelPath, []byte(testModel), 0o644); err != nil {
		t.Fatal(err)
	}
	specPath := filepath.Join(dir, "spec.json")
	spec := `{"input": ` + jsonString(modelPath) + `, "overrides": [
        {"target": "CUR->DEF", "start_date": "20240101", "dial": 1.05},
        {"target": "NOPE->DEF", "start_date": "20240101", "dial": 1.05}
    ]}`
	if err := os.WriteFile(specPath, []byte(spec), 0o644); err != nil {
		t.Fatal(err)
	}

	runSpecFlag = specPath
	err := runRunWithWriter(testCommand(t), &bytes.Buffer{})
	if !errors.Is(err, dialerrors.ErrPathNotFound) {
		t.Fatalf("error = %v, want ErrPathNotFound", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "model_v1.0.1.json")); !os.IsNotExist(statErr) {
		t.Error("failed batch must not write the output document")
	}
}

func TestRunRun_EmptySpec(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	specPath := filepath.Join(dir, "spec.json")
	if err := os.WriteFile(specPath, []byte(`{"overrides": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	runSpecFlag = specPath
	err := runRunWithWriter(testCommand(t), &bytes.Buffer{})
	if !errors.Is(err, dialerrors.ErrEmptySpec) {
		t.Fatalf("error = %v, want ErrEmptySpec", err)
	}
}

func TestRunGenerate_EndToEnd(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	modelPath := filepath.Join(dir, "model_v1.0.0.json")
	if err := os.WriteFile(modelPath, []byte(testModel), 0o644); err != nil {
		t.Fatal(err)
	}

	genInputFlag = modelPath
	genOutFlag = filepath.Join(dir, "generated.json")
	var buf bytes.Buffer
	if err := runGenerateWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("runGenerateWithWriter() error = %v", err)
	}

	data, err := os.ReadFile(genOutFlag)
	if err != nil {
		t.Fatalf("spec not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"target":"CUR->PRE@FIXED"`) {
		t.Errorf("generated spec should cover the shocked leaf:\n%s", out)
	}
	if !strings.Contains(out, `"version": "v1.0.1"`) {
		t.Errorf("generated spec should carry the bumped version:\n%s", out)
	}
}

func TestRunGenerate_WarnsOnEmptyResult(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	bare := `{"Key": {"Dealtype": "STACR", "Version": "v1.0.0"},
        "State": {"CUR": {"Transitions": {"DEF": {}}}}}`
	modelPath := filepath.Join(dir, "model_v1.0.0.json")
	if err := os.WriteFile(modelPath, []byte(bare), 0o644); err != nil {
		t.Fatal(err)
	}

	genInputFlag = modelPath
	genOutFlag = filepath.Join(dir, "generated.json")
	genOnlyDials = true
	var buf bytes.Buffer
	if err := runGenerateWithWriter(testCommand(t), &buf); err != nil {
		t.Fatalf("runGenerateWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No transitions matched") {
		t.Errorf("output = %q, want empty-result warning", buf.String())
	}
	if _, err := os.Stat(genOutFlag); err != nil {
		t.Errorf("empty spec should still be written: %v", err)
	}
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
