package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/quantresi/dialctl/internal/engine"
	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/logging"
	"github.com/quantresi/dialctl/internal/model"
	"github.com/quantresi/dialctl/internal/specfile"
	"github.com/quantresi/dialctl/internal/version"
)

var (
	runSpecFlag    string
	runModelFlag   string
	runPickFlag    bool
	runInputFlag   string
	runOutputFlag  string
	runVersionFlag string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSpecFlag, "spec", "", "path to the override spec file (required)")
	runCmd.Flags().StringVar(&runModelFlag, "model", "", "model key within spec.models")
	runCmd.Flags().BoolVar(&runPickFlag, "pick", false, "pick the model interactively")
	runCmd.Flags().StringVar(&runInputFlag, "input", "", "model document to dial (overrides the spec)")
	runCmd.Flags().StringVar(&runOutputFlag, "output", "", "where to write the dialed document (overrides the spec)")
	runCmd.Flags().StringVar(&runVersionFlag, "version", "", "version to stamp (overrides the spec; default bumps the document's version)")
	_ = runCmd.MarkFlagRequired("spec")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply an override spec to a model document",
	Long: `Apply the dial overrides of a spec file to a model document.

The spec file is either a list of overrides, an object carrying input,
output, and version defaults alongside the overrides, or a
{"models": {...}} object keyed by model. Command-line flags override the
spec file's values.

When no version is given, the document's root version is bumped. Every
Version field in the document is rewritten with the resolved version,
and the output filename picks it up too. Nothing is written unless the
whole batch applies cleanly.`,
	Example: `  # Apply a single-model spec
  dialctl run --spec overrides.json

  # Select one model from a multi-model spec
  dialctl run --spec overrides.json --model stacr

  # Pick the model interactively
  dialctl run --spec overrides.json --pick

  # Force the stamped version
  dialctl run --spec overrides.json --version v2.0.0`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	return runRunWithWriter(cmd, os.Stdout)
}

func runRunWithWriter(cmd *cobra.Command, w io.Writer) error {
	log := logging.FromContext(cmd.Context())

	raw, err := specfile.Load(runSpecFlag)
	if err != nil {
		return err
	}

	modelKey := runModelFlag
	if runPickFlag && modelKey == "" {
		modelKey, err = pickModel(raw)
		if err != nil {
			return err
		}
	}

	spec, err := specfile.Resolve(raw, modelKey)
	if err != nil {
		return dialerrors.NewUserError(err, "Run 'dialctl run --pick' to choose a model interactively")
	}
	if err := spec.RequireOverrides(); err != nil {
		return dialerrors.NewUserError(err, "Add overrides to the spec, or generate one with 'dialctl generate'")
	}

	inputPath := spec.Input
	if runInputFlag != "" {
		inputPath = runInputFlag
	}
	if inputPath == "" {
		return dialerrors.NewUserError(errors.New("no input document"),
			"Set input in the spec file or pass --input")
	}

	doc, err := model.Load(inputPath)
	if err != nil {
		return err
	}

	ver, err := resolveVersion(doc, spec.Version, runVersionFlag)
	if err != nil {
		return err
	}

	outputPath := spec.Output
	if runOutputFlag != "" {
		outputPath = runOutputFlag
	}
	if outputPath == "" {
		outputPath = specfile.DefaultOutputPath(inputPath, ver)
	}

	log.Debug("applying overrides",
		"input", inputPath, "output", outputPath, "version", ver, "overrides", len(spec.Overrides))

	if err := engine.Apply(doc, spec.Overrides, engine.ApplyOptions{
		FlatMonths: cfg.Dial.FlatMonths,
		RampMonths: cfg.Dial.RampMonths,
	}); err != nil {
		return err
	}
	doc.RewriteVersions(ver)

	if err := doc.Save(outputPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s✓ Wrote %s%s\n", colorGreen, outputPath, colorReset)
	return nil
}

// resolveVersion picks the version to stamp: the CLI flag wins, then the
// spec file's value, then a bump of the document's root version.
func resolveVersion(doc *model.Document, specVersion, flagVersion string) (string, error) {
	if flagVersion != "" {
		return flagVersion, nil
	}
	if specVersion != "" {
		return specVersion, nil
	}

	rootVersion, ok := doc.RootVersion()
	if !ok {
		return "", dialerrors.NewUserError(errors.New("document carries no root version"),
			"Pass --version to set the version explicitly")
	}
	bumped, err := version.Bump(rootVersion)
	if err != nil {
		return "", dialerrors.NewUserError(err, "Pass --version to set the version explicitly")
	}
	return bumped, nil
}

// pickModel runs the interactive model picker over a multi-model spec.
// Single-model and list specs skip the picker.
func pickModel(raw []byte) (string, error) {
	keys, err := specfile.ModelKeys(raw)
	if err != nil {
		return "", err
	}
	if len(keys) <= 1 {
		return "", nil
	}

	idx, err := fuzzyfinder.Find(keys, func(i int) string { return keys[i] })
	if err != nil {
		return "", errors.Wrap(err, "picking model")
	}
	return keys[idx], nil
}
