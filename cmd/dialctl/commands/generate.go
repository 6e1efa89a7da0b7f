package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/quantresi/dialctl/internal/engine"
	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/logging"
	"github.com/quantresi/dialctl/internal/model"
	"github.com/quantresi/dialctl/internal/specfile"
)

var (
	genOutFlag          string
	genSpecFlag         string
	genModelFlag        string
	genInputFlag        string
	genOutputFlag       string
	genVersionFlag      string
	genGroupByModel     bool
	genVerboseTargets   bool
	genOnlyDials        bool
	genDefaultStartFlag string
	genDefaultDialFlag  float64
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genOutFlag, "out", "", "where to write the generated spec (required)")
	generateCmd.Flags().StringVar(&genSpecFlag, "spec", "", "existing spec file to take input/output/version defaults from")
	generateCmd.Flags().StringVar(&genModelFlag, "model", "", "model key within spec.models")
	generateCmd.Flags().StringVar(&genInputFlag, "input", "", "model document to scan")
	generateCmd.Flags().StringVar(&genOutputFlag, "output", "", "output path recorded in the generated spec")
	generateCmd.Flags().StringVar(&genVersionFlag, "version", "", "version recorded in the generated spec")
	generateCmd.Flags().BoolVar(&genGroupByModel, "group-by-model", false,
		"group overrides sharing a model detail file into multi-target entries")
	generateCmd.Flags().BoolVar(&genVerboseTargets, "verbose-targets", false,
		"use expanded target objects instead of shorthand strings")
	generateCmd.Flags().BoolVar(&genOnlyDials, "only-dials", false,
		"only include transitions that already carry a Shock entry")
	generateCmd.Flags().StringVar(&genDefaultStartFlag, "default-start", "",
		"start date for transitions without a shock")
	generateCmd.Flags().Float64Var(&genDefaultDialFlag, "default-dial", 0,
		"dial for transitions without a shock")
	_ = generateCmd.MarkFlagRequired("out")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an override spec covering all transitions",
	Long: `Scan a model document and write the override spec that reproduces
its current shock state. The generated spec covers every transition leaf,
so it doubles as a template: edit the dials and run it back with
'dialctl run'.

The spec is written with a fixed reviewable layout, one override per
line, so successive generations diff cleanly.`,
	Example: `  # Cover every transition of a model
  dialctl generate --out overrides.json --input model_v1.8.0.json

  # Only transitions that already have dials, grouped by model file
  dialctl generate --out overrides.json --input model_v1.8.0.json \
    --only-dials --group-by-model`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	return runGenerateWithWriter(cmd, os.Stdout)
}

func runGenerateWithWriter(cmd *cobra.Command, w io.Writer) error {
	log := logging.FromContext(cmd.Context())

	inputPath, outputPath, ver := genInputFlag, genOutputFlag, genVersionFlag
	if genSpecFlag != "" {
		raw, err := specfile.Load(genSpecFlag)
		if err != nil {
			return err
		}
		base, err := specfile.Resolve(raw, genModelFlag)
		if err != nil {
			return err
		}
		if inputPath == "" {
			inputPath = base.Input
		}
		if outputPath == "" {
			outputPath = base.Output
		}
		if ver == "" {
			ver = base.Version
		}
	}
	if inputPath == "" {
		return dialerrors.NewUserError(errors.New("no input document"),
			"Pass --input or point --spec at a spec file that sets one")
	}

	doc, err := model.Load(inputPath)
	if err != nil {
		return err
	}

	ver, err = resolveVersion(doc, ver, "")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = specfile.DefaultOutputPath(inputPath, ver)
	}

	startDate := genDefaultStartFlag
	if startDate == "" {
		startDate = cfg.Generate.DefaultStartDate
	}
	defaultDial := genDefaultDialFlag
	if defaultDial == 0 {
		defaultDial = cfg.Generate.DefaultDial
	}

	overrides := engine.Generate(doc, engine.GenerateOptions{
		DefaultStartDate:   startDate,
		DefaultDial:        defaultDial,
		OnlyWithShock:      genOnlyDials,
		GroupByModelDetail: genGroupByModel,
		CompactTargets:     !genVerboseTargets,
	})
	log.Debug("generated overrides", "input", inputPath, "count", len(overrides))

	spec := &specfile.Spec{
		Input:     inputPath,
		Output:    outputPath,
		Overrides: overrides,
		Version:   ver,
	}
	if err := specfile.Save(spec, genOutFlag); err != nil {
		return err
	}

	if len(overrides) == 0 {
		fmt.Fprintf(w, "%s⚠ No transitions matched; wrote an empty spec%s\n", colorYellow, colorReset)
	}
	fmt.Fprintf(w, "%s✓ Wrote %s (%d overrides)%s\n", colorGreen, genOutFlag, len(overrides), colorReset)
	return nil
}
