package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/logging"
	"github.com/quantresi/dialctl/internal/paths"
	"github.com/quantresi/dialctl/internal/tracking"
)

var (
	summaryDealtypes []string
	summaryBucket    string
	summaryWindow    string
	summaryOutDir    string
)

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringSliceVar(&summaryDealtypes, "dealtype", nil,
		"dealtype(s) to summarize (default: all configured)")
	summaryCmd.Flags().StringVar(&summaryBucket, "bucket", "",
		"bucket section to extract (WAC, AGE, FICO, ...)")
	summaryCmd.Flags().StringVar(&summaryWindow, "window", "",
		"error window for the derived dials (3M, 6M, 12M)")
	summaryCmd.Flags().StringVar(&summaryOutDir, "out", "",
		"output directory for the summary workbook")
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize tracking workbooks into a dial table",
	Long: `Build the dial summary from the latest tracking workbooks.

For each dealtype the latest Dialed and Undialed workbooks are located
in the configured report directories, their summary rows extracted and
joined, and the current, implied, and proposed dials derived for the
chosen error window. The result is one formatted sheet per dealtype.

A dealtype whose reports are missing or unreadable is logged and
skipped; the run fails only when no dealtype produces a table.`,
	Example: `  # Summarize all configured dealtypes
  dialctl summary

  # One dealtype, a different error window
  dialctl summary --dealtype STACR --window 3M`,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return runSummaryWithWriter(cmd, os.Stdout)
}

func runSummaryWithWriter(cmd *cobra.Command, w io.Writer) error {
	if len(cfg.Tracking.ReportDirs) == 0 {
		return dialerrors.NewUserError(errors.New("no tracking report directories configured"),
			"Set tracking.report_dirs in your dialctl config (labels Dialed and Undialed)")
	}

	trackingCfg := cfg.Tracking
	if summaryBucket != "" {
		trackingCfg.BucketType = summaryBucket
	}
	if summaryWindow != "" {
		trackingCfg.ErrorWindow = summaryWindow
	}
	outDir := summaryOutDir
	if outDir == "" {
		outDir = paths.OutputDir()
	}

	s := tracking.New(&trackingCfg, logging.FromContext(cmd.Context()))
	outPath, err := s.Run(summaryDealtypes, outDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s✓ Wrote %s%s\n", colorGreen, outPath, colorReset)
	return nil
}
