package tracking

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/quantresi/dialctl/internal/config"
)

// Summarizer drives the tracking-summary flow: per dealtype it locates the
// latest Dialed and Undialed workbooks, extracts their summary rows, and
// derives the dial table.
type Summarizer struct {
	cfg *config.TrackingConfig
	log *slog.Logger
}

// New builds a Summarizer. Overrides maps report labels to explicit
// workbook paths, bypassing latest-file discovery for that label.
func New(cfg *config.TrackingConfig, logger *slog.Logger) *Summarizer {
	return &Summarizer{cfg: cfg, log: logger}
}

// reportLabels returns the configured report labels in deterministic order.
func (s *Summarizer) reportLabels() []string {
	labels := make([]string, 0, len(s.cfg.ReportDirs))
	for label := range s.cfg.ReportDirs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// BuildDealtype extracts and joins one dealtype's summary rows.
func (s *Summarizer) BuildDealtype(dealtype string) ([]RatioRow, error) {
	var rows []Row
	for _, label := range s.reportLabels() {
		baseDir := s.cfg.ReportDirs[label]
		path, err := FindLatestReport(dealtype, baseDir)
		if err != nil {
			return nil, errors.Wrapf(err, "locating %s report", reportLabel(label, dealtype))
		}
		s.log.Debug("using tracking workbook",
			"dealtype", dealtype, "report", label, "path", path)

		extracted, err := ExtractSummaryRows(path, s.cfg.BucketType, s.cfg.StatusSheets, s.cfg.ExcludeSheets)
		if err != nil {
			return nil, err
		}
		for i := range extracted {
			extracted[i].Report = label
		}
		rows = append(rows, extracted...)
	}

	if len(rows) == 0 {
		return nil, errors.Newf("no summary rows found for dealtype %q", dealtype)
	}
	return BuildDialRatio(rows, s.cfg.ErrorWindow)
}

// Run processes every requested dealtype and writes the combined workbook
// under outDir. A dealtype that fails is logged and skipped; the run as a
// whole fails only when nothing could be produced.
func (s *Summarizer) Run(dealtypes []string, outDir string) (string, error) {
	if len(dealtypes) == 0 {
		dealtypes = s.cfg.Dealtypes
	}

	var sheets []SheetResult
	for _, dealtype := range dealtypes {
		rows, err := s.BuildDealtype(dealtype)
		if err != nil {
			s.log.Warn("skipping dealtype", "dealtype", dealtype, "error", err)
			continue
		}
		sheets = append(sheets, SheetResult{Dealtype: dealtype, Rows: rows})
		s.log.Info("processed dealtype", "dealtype", dealtype, "rows", len(rows))
	}

	if len(sheets) == 0 {
		return "", errors.New("no dealtype produced a dial table")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating output directory %s", outDir)
	}

	windowLabel := config.NormalizeErrorWindow(s.cfg.ErrorWindow)
	if windowLabel == "" {
		windowLabel = "ALL"
	}
	outputPath := filepath.Join(outDir, "dial_ratio_by_deal_"+windowLabel+".xlsx")
	if err := WriteWorkbook(outputPath, sheets); err != nil {
		return "", err
	}
	return outputPath, nil
}
