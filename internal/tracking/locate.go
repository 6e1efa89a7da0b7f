package tracking

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var reportDateRe = regexp.MustCompile(`(?i)_(\d{8})\.xlsx$`)

// FindLatestReport locates the newest tracking workbook for a dealtype in
// baseDir. Filenames are matched against the two known layouts:
//
//	tracking_*_{DEALTYPE}_YYYYMMDD.xlsx
//	tracking_{DEALTYPE}_*_CRT_YYYYMMDD.xlsx
//
// Candidates carrying a date suffix sort by that date; files without one
// fall back to modification time.
func FindLatestReport(dealtype, baseDir string) (string, error) {
	if _, err := os.Stat(baseDir); err != nil {
		return "", errors.Wrapf(err, "tracking base directory %s", baseDir)
	}

	upper := strings.ToUpper(dealtype)
	candidates, err := filepath.Glob(filepath.Join(baseDir, "tracking_*_"+upper+"_*.xlsx"))
	if err != nil {
		return "", errors.Wrap(err, "globbing tracking files")
	}
	if len(candidates) == 0 {
		candidates, err = filepath.Glob(filepath.Join(baseDir, "tracking_"+upper+"_*_CRT_*.xlsx"))
		if err != nil {
			return "", errors.Wrap(err, "globbing tracking files")
		}
	}
	if len(candidates) == 0 {
		return "", errors.Newf("no tracking files found for dealtype %q in %s", dealtype, baseDir)
	}

	type candidate struct {
		path  string
		date  string
		mtime time.Time
	}
	keyed := make([]candidate, 0, len(candidates))
	for _, path := range candidates {
		c := candidate{path: path}
		if m := reportDateRe.FindStringSubmatch(filepath.Base(path)); m != nil {
			c.date = m[1]
		}
		if info, err := os.Stat(path); err == nil {
			c.mtime = info.ModTime()
		}
		keyed = append(keyed, c)
	}

	sort.Slice(keyed, func(i, j int) bool {
		if keyed[i].date != keyed[j].date {
			return keyed[i].date < keyed[j].date
		}
		return keyed[i].mtime.Before(keyed[j].mtime)
	})
	return keyed[len(keyed)-1].path, nil
}

// reportLabel formats find failures consistently for logs.
func reportLabel(label, dealtype string) string {
	return fmt.Sprintf("%s/%s", dealtype, label)
}
