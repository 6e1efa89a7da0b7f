package tracking

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// Row is one extracted summary row: either a Status row from a status-only
// sheet or a bucket section's ALL AVG row. Cells are keyed by the column
// names built from the sheet's header rows.
type Row struct {
	Sheet      string
	BucketType string // "STATUS" for status sheets, else the configured bucket type
	Report     string // Dialed / Undialed, tagged by the caller
	Cells      map[string]string
}

// Get returns the trimmed cell value for a column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// ExtractSummaryRows pulls the summary rows out of a tracking workbook.
// Sheets listed in excludeSheets are skipped. Status sheets contribute
// every row with a non-empty Status cell; every other sheet contributes
// the ALL AVG row of the requested bucket section.
func ExtractSummaryRows(path, bucketType string, statusSheets, excludeSheets []string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening tracking workbook %s", path)
	}
	defer f.Close()

	statusSet := upperSet(statusSheets)
	excludeSet := upperSet(excludeSheets)
	bucketUpper := strings.ToUpper(bucketType)

	var summary []Row
	for _, sheet := range f.GetSheetList() {
		if excludeSet[strings.ToUpper(sheet)] {
			continue
		}

		grid, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "reading sheet %s", sheet)
		}

		statusIdx := findStatusRow(grid)
		if statusIdx < 0 {
			continue
		}
		columns := buildColumns(grid, statusIdx)

		if statusSet[strings.ToUpper(sheet)] {
			for _, raw := range grid[statusIdx+1:] {
				row := makeRow(sheet, "STATUS", columns, raw)
				if row.Get("Status") != "" {
					summary = append(summary, row)
				}
			}
			continue
		}

		inSection := false
		for _, raw := range grid[statusIdx+1:] {
			row := makeRow(sheet, bucketType, columns, raw)
			bucketVal := strings.ToUpper(row.Get("Bucket"))

			if strings.Contains(bucketVal, bucketUpper) && !strings.Contains(bucketVal, "ALL AVG") {
				inSection = true
			}
			if inSection && strings.Contains(bucketVal, "ALL AVG") {
				summary = append(summary, row)
				break
			}
			if inSection && (bucketVal == "" ||
				(!strings.Contains(bucketVal, bucketUpper) && !strings.Contains(bucketVal, "ALL AVG"))) {
				inSection = false
			}
		}
	}
	return summary, nil
}

// findStatusRow returns the index of the first row containing a cell equal
// to "Status" (case-insensitive), or -1.
func findStatusRow(grid [][]string) int {
	for i, row := range grid {
		for _, cell := range row {
			if strings.EqualFold(strings.TrimSpace(cell), "Status") {
				return i
			}
		}
	}
	return -1
}

// buildColumns derives column names from the Status header row and the row
// above it. The upper row's merged group labels are forward-filled so a
// label like "6M Error" applies to its Abs/Ratio sub-columns. Names are
// uniquified with a numeric suffix.
func buildColumns(grid [][]string, statusIdx int) []string {
	main := grid[statusIdx]
	var topRaw []string
	if statusIdx > 0 {
		topRaw = grid[statusIdx-1]
	}

	top := make([]string, len(main))
	last := ""
	for i := range main {
		if v := strings.TrimSpace(cellAt(topRaw, i)); v != "" {
			last = v
		}
		top[i] = last
	}

	columns := make([]string, len(main))
	seen := map[string]int{}
	for i := range main {
		base := strings.TrimSpace(main[i])
		name := ""
		switch {
		case top[i] != "" && base != "" && top[i] != base:
			name = top[i] + " " + base
		case base != "":
			name = base
		default:
			name = top[i]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}

func makeRow(sheet, bucketType string, columns, raw []string) Row {
	cells := make(map[string]string, len(columns))
	for i, col := range columns {
		cells[col] = cellAt(raw, i)
	}
	return Row{Sheet: sheet, BucketType: bucketType, Cells: cells}
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func upperSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = true
	}
	return set
}

