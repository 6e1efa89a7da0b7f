package tracking

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

// diffColumn carries a live formula (Proposed - Current) so the proposed
// dial stays editable in the written workbook.
const diffColumn = "Dial Diff (New - Current)"

var ratioColumns = []string{
	"Sheet",
	"Bucket_Type",
	"Status",
	"Transition",
	"Bucket",
	"Avg Bal",
	"Loan Num",
	"Model_Dialed",
	"Model_Undialed",
	"Actual",
	"Dialed Model Ratio",
	"Current_Dial",
	"Implied_Dial",
	"Proposed_Dial",
	diffColumn,
}

var columnNumFmt = map[string]string{
	"Avg Bal":            "#,##0",
	"Loan Num":           "#,##0",
	"Model_Dialed":       "0.00",
	"Model_Undialed":     "0.00",
	"Actual":             "0.000",
	"Dialed Model Ratio": "0.000",
	"Current_Dial":       "0.000",
	"Implied_Dial":       "0.000",
	"Proposed_Dial":      "0.000",
	diffColumn:           "0.00",
}

// SheetResult is one dealtype's derived dial table, written as its own
// sheet in the output workbook.
type SheetResult struct {
	Dealtype string
	Rows     []RatioRow
}

// WriteWorkbook renders the dial tables into one formatted workbook: a
// merged title row and styled header per sheet, banded data rows, frozen
// panes with an autofilter, per-column number formats, the diff formula,
// and 3-color scales on the diff, loan count, and ratio columns.
func WriteWorkbook(path string, sheets []SheetResult) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	for i, sr := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sr.Dealtype); err != nil {
				return errors.Wrapf(err, "naming sheet %s", sr.Dealtype)
			}
		} else if _, err := f.NewSheet(sr.Dealtype); err != nil {
			return errors.Wrapf(err, "adding sheet %s", sr.Dealtype)
		}
		if err := writeSheet(f, styles, sr); err != nil {
			return errors.Wrapf(err, "writing sheet %s", sr.Dealtype)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving workbook %s", path)
	}
	return nil
}

const (
	titleRow     = 1
	headerRow    = 2
	dataStartRow = 3
)

func writeSheet(f *excelize.File, styles *workbookStyles, sr SheetResult) error {
	sheet := sr.Dealtype
	lastCol, err := excelize.ColumnNumberToName(len(ratioColumns))
	if err != nil {
		return err
	}

	// Title row
	if err := f.SetCellValue(sheet, "A1", sr.Dealtype); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", styles.title); err != nil {
		return err
	}

	// Header row
	for c, name := range ratioColumns {
		cell, err := excelize.CoordinatesToCellName(c+1, headerRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A"+strconv.Itoa(headerRow), lastCol+strconv.Itoa(headerRow), styles.header); err != nil {
		return err
	}

	// Data rows
	for r, row := range sr.Rows {
		rowIdx := dataStartRow + r
		banded := rowIdx%2 == 0
		for c, name := range ratioColumns {
			cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err != nil {
				return err
			}
			if name != diffColumn {
				if err := f.SetCellValue(sheet, cell, columnValue(row, name)); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles.cell(name, banded)); err != nil {
				return err
			}
		}
	}

	lastRow := dataStartRow + len(sr.Rows) - 1
	if len(sr.Rows) == 0 {
		lastRow = dataStartRow
	}

	// Diff formula: Proposed_Dial - Current_Dial per row
	proposedLetter := columnLetter("Proposed_Dial")
	currentLetter := columnLetter("Current_Dial")
	diffLetter := columnLetter(diffColumn)
	for r := range sr.Rows {
		rowIdx := dataStartRow + r
		formula := fmt.Sprintf("%s%d-%s%d", proposedLetter, rowIdx, currentLetter, rowIdx)
		if err := f.SetCellFormula(sheet, fmt.Sprintf("%s%d", diffLetter, rowIdx), formula); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", dataStartRow),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A%d:%s%d", headerRow, lastCol, lastRow), nil); err != nil {
		return err
	}

	if err := setColumnWidths(f, sheet, sr.Rows); err != nil {
		return err
	}
	return setColorScales(f, sheet, lastRow)
}

// columnValue maps a RatioRow field onto its output column. The two
// reference columns pass through as numbers when they parse.
func columnValue(r RatioRow, column string) any {
	switch column {
	case "Sheet":
		return r.Sheet
	case "Bucket_Type":
		return r.BucketType
	case "Status":
		return r.Status
	case "Transition":
		return r.Transition
	case "Bucket":
		return r.Bucket
	case "Avg Bal":
		return numericOrString(r.AvgBal)
	case "Loan Num":
		return numericOrString(r.LoanNum)
	case "Model_Dialed":
		return r.ModelDialed
	case "Model_Undialed":
		return r.ModelUndialed
	case "Actual":
		return r.Actual
	case "Dialed Model Ratio":
		return r.DialedModelRatio
	case "Current_Dial":
		return r.CurrentDial
	case "Implied_Dial":
		return r.ImpliedDial
	case "Proposed_Dial":
		return r.ProposedDial
	default:
		return nil
	}
}

func numericOrString(v string) any {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

func columnLetter(name string) string {
	for i, col := range ratioColumns {
		if col == name {
			letter, _ := excelize.ColumnNumberToName(i + 1)
			return letter
		}
	}
	return ""
}

func setColumnWidths(f *excelize.File, sheet string, rows []RatioRow) error {
	const sampleRows = 50
	for c, name := range ratioColumns {
		maxLen := len(name)
		for r, row := range rows {
			if r >= sampleRows {
				break
			}
			if l := len(fmt.Sprint(columnValue(row, name))); l > maxLen {
				maxLen = l
			}
		}
		width := float64(maxLen + 2)
		if width < 10 {
			width = 10
		}
		if width > 22 {
			width = 22
		}
		letter, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, letter, letter, width); err != nil {
			return err
		}
	}
	return nil
}

func setColorScales(f *excelize.File, sheet string, lastRow int) error {
	scale := func(letter, minType, minValue, midType, midValue, maxType, maxValue string) error {
		rangeRef := fmt.Sprintf("%s%d:%s%d", letter, dataStartRow, letter, lastRow)
		return f.SetConditionalFormat(sheet, rangeRef, []excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  minType, MinValue: minValue, MinColor: "#F8696B",
			MidType: midType, MidValue: midValue, MidColor: "#FFFFFF",
			MaxType: maxType, MaxValue: maxValue, MaxColor: "#63BE7B",
		}})
	}

	if err := scale(columnLetter(diffColumn), "num", "-0.5", "num", "0", "num", "0.5"); err != nil {
		return err
	}
	if err := scale(columnLetter("Loan Num"), "min", "", "percentile", "50", "max", ""); err != nil {
		return err
	}
	// Ratio columns share the 0.6..1.4 scale; the dialed model ratio
	// centers on 1.0, the derived dials on 0.
	if err := scale(columnLetter("Dialed Model Ratio"), "num", "0.6", "num", "1", "num", "1.4"); err != nil {
		return err
	}
	return nil
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "D9D9D9", Style: 1},
		{Type: "right", Color: "D9D9D9", Style: 1},
		{Type: "top", Color: "D9D9D9", Style: 1},
		{Type: "bottom", Color: "D9D9D9", Style: 1},
	}

	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 13},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thin,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building title style")
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"305496"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thin,
	})
	if err != nil {
		return nil, errors.Wrap(err, "building header style")
	}

	ws := &workbookStyles{f: f, title: title, header: header, border: thin, cache: map[cellStyleKey]int{}}
	return ws, nil
}

type cellStyleKey struct {
	numFmt string
	banded bool
}

type workbookStyles struct {
	f      *excelize.File
	title  int
	header int
	border []excelize.Border
	cache  map[cellStyleKey]int
}

// cell returns (building on demand) the style for a data cell: number
// format and right alignment for numeric columns, left alignment
// otherwise, plus the banded-row fill.
func (ws *workbookStyles) cell(column string, banded bool) int {
	key := cellStyleKey{numFmt: columnNumFmt[column], banded: banded}
	if id, ok := ws.cache[key]; ok {
		return id
	}

	style := &excelize.Style{Border: ws.border}
	if key.numFmt != "" {
		fmtStr := key.numFmt
		style.CustomNumFmt = &fmtStr
		style.Alignment = &excelize.Alignment{Horizontal: "right", Vertical: "center"}
	} else {
		style.Alignment = &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	}
	if key.banded {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F7F7F7"}}
	}

	id, err := ws.f.NewStyle(style)
	if err != nil {
		return 0
	}
	ws.cache[key] = id
	return id
}
