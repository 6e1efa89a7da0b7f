package tracking

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/quantresi/dialctl/internal/config"
	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

// RatioRow is one line of the derived dial table: a Dialed summary row
// joined with its Undialed counterpart.
//
//	Actual       = abs error / (ratio - 1)   back-solved actual rate
//	ModelDialed  = Actual * ratio            dialed model's rate
//	CurrentDial  = ModelDialed / ModelUndialed
//	ImpliedDial  = Actual / ModelUndialed
//
// ProposedDial starts as ImpliedDial; the written workbook leaves it
// editable next to the diff column.
type RatioRow struct {
	Sheet      string
	BucketType string
	Status     string
	Transition string
	Bucket     string

	AvgBal  string
	LoanNum string

	ModelDialed      float64
	ModelUndialed    float64
	Actual           float64
	DialedModelRatio float64
	CurrentDial      float64
	ImpliedDial      float64
	ProposedDial     float64
	DialDiff         float64
}

type joinKey struct {
	sheet, bucketType, status, transition, bucket string
}

func (r Row) key() joinKey {
	return joinKey{
		sheet:      r.Sheet,
		bucketType: r.BucketType,
		status:     r.Get("Status"),
		transition: r.Get("Transition"),
		bucket:     r.Get("Bucket"),
	}
}

// BuildDialRatio joins the Dialed and Undialed summary rows on their
// (sheet, bucket type, status, transition, bucket) key and derives the
// current, implied, and proposed dials for the requested error window.
// Both report sides must be present; otherwise the error lists the report
// labels that were available.
func BuildDialRatio(rows []Row, errorWindow string) ([]RatioRow, error) {
	window := config.NormalizeErrorWindow(errorWindow)
	if window == "" {
		return nil, errors.New("an error window is required to derive dials")
	}
	absCol := window + " Error Abs"
	ratioCol := window + " Error Ratio"

	var dialed []Row
	undialed := make(map[joinKey]Row)
	available := map[string]bool{}
	for _, row := range rows {
		label := strings.ToLower(strings.TrimSpace(row.Report))
		if label != "" {
			available[label] = true
		}
		switch label {
		case "dialed":
			dialed = append(dialed, row)
		case "undialed":
			if _, dup := undialed[row.key()]; !dup {
				undialed[row.key()] = row
			}
		}
	}

	if len(dialed) == 0 || len(undialed) == 0 {
		labels := make([]string, 0, len(available))
		for l := range available {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		return nil, errors.Wrapf(dialerrors.ErrMissingReports,
			"need both Dialed and Undialed reports, have: [%s]", strings.Join(labels, ", "))
	}

	var result []RatioRow
	sawWindow := false
	for _, d := range dialed {
		u, ok := undialed[d.key()]
		if !ok {
			continue
		}

		dModel, dActual, dRatio, ok := deriveModel(d, absCol, ratioCol)
		if !ok {
			continue
		}
		sawWindow = true
		uModel, _, _, ok := deriveModel(u, absCol, ratioCol)
		if !ok {
			continue
		}

		row := RatioRow{
			Sheet:            d.Sheet,
			BucketType:       d.BucketType,
			Status:           d.Get("Status"),
			Transition:       d.Get("Transition"),
			Bucket:           d.Get("Bucket"),
			AvgBal:           d.Get("Avg Bal"),
			LoanNum:          d.Get("Loan Num"),
			ModelDialed:      dModel,
			ModelUndialed:    uModel,
			Actual:           dActual,
			DialedModelRatio: dRatio,
		}
		row.CurrentDial = dModel / uModel
		row.ImpliedDial = dActual / uModel
		row.ProposedDial = row.ImpliedDial
		row.DialDiff = row.ProposedDial - row.CurrentDial
		result = append(result, row)
	}

	if !sawWindow {
		return nil, errors.Newf("no %q or %q columns in the extracted rows", absCol, ratioCol)
	}
	return result, nil
}

// deriveModel back-solves the actual and model rates from a row's error
// columns. A ratio of exactly 1 has no solvable actual rate and yields NaN.
func deriveModel(r Row, absCol, ratioCol string) (model, actual, ratio float64, ok bool) {
	absVal, err1 := strconv.ParseFloat(r.Get(absCol), 64)
	ratio, err2 := strconv.ParseFloat(r.Get(ratioCol), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false
	}
	denom := ratio - 1
	if denom == 0 {
		return math.NaN(), math.NaN(), ratio, true
	}
	actual = absVal / denom
	return actual * ratio, actual, ratio, true
}
