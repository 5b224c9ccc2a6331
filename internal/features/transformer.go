package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/OldStager01/f1-predictor/pkg/models"
)

// Columns removed before any feature work; they identify the lap but carry
// no signal the model was trained on.
var droppedColumns = []string{"Time", "Driver", "Team", "LapTime"}

// sectorColumns in canonical order; imputation and AvgSectorTime depend on it.
var sectorColumns = []string{"Sector1Time", "Sector2Time", "Sector3Time"}

const (
	compoundColumn     = "Compound"
	compoundPrefix     = "Compound_"
	personalBestColumn = "IsPersonalBest"
	avgSectorColumn    = "AvgSectorTime"
	fastestLapColumn   = "FastestLap"
)

var defaultCompoundCategories = []string{"HARD", "MEDIUM", "SOFT"}

type WarningCode string

const (
	WarnEmptyInput          WarningCode = "empty_input"
	WarnSectorColumnAbsent  WarningCode = "sector_column_absent"
	WarnSectorNotImputable  WarningCode = "sector_not_imputable"
	WarnAvgSectorIncomplete WarningCode = "avg_sector_incomplete"
	WarnFastestLapDefaulted WarningCode = "fastest_lap_defaulted"
	WarnCompoundAbsent      WarningCode = "compound_absent"
	WarnCompoundUnknown     WarningCode = "compound_unknown"
)

// Warning is the transformer's side channel: policy decisions that silently
// shape the feature matrix are reported to the caller instead of logged from
// inside, keeping Transform free of side effects.
type Warning struct {
	Code    WarningCode `json:"code"`
	Column  string      `json:"column,omitempty"`
	Message string      `json:"message"`
}

// Transformer turns raw lap records into the model-ready feature matrix.
// The compound vocabulary is fixed at construction; it is never inferred
// from the data it encodes.
type Transformer struct {
	categories []string
}

func New(compoundCategories []string) *Transformer {
	cats := compoundCategories
	if len(cats) == 0 {
		cats = defaultCompoundCategories
	}
	sorted := append([]string(nil), cats...)
	sort.Strings(sorted)
	return &Transformer{categories: sorted}
}

// Indicators returns the indicator columns the transformer always emits:
// one per vocabulary entry except the baseline, which is the
// lexicographically first. The set does not depend on the data being
// encoded, so a batch that happens to miss a compound still produces the
// schema the model was trained on.
func (t *Transformer) Indicators() []string {
	out := make([]string, 0, len(t.categories)-1)
	for _, c := range t.categories[1:] {
		out = append(out, compoundPrefix+c)
	}
	return out
}

// Transform engineers features for a batch of raw records. It is
// deterministic, never mutates its input, and returns the same number of
// rows it was given. An empty batch, or one whose rows have no columns at
// all, yields an empty frame and no error; a value that cannot be encoded
// numerically yields an error and a nil frame.
func (t *Transformer) Transform(batch []models.Record) (*models.FeatureFrame, []Warning, error) {
	var warnings []Warning

	raw := rawColumns(batch)
	if len(batch) == 0 || len(raw) == 0 {
		warnings = append(warnings, Warning{
			Code:    WarnEmptyInput,
			Message: "input batch has no rows or no columns, returning an empty frame",
		})
		return models.NewFeatureFrame(nil, 0), warnings, nil
	}

	columns := survivingColumns(raw)
	rows := len(batch)

	// Working grid, one column slice per surviving column. Cells copy out
	// of the records, so imputation never touches the caller's data.
	grid := make(map[string][]models.Value, len(columns))
	for _, col := range columns {
		cells := make([]models.Value, rows)
		for i, rec := range batch {
			cells[i] = rec.Get(col)
		}
		grid[col] = cells
	}

	warnings = append(warnings, t.imputeSectors(grid)...)

	avg, ws := averageSectorColumn(grid, rows)
	warnings = append(warnings, ws...)

	fastest, ws, err := fastestLapColumnValues(grid, rows)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, ws...)

	indicatorNames, indicators, ws := t.encodeCompound(grid, rows)
	warnings = append(warnings, ws...)

	frame := models.NewFeatureFrame(nil, rows)
	for _, col := range columns {
		if col == compoundColumn {
			continue
		}
		values, err := numericColumn(col, grid[col])
		if err != nil {
			return nil, nil, err
		}
		if err := frame.AppendColumn(col, values); err != nil {
			return nil, nil, err
		}
	}
	if err := frame.AppendColumn(avgSectorColumn, avg); err != nil {
		return nil, nil, err
	}
	if err := frame.AppendColumn(fastestLapColumn, fastest); err != nil {
		return nil, nil, err
	}
	for i, name := range indicatorNames {
		if err := frame.AppendColumn(name, indicators[i]); err != nil {
			return nil, nil, err
		}
	}

	return frame, warnings, nil
}

// imputeSectors fills missing sector times with the column mean over the
// current batch only. An absent column is flagged, never synthesized; a
// present column with no usable values keeps its missing cells.
func (t *Transformer) imputeSectors(grid map[string][]models.Value) []Warning {
	var warnings []Warning
	for _, col := range sectorColumns {
		cells, ok := grid[col]
		if !ok {
			warnings = append(warnings, Warning{
				Code:    WarnSectorColumnAbsent,
				Column:  col,
				Message: fmt.Sprintf("column %s absent from input, not imputed", col),
			})
			continue
		}

		var sum float64
		var count, missing int
		for _, v := range cells {
			if v.IsMissing() {
				missing++
				continue
			}
			if f, ok := v.AsNumber(); ok {
				sum += f
				count++
			}
		}
		if missing == 0 {
			continue
		}
		if count == 0 {
			warnings = append(warnings, Warning{
				Code:    WarnSectorNotImputable,
				Column:  col,
				Message: fmt.Sprintf("column %s has no usable values to impute from", col),
			})
			continue
		}

		mean := sum / float64(count)
		for i, v := range cells {
			if v.IsMissing() {
				cells[i] = models.NewNumber(mean)
			}
		}
	}
	return warnings
}

// averageSectorColumn derives AvgSectorTime: the row-wise mean of the three
// sector columns when all of them exist, the missing marker otherwise. The
// marker is deliberate; a zero would look like a real, very fast lap.
func averageSectorColumn(grid map[string][]models.Value, rows int) ([]float64, []Warning) {
	out := make([]float64, rows)

	for _, col := range sectorColumns {
		if _, ok := grid[col]; !ok {
			for i := range out {
				out[i] = math.NaN()
			}
			w := Warning{
				Code:    WarnAvgSectorIncomplete,
				Column:  avgSectorColumn,
				Message: "not all sector columns present, AvgSectorTime left missing",
			}
			return out, []Warning{w}
		}
	}

	for i := 0; i < rows; i++ {
		var sum float64
		var count int
		for _, col := range sectorColumns {
			if f, ok := cellNumber(grid[col][i]); ok {
				sum += f
				count++
			}
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out, nil
}

// fastestLapColumnValues derives FastestLap from IsPersonalBest. An absent
// column defaults every row to 0, treating absence as "not fastest", a policy
// that silently biases predictions, hence the warning. A cell that cannot
// be cast is an error, matching the strictness of an integer cast.
func fastestLapColumnValues(grid map[string][]models.Value, rows int) ([]float64, []Warning, error) {
	out := make([]float64, rows)

	cells, ok := grid[personalBestColumn]
	if !ok {
		w := Warning{
			Code:    WarnFastestLapDefaulted,
			Column:  fastestLapColumn,
			Message: "IsPersonalBest absent from input, FastestLap defaulted to 0 for every row",
		}
		return out, []Warning{w}, nil
	}

	for i, v := range cells {
		switch v.Kind() {
		case models.KindBool:
			b, _ := v.AsBool()
			if b {
				out[i] = 1
			}
		case models.KindNumber:
			f, _ := v.AsNumber()
			out[i] = math.Trunc(f)
		default:
			return nil, nil, fmt.Errorf("cast %s to 0/1: row %d holds a %s value", personalBestColumn, i, v.Kind())
		}
	}
	return out, nil, nil
}

// encodeCompound one-hot encodes the Compound column against the declared
// vocabulary: one 0/1 column per non-baseline category, whether or not the
// batch happens to contain it. Rows with a missing compound get 0 in every
// indicator; values outside the vocabulary get 0 everywhere and a warning,
// so an unexpected tire compound can never reshape the schema silently. An
// absent column yields the same indicator set, all zeros.
func (t *Transformer) encodeCompound(grid map[string][]models.Value, rows int) ([]string, [][]float64, []Warning) {
	names := t.Indicators()
	cols := make([][]float64, len(names))
	for i := range cols {
		cols[i] = make([]float64, rows)
	}

	cells, ok := grid[compoundColumn]
	if !ok {
		w := Warning{
			Code:    WarnCompoundAbsent,
			Column:  compoundColumn,
			Message: "Compound absent from input, indicator columns zero-filled from the configured vocabulary",
		}
		return names, cols, []Warning{w}
	}

	vocab := make(map[string]int, len(t.categories))
	for j, cat := range t.categories {
		// Baseline maps to -1: observed, but deliberately column-less.
		vocab[cat] = j - 1
	}

	unknown := make(map[string]bool)
	for i, v := range cells {
		if v.IsMissing() {
			continue
		}
		s := v.String()
		j, ok := vocab[s]
		if !ok {
			unknown[s] = true
			continue
		}
		if j >= 0 {
			cols[j][i] = 1
		}
	}

	var warnings []Warning
	if len(unknown) > 0 {
		values := make([]string, 0, len(unknown))
		for s := range unknown {
			values = append(values, s)
		}
		sort.Strings(values)
		warnings = append(warnings, Warning{
			Code:    WarnCompoundUnknown,
			Column:  compoundColumn,
			Message: fmt.Sprintf("compound values %v are outside the configured vocabulary and encode to all-zero indicators", values),
		})
	}
	return names, cols, warnings
}

// numericColumn encodes a surviving column: numbers as-is, booleans as 0/1,
// missing as the marker. Strings have no numeric encoding and fail the
// whole transform.
func numericColumn(name string, cells []models.Value) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, v := range cells {
		if v.IsMissing() {
			out[i] = math.NaN()
			continue
		}
		f, ok := cellNumber(v)
		if !ok {
			return nil, fmt.Errorf("column %q is not numeric: row %d holds a %s value", name, i, v.Kind())
		}
		out[i] = f
	}
	return out, nil
}

func cellNumber(v models.Value) (float64, bool) {
	switch v.Kind() {
	case models.KindNumber:
		f, _ := v.AsNumber()
		return f, true
	case models.KindBool:
		b, _ := v.AsBool()
		if b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// rawColumns is the union of column names across the batch.
func rawColumns(batch []models.Record) map[string]bool {
	cols := make(map[string]bool)
	for _, rec := range batch {
		for name := range rec {
			cols[name] = true
		}
	}
	return cols
}

// survivingColumns applies the drop list and fixes a deterministic order:
// sector columns first in canonical order, everything else sorted by name.
func survivingColumns(raw map[string]bool) []string {
	dropped := make(map[string]bool, len(droppedColumns))
	for _, c := range droppedColumns {
		dropped[c] = true
	}
	sector := make(map[string]bool, len(sectorColumns))

	var head, tail []string
	for _, c := range sectorColumns {
		sector[c] = true
		if raw[c] {
			head = append(head, c)
		}
	}
	for name := range raw {
		if dropped[name] || sector[name] {
			continue
		}
		tail = append(tail, name)
	}
	sort.Strings(tail)
	return append(head, tail...)
}
