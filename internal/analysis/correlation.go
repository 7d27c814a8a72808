package analysis

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/nao1215/bikereport/internal/model"
)

// CorrelationRanking computes the Pearson coefficient between the daily
// count and every other numeric column of the daily view.
//
// The ranking is sorted by coefficient, highest first. Coefficients that
// are undefined (fewer than two values or zero variance) come last, ordered
// by column name.
func CorrelationRanking(view model.DailyView) []model.Correlation {
	ranking := make([]model.Correlation, 0, len(view.Columns))
	for _, column := range view.NumericColumns() {
		if column == model.ColumnCount {
			continue
		}
		ranking = append(ranking, model.Correlation{
			Field:       column,
			Coefficient: pearson(view.Records, column),
		})
	}

	slices.SortStableFunc(ranking, func(a, b model.Correlation) int {
		ad, bd := a.Coefficient.IsDefined(), b.Coefficient.IsDefined()
		switch {
		case ad && bd:
			if c := cmp.Compare(b.Coefficient, a.Coefficient); c != 0 {
				return c
			}
		case ad:
			return -1
		case bd:
			return 1
		}
		return cmp.Compare(a.Field, b.Field)
	})
	return ranking
}

// pearson correlates column with the count over the records that carry a
// value for column.
func pearson(records []model.RentalRecord, column string) model.Stat {
	x := make([]float64, 0, len(records))
	y := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Numeric(column)
		if !ok {
			continue
		}
		x = append(x, v)
		y = append(y, float64(r.Count))
	}
	if len(x) < 2 {
		return model.Undefined()
	}
	return model.Stat(stat.Correlation(x, y, nil))
}
