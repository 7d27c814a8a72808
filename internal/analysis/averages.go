package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/nao1215/bikereport/internal/model"
)

// AverageCustomers returns the mean daily count for each selected year.
//
// For CompareBoth the overall average is the mean of the two yearly means,
// not the mean over all days of both years. A year with no records gets a
// NaN average and an ErrEmptyData error is returned alongside the value.
func AverageCustomers(view model.DailyView, sel model.YearSelection) (model.CustomerAverages, error) {
	if !sel.Valid() {
		return model.CustomerAverages{}, fmt.Errorf("%w: %d", model.ErrInvalidSelection, int(sel))
	}

	var (
		avgs model.CustomerAverages
		errs []error
	)
	for _, year := range sel.Years() {
		records := view.FilterYear(year)
		avg := model.Undefined()
		if len(records) == 0 {
			errs = append(errs, fmt.Errorf("%w: %d", ErrEmptyData, year))
		} else {
			avg = model.Stat(stat.Mean(counts(records), nil))
		}
		avgs.ByYear = append(avgs.ByYear, model.YearAverage{
			Year:    year,
			Average: avg,
			Days:    len(records),
		})
	}

	if sel.IsCompare() {
		overall := (avgs.ByYear[0].Average + avgs.ByYear[1].Average) / 2
		avgs.Overall = &overall
	}

	return avgs, errors.Join(errs...)
}

func counts(records []model.RentalRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = float64(r.Count)
	}
	return out
}
