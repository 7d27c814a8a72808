package model

import "time"

// DatasetInfo describes the dataset a report was generated from.
type DatasetInfo struct {
	// Source is the CSV path or "sqlite:<fingerprint>" for stored datasets.
	Source string `json:"source"`

	// Fingerprint is the SHA3-256 digest of the source file.
	Fingerprint string `json:"fingerprint"`

	DailyRecords  int `json:"daily_records"`
	HourlyRecords int `json:"hourly_records"`
}

// ReportResult is everything a presentation surface needs to render one
// report. It is produced fresh for every selection and never mutated once
// generation completes.
type ReportResult struct {
	Selection   YearSelection `json:"selection"`
	Dataset     DatasetInfo   `json:"dataset"`
	GeneratedAt time.Time     `json:"generated_at"`

	Averages CustomerAverages `json:"averages"`

	// Monthly and Weekly hold one series per selected year.
	Monthly []AggregateSeries `json:"monthly"`
	Weekly  []AggregateSeries `json:"weekly"`

	// Hourly always covers the full hourly view regardless of Selection.
	Hourly HourlySplit `json:"hourly"`

	// Correlations ranks every numeric daily field against the count.
	Correlations []Correlation `json:"correlations"`

	Weather []WeatherShare `json:"weather"`

	Charts []ChartSpec `json:"charts"`

	// Warnings collects non-fatal conditions such as empty year subsets.
	Warnings []string `json:"warnings,omitempty"`

	// Steps lists the generation steps in the order they ran.
	Steps []string `json:"steps"`

	// Daily is the daily view used for the raw data dump.
	Daily *DailyView `json:"-"`
}

// NewReportResult creates an empty result for the selection.
func NewReportResult(selection YearSelection) *ReportResult {
	return &ReportResult{
		Selection:   selection,
		GeneratedAt: time.Now(),
		Steps:       make([]string, 0),
	}
}

// AddWarning records a non-fatal condition.
func (r *ReportResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ChartsByGroup returns the charts of a report section in order.
func (r *ReportResult) ChartsByGroup(group ChartGroup) []ChartSpec {
	var out []ChartSpec
	for _, c := range r.Charts {
		if c.Group == group {
			out = append(out, c)
		}
	}
	return out
}
