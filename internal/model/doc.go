// Package model defines the data structures shared by the loader, the
// report generator and the presentation surfaces.
//
// The main types are:
//   - RentalRecord and Dataset: rows of the source file
//   - DailyView and HourlyView: read-only projections produced by Partition
//   - YearSelection: the 2011 / 2012 / compare-both filter
//   - AggregateSeries, CustomerAverages, Correlation: computed statistics
//   - ChartSpec: chart descriptors consumed by the writers and the dashboard
//   - ReportResult: the complete output of one report generation
//
// Design decision: models live in their own package so that the dataset,
// analysis, report and web packages can share them without import cycles.
// None of the values are mutated after they are built.
package model
