// Package analysis computes the bike rental report.
//
// The statistics are plain functions over the daily and hourly views:
// AverageCustomers, MonthlyAggregate, WeeklyAggregate, HourlyAggregate,
// CorrelationRanking and WeatherBreakdown. ChartSpecs turns their output
// into renderer-independent chart descriptors.
//
// GenerateReport runs those functions as named pipeline steps against the
// AppState loaded at startup and returns one model.ReportResult. Every
// presentation surface (text, JSON, Markdown, XLSX and the web dashboard)
// renders that result and holds no statistics of its own.
package analysis
