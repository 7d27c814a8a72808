// Package pipeline runs report generation as a sequence of named steps.
//
// A report is built by passing one model.ReportResult through steps that
// each compute one section (averages, monthly aggregate, charts, ...).
// Execute stops at the first failing step and checks for cancellation
// between steps.
//
// BatchProcessor generates several reports at once with errgroup, bounded by
// a concurrency limit, and returns them in input order.
package pipeline
