// Package dataset loads the rental dataset and builds the AppState shared by
// every report.
//
// A dataset comes either from a delimited file (read with gota's dataframe
// reader) or from a dataset previously imported into the SQLite store.
// Loading is all-or-nothing: a missing file, a missing required column or an
// unparsable value aborts startup with one of the sentinel errors in
// errors.go.
//
// Each source file is identified by the SHA3-256 digest of its bytes, which
// doubles as the key of the stored copy.
package dataset
