// Package database provides SQLite-based storage for imported rental datasets.
//
// The RentalDB keeps:
//   - one datasets row per imported source file, keyed by its SHA3 fingerprint
//   - the rental records of each dataset in source order
//
// Reports are never stored; the database is only an alternative input source
// for the report and serve commands.
//
// Design decision: We use SQLite via modernc.org/sqlite so the database is a
// single CGO-free file under the XDG data directory.
package database
