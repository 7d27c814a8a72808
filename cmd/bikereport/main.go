// Package main provides the entry point for the bikereport CLI.
//
// bikereport analyses the bike-sharing rental dataset: average customers per
// year, monthly, weekly and hourly rentals, the correlation of the daily
// measures with the rental count and rentals by weather situation.
//
// Usage:
//
//	bikereport report --year 2012
//	bikereport report --compare --markdown -o report.md
//	bikereport serve
//
// See --help for all available options.
package main

// main is the entry point for bikereport.
func main() {
	Execute()
}
