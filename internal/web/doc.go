// Package web serves the interactive dashboard and its JSON API.
//
// Routes:
//
//	GET /                  dashboard (query: compare=on, year=2011|2012, page=N)
//	GET /api/v1/report     report JSON (query: year=2011|2012|both, rows=N)
//	GET /api/v1/daily      one page of the daily view (query: page=N)
//	GET /healthz           liveness and dataset summary
//	GET /metrics           Prometheus metrics
//
// Every request is answered from the AppState loaded at startup. The
// dashboard draws its charts with Chart.js from the chart descriptors of the
// generated report, so it computes nothing itself.
package web
