package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nao1215/bikereport/internal/metrics"
	"github.com/nao1215/bikereport/internal/model"
	"github.com/nao1215/bikereport/internal/report"
)

// maxDataRows caps the daily rows an API client may request in one report.
const maxDataRows = 1000

var errInvalidDashboardYear = errors.New("invalid 'year' (expected 2011 or 2012)")

// parseDashboardSelection reads the dashboard form: the compare checkbox
// wins over the year selector, which defaults to 2011.
func parseDashboardSelection(r *http.Request) (model.YearSelection, int, error) {
	q := r.URL.Query()

	year := model.Year2011
	if s := q.Get("year"); s != "" {
		sel, err := model.ParseYearSelection(s)
		if err != nil || sel.IsCompare() {
			return 0, 0, errInvalidDashboardYear
		}
		year = sel
	}

	switch q.Get("compare") {
	case "on", "true", "1":
		return model.CompareBoth, int(year), nil
	}
	return year, int(year), nil
}

// parseReportQuery reads the API query. A missing year selects both years.
func parseReportQuery(r *http.Request) (model.YearSelection, int, error) {
	q := r.URL.Query()

	sel := model.CompareBoth
	if s := q.Get("year"); s != "" {
		parsed, err := model.ParseYearSelection(s)
		if err != nil {
			return 0, 0, err
		}
		sel = parsed
	}

	rows := 0
	if s := q.Get("rows"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, errors.New("invalid 'rows' (expected integer)")
		}
		if n < 0 || n > maxDataRows {
			return 0, 0, errors.New("'rows' must be between 0 and 1000")
		}
		rows = n
	}
	return sel, rows, nil
}

// generate builds one report and records it under surface.
func (s *Server) generate(ctx context.Context, sel model.YearSelection, surface string) (*model.ReportResult, error) {
	start := time.Now()
	result, err := s.generator.Generate(ctx, sel)
	metrics.RecordReport(sel.String(), surface, time.Since(start), err)
	return result, err
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, year, err := parseDashboardSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.generate(r.Context(), sel, metrics.SurfaceWeb)
	if err != nil {
		s.logger.Error("dashboard: report generation failed", "selection", sel.String(), "error", err)
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}

	years := make([]YearOption, 0, 2)
	for _, y := range []model.YearSelection{model.Year2011, model.Year2012} {
		years = append(years, YearOption{Year: int(y), Selected: int(y) == year})
	}

	data := &DashboardData{
		Title:       report.Title,
		Compare:     sel.IsCompare(),
		Years:       years,
		Year:        year,
		Averages:    report.AverageLines(result.Averages),
		Warnings:    result.Warnings,
		Dataset:     result.Dataset,
		Fingerprint: s.state.ShortFingerprint(),
		Charts:      result.Charts,
		Weather:     result.Weather,
		Table:       paginate(s.state.Daily, parsePage(r), s.pageSize),
	}

	// Render into a buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := renderDashboard(s.templates, &buf, data); err != nil {
		s.logger.Error("dashboard template render failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("dashboard: write response failed", "error", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sel, rows, err := parseReportQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.generate(r.Context(), sel, metrics.SurfaceAPI)
	if err != nil {
		s.logger.Error("api: report generation failed", "selection", sel.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	s.writeJSON(w, http.StatusOK, report.NewJSONReport(result, s.version, rows))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, paginate(s.state.Daily, parsePage(r), s.pageSize))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"dataset":        s.state.ShortFingerprint(),
		"daily_records":  s.state.Info.DailyRecords,
		"hourly_records": s.state.Info.HourlyRecords,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(status),
		"message": msg,
	})
}
