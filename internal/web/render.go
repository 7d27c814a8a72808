package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/nao1215/bikereport/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

const dashboardTemplate = "dashboard.html"

// loadTemplatesFromFS parses the dashboard templates found in dir of fsys.
// Tests use it with an in-memory filesystem.
func loadTemplatesFromFS(fsys fs.FS, dir string) (*template.Template, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	return template.ParseFS(sub, "*.html")
}

func loadTemplates() (*template.Template, error) {
	return loadTemplatesFromFS(templatesFS, "templates")
}

// YearOption is one entry of the year selector.
type YearOption struct {
	Year     int
	Selected bool
}

// DashboardData is the view model of the dashboard page.
type DashboardData struct {
	Title       string
	Compare     bool
	Years       []YearOption
	Averages    []string
	Warnings    []string
	Dataset     model.DatasetInfo
	Fingerprint string
	Charts      []model.ChartSpec
	Weather     []model.WeatherShare
	Table       DailyPage

	// Year is the selected year, kept in pagination links.
	Year int
}

func renderDashboard(tmpl *template.Template, w io.Writer, data *DashboardData) error {
	return tmpl.ExecuteTemplate(w, dashboardTemplate, data)
}
