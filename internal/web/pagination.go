package web

import (
	"net/http"
	"strconv"

	"github.com/nao1215/bikereport/internal/model"
)

// pageWindow is the number of pages shown on each side of the current one.
const pageWindow = 2

// PaginationItem is one entry in the pagination bar: either a page number or an ellipsis.
type PaginationItem struct {
	Page     int
	Ellipsis bool
}

// DailyPage is one page of the daily view.
type DailyPage struct {
	Columns    []string         `json:"columns"`
	Rows       [][]string       `json:"rows"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	TotalRows  int              `json:"total_rows"`
	HasPrev    bool             `json:"-"`
	HasNext    bool             `json:"-"`
	PrevPage   int              `json:"-"`
	NextPage   int              `json:"-"`
	PageItems  []PaginationItem `json:"-"`
}

// parsePage returns the 1-based page number from the request (default 1, min 1).
func parsePage(r *http.Request) int {
	s := r.URL.Query().Get("page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// totalPages returns the number of pages needed for n rows, at least 1.
func totalPages(n, pageSize int) int {
	pages := (n + pageSize - 1) / pageSize
	return max(pages, 1)
}

// paginate slices the daily view. Pages past the end are clamped to the
// last page.
func paginate(view model.DailyView, page, pageSize int) DailyPage {
	total := len(view.Records)
	pages := totalPages(total, pageSize)
	page = min(max(page, 1), pages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	slice := model.DailyView{Columns: view.Columns, Records: view.Records[start:end]}

	return DailyPage{
		Columns:    view.Columns,
		Rows:       slice.Rows(0),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
		TotalRows:  total,
		HasPrev:    page > 1,
		HasNext:    page < pages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		PageItems:  buildPageItems(pages, page),
	}
}

// buildPageItems returns page numbers and ellipsis for the pagination bar.
// The first and last pages are always shown, plus pageWindow pages around
// the current one.
func buildPageItems(totalPages, currentPage int) []PaginationItem {
	if totalPages <= 0 {
		return nil
	}
	show := map[int]bool{1: true, totalPages: true}
	for p := currentPage - pageWindow; p <= currentPage+pageWindow; p++ {
		if p >= 1 && p <= totalPages {
			show[p] = true
		}
	}
	var items []PaginationItem
	prev := 0
	for p := 1; p <= totalPages; p++ {
		if !show[p] {
			continue
		}
		if prev != 0 && p > prev+1 {
			items = append(items, PaginationItem{Ellipsis: true})
		}
		items = append(items, PaginationItem{Page: p})
		prev = p
	}
	return items
}
