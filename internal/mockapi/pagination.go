package mockapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const perPage = 10

// page is the paginated list shape: items under "data" next to the
// pagination metadata. URLs are null when there is no such page.
type page[T any] struct {
	Data        []T     `json:"data"`
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int     `json:"total"`
	PrevPageURL *string `json:"prev_page_url"`
	NextPageURL *string `json:"next_page_url"`
}

// paginate answers with the page of items selected by ?page (default 1).
// A page past the end is empty, not an error.
func paginate[T any](c echo.Context, items []T) error {
	n, err := queryInt64(c, "page")
	if err != nil {
		return err
	}
	current := max(int(n), 1)

	total := len(items)
	last := max((total+perPage-1)/perPage, 1)
	start := total
	if current <= last {
		start = (current - 1) * perPage
	}
	end := min(start+perPage, total)

	p := page[T]{
		Data:        items[start:end],
		CurrentPage: current,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
	if p.Data == nil {
		p.Data = []T{}
	}
	if current > 1 {
		u := pageURL(c, min(current-1, last))
		p.PrevPageURL = &u
	}
	if current < last {
		u := pageURL(c, current+1)
		p.NextPageURL = &u
	}
	return data(c, http.StatusOK, p)
}

func pageURL(c echo.Context, n int) string {
	req := c.Request()
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(n))
	u := url.URL{Scheme: c.Scheme(), Host: req.Host, Path: req.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
