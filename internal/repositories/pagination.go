package repositories

// Page describes one slice of a listing; out of range pages clamp to the
// nearest valid one.
type Page struct {
	Number     int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }

func Paginate(total, page, perPage int) Page {
	if perPage <= 0 {
		perPage = 10
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return Page{Number: page, PerPage: perPage, Total: total, TotalPages: pages}
}
