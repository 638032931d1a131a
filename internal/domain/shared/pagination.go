package shared

// Page describes a window over an ordered result set
type Page struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// HasMore reports whether rows exist beyond this page
func (p Page) HasMore() bool {
	return int64(p.Offset)+int64(p.Limit) < p.Total
}
