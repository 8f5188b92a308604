package transfer

// ListRequest selects one page of transfers sent or received by an address.
type ListRequest struct {
	Address string `validate:"required,eth_addr"`
	Page    int    `default:"1" validate:"min=1"`
	Limit   int    `default:"20" validate:"min=1"`
}

// Pagination describes the returned page.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResponse is a page of transfers.
type ListResponse struct {
	Transfers  []*Record  `json:"transfers"`
	Pagination Pagination `json:"pagination"`
}

// TotalPages returns ceil(total/limit), or 0 when there are no rows.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
