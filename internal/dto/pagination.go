package dto

// PageQuery is the shared limit/offset query. Handlers preset defaults before parsing.
type PageQuery struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// Page is embedded in every paginated listing response.
type Page struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

func NewPage(total int64, limit, offset int) Page {
	return Page{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}
}

// StatusPageQuery adds a status filter ("all" or empty disables it).
type StatusPageQuery struct {
	PageQuery
	Status string `query:"status"`
}
