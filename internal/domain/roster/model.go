package roster

import (
	"time"
)

const (
	MaxRows         = 5000
	DefaultPageSize = 50
	MaxPageSize     = 500
)

type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Row is one data line of an uploaded roster together with its findings.
type Row struct {
	Line               int     `json:"line"`
	FirstName          string  `json:"first_name"`
	LastName           string  `json:"last_name"`
	Email              string  `json:"email"`
	Sport              string  `json:"sport"`
	School             string  `json:"school"`
	State              string  `json:"state"`
	GraduationYear     int     `json:"graduation_year"`
	Position           string  `json:"position,omitempty"`
	InstagramFollowers int64   `json:"instagram_followers"`
	TikTokFollowers    int64   `json:"tiktok_followers"`
	TwitterFollowers   int64   `json:"twitter_followers"`
	Errors             []Issue `json:"errors,omitempty"`
	Warnings           []Issue `json:"warnings,omitempty"`
}

func (r Row) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Row) addError(field, msg string) {
	r.Errors = append(r.Errors, Issue{Field: field, Message: msg})
}

func (r *Row) addWarning(field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Field: field, Message: msg})
}

func (r Row) hasError(field string) bool {
	for _, issue := range r.Errors {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// Import is a validated roster kept until the agency commits it.
type Import struct {
	ID            string
	AgencyID      string
	Rows          []Row
	TotalRows     int
	ValidRows     int
	InvalidRows   int
	WarningsCount int
	CommittedAt   *time.Time
	CreatedAt     time.Time
}

func (imp *Import) Summarize() {
	imp.TotalRows = len(imp.Rows)
	imp.ValidRows, imp.InvalidRows, imp.WarningsCount = 0, 0, 0
	for _, row := range imp.Rows {
		if row.Valid() {
			imp.ValidRows++
		} else {
			imp.InvalidRows++
		}
		imp.WarningsCount += len(row.Warnings)
	}
}

func (imp Import) ValidRowsOnly() []Row {
	out := make([]Row, 0, imp.ValidRows)
	for _, row := range imp.Rows {
		if row.Valid() {
			out = append(out, row)
		}
	}
	return out
}

type Page struct {
	Rows       []Row
	Page       int
	PageSize   int
	TotalPages int
}

// Paginate returns one page of rows. Out of range pages are empty.
func (imp Import) Paginate(page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	totalPages := (len(imp.Rows) + pageSize - 1) / pageSize
	rows := []Row{}
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := min(start+pageSize, len(imp.Rows))
		rows = imp.Rows[start:end]
	}

	return Page{
		Rows:       rows,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
