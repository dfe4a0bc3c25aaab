package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
)

var (
	ErrInvalidHeader = errors.New("invalid roster header")
	ErrTooManyRows   = errors.New("roster has too many rows")
	ErrEmptyRoster   = errors.New("roster has no data rows")
)

const (
	colFirstName      = "first_name"
	colLastName       = "last_name"
	colEmail          = "email"
	colSport          = "sport"
	colSchool         = "school"
	colState          = "state"
	colGraduationYear = "graduation_year"
	colPosition       = "position"
	colInstagram      = "instagram_followers"
	colTikTok         = "tiktok_followers"
	colTwitter        = "twitter_followers"
)

var RequiredColumns = []string{colFirstName, colLastName, colEmail, colSport, colSchool, colState, colGraduationYear}

var emailValidator = validator.New()

// Parse reads a roster CSV. Cell level problems are recorded on each row;
// only structural problems are returned as errors.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyRoster
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeColumn(name)] = i
	}
	missing := make([]string, 0)
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidHeader, strings.Join(missing, ", "))
	}

	rows := make([]Row, 0, 64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		if len(rows) == MaxRows {
			return nil, fmt.Errorf("%w: max %d", ErrTooManyRows, MaxRows)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, parseRow(line, record, index))
	}
	if len(rows) == 0 {
		return nil, ErrEmptyRoster
	}

	return rows, nil
}

func parseRow(line int, record []string, index map[string]int) Row {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := Row{
		Line:      line,
		FirstName: cell(colFirstName),
		LastName:  cell(colLastName),
		Email:     strings.ToLower(cell(colEmail)),
		Sport:     string(athlete.NormalizeSport(cell(colSport))),
		School:    cell(colSchool),
		State:     geo.NormalizeState(cell(colState)),
		Position:  cell(colPosition),
	}

	if raw := cell(colGraduationYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			row.addError(colGraduationYear, "must be a four digit year")
		}
		row.GraduationYear = year
	}

	for _, f := range []struct {
		col string
		dst *int64
	}{
		{colInstagram, &row.InstagramFollowers},
		{colTikTok, &row.TikTokFollowers},
		{colTwitter, &row.TwitterFollowers},
	} {
		raw := strings.ReplaceAll(cell(f.col), ",", "")
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			row.addError(f.col, "must be a non-negative integer")
			continue
		}
		*f.dst = n
	}

	return row
}

// Options carries the context a roster is checked against.
type Options struct {
	Now        time.Time
	Registered map[string]struct{}
}

// Check applies the row rules in place. Rows keep their file order and the
// first occurrence of a duplicated e-mail stays valid.
func Check(rows []Row, opts Options) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	currentYear := opts.Now.Year()
	firstSeen := make(map[string]int, len(rows))

	for i := range rows {
		row := &rows[i]

		for _, req := range []struct{ col, value string }{
			{colFirstName, row.FirstName},
			{colLastName, row.LastName},
			{colEmail, row.Email},
			{colSport, row.Sport},
			{colSchool, row.School},
			{colState, row.State},
		} {
			if req.value == "" {
				row.addError(req.col, "is required")
			}
		}

		if row.Email != "" {
			if err := emailValidator.Var(row.Email, "email"); err != nil {
				row.addError(colEmail, "is not a valid e-mail address")
			} else if line, dup := firstSeen[row.Email]; dup {
				row.addError(colEmail, fmt.Sprintf("duplicate of line %d", line))
			} else {
				firstSeen[row.Email] = row.Line
				if _, taken := opts.Registered[row.Email]; taken {
					row.addWarning(colEmail, "already registered; row will be skipped on commit")
				}
			}
		}

		if row.State != "" && !geo.IsState(row.State) {
			row.addError(colState, "is not a US state code")
		}

		if !row.hasError(colGraduationYear) {
			switch {
			case row.GraduationYear == 0:
				row.addError(colGraduationYear, "is required")
			case row.GraduationYear < currentYear-1 || row.GraduationYear > currentYear+6:
				row.addError(colGraduationYear, fmt.Sprintf("must be between %d and %d", currentYear-1, currentYear+6))
			}
		}

		if row.Sport != "" && !athlete.IsKnownSport(athlete.Sport(row.Sport)) {
			row.addWarning(colSport, "unknown sport")
		}
	}
}

// Emails lists distinct e-mails in file order.
func Emails(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Email == "" {
			continue
		}
		if _, ok := seen[row.Email]; ok {
			continue
		}
		seen[row.Email] = struct{}{}
		out = append(out, row.Email)
	}
	return out
}

// ToProfile converts a valid row into an unclaimed athlete profile.
func (r Row) ToProfile() athlete.Profile {
	return athlete.Profile{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Sport:              athlete.Sport(r.Sport),
		Position:           r.Position,
		School:             r.School,
		State:              r.State,
		GraduationYear:     r.GraduationYear,
		InstagramFollowers: r.InstagramFollowers,
		TikTokFollowers:    r.TikTokFollowers,
		TwitterFollowers:   r.TwitterFollowers,
	}
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "_")
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
