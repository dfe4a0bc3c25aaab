package roster

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleRoster = `first_name,last_name,email,sport,school,state,graduation_year,instagram_followers
Jordan,Lee,jordan@example.com,Basketball,Ohio State,OH,2027,12000
Sam,Ortiz,sam@example.com,Football,Texas,TX,2026,"4,500"
Dup,Person,JORDAN@example.com,soccer,UCLA,CA,2027,10
Ava,Kim,not-an-email,curling,Duke,NC,2040,-3
Taylor,,taylor@example.com,golf,Stanford,ZZ,abc,
`

func TestParseAndCheck(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleRoster))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, int64(4500), rows[1].InstagramFollowers)

	Check(rows, Options{
		Now:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Registered: map[string]struct{}{"sam@example.com": {}},
	})

	imp := Import{Rows: rows}
	imp.Summarize()
	require.Equal(t, 5, imp.TotalRows)
	require.Equal(t, 2, imp.ValidRows)
	require.Equal(t, 3, imp.InvalidRows)
	// registered e-mail on row 2, unknown sport on row 4
	require.Equal(t, 2, imp.WarningsCount)

	require.True(t, rows[1].Valid())
	require.Len(t, rows[1].Warnings, 1)

	require.False(t, rows[2].Valid(), "duplicate e-mail is an error on the later row")
	require.Contains(t, rows[2].Errors[0].Message, "line 2")

	fields := func(r Row) []string {
		out := make([]string, 0, len(r.Errors))
		for _, issue := range r.Errors {
			out = append(out, issue.Field)
		}
		return out
	}
	require.ElementsMatch(t, []string{"instagram_followers", "email", "graduation_year"}, fields(rows[3]))
	require.ElementsMatch(t, []string{"graduation_year", "last_name", "state"}, fields(rows[4]))

	require.Len(t, imp.ValidRowsOnly(), 2)
}

func TestParse_HeaderErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("first_name,last_name\nA,B\n"))
	require.True(t, errors.Is(err, ErrInvalidHeader))
	require.Contains(t, err.Error(), "graduation_year")

	_, err = Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyRoster)

	_, err = Parse(strings.NewReader("First Name,Last Name,Email,Sport,School,State,Graduation Year\n"))
	require.ErrorIs(t, err, ErrEmptyRoster)
}

func TestParse_TooManyRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("first_name,last_name,email,sport,school,state,graduation_year\n")
	for i := 0; i <= MaxRows; i++ {
		b.WriteString("a,b,c@example.com,golf,s,TX,2027\n")
	}

	_, err := Parse(strings.NewReader(b.String()))
	require.ErrorIs(t, err, ErrTooManyRows)
}

func TestImport_Paginate(t *testing.T) {
	imp := Import{Rows: make([]Row, 7)}

	p := imp.Paginate(2, 3)
	require.Len(t, p.Rows, 3)
	require.Equal(t, 3, p.TotalPages)

	p = imp.Paginate(3, 3)
	require.Len(t, p.Rows, 1)

	p = imp.Paginate(9, 3)
	require.Empty(t, p.Rows)

	p = imp.Paginate(math.MaxInt, 3)
	require.Empty(t, p.Rows)
	require.Equal(t, math.MaxInt, p.Page)

	p = imp.Paginate(0, 0)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultPageSize, p.PageSize)
	require.Len(t, p.Rows, 7)
}
