package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "first_name").
		From("athlete_profiles").
		Where(Eq("sport", "basketball"), IsNull("deleted_at")).
		OrderBy("id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, first_name FROM athlete_profiles WHERE sport = $1 AND deleted_at IS NULL ORDER BY id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "basketball" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_PagingAndSearch(t *testing.T) {
	query, args, err := Select("*").
		From("athlete_profiles").
		Where(
			Gte("follower_total", 1000),
			Or(ILike("first_name", "jo_n"), ILike("school", "50%")),
		).
		OrderBy("follower_total DESC").
		Limit(20).
		Offset(40).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM athlete_profiles WHERE follower_total >= $1 AND (first_name ILIKE $2 OR school ILIKE $3) ORDER BY follower_total DESC LIMIT 20 OFFSET 40"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if args[1] != `%jo\_n%` {
		t.Fatalf("expected escaped underscore, got %v", args[1])
	}
	if args[2] != `%50\%%` {
		t.Fatalf("expected escaped percent, got %v", args[2])
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("nil_deals").Where(In("status", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM nil_deals WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("saved_athletes").
		Columns("agency_id", "athlete_id").
		Values("a1", "p1").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO saved_athletes (agency_id, athlete_id) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "a1" || args[1] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("notifications").
		Set("title", "new").
		SetIf(false, "body", "skipped").
		SetIf(true, "read_at", "2026-01-01").
		Where(Eq("id", "n1"), IsNull("read_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE notifications SET title = $1, read_at = $2 WHERE id = $3 AND read_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "new" || args[2] != "n1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID      string `db:"id"`
		Name    string `db:"name"`
		Ignored string `db:"-"`
		private string
	}

	query, args, err := InsertModel("campaigns", row{ID: "c1", Name: "Spring", Ignored: "x", private: "y"}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO campaigns (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		AgencyID  string `db:"agency_id"`
		AthleteID string `db:"athlete_public_id,omitempty"`
	}

	query, args, err := InsertModels("saved_athletes", []row{{"a1", "p1"}, {"a1", "p2"}}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}
	want := "INSERT INTO saved_athletes (agency_id, athlete_public_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 4 || args[3] != "p2" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[row]("saved_athletes", nil, ""); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}

func TestColumns(t *testing.T) {
	type row struct {
		ID    string `db:"public_id"`
		Total int64  `db:"-"`
		Name  string `db:"name"`
	}
	got := Columns(&row{})
	if len(got) != 2 || got[0] != "public_id" || got[1] != "name" {
		t.Fatalf("unexpected columns: %v", got)
	}
}
