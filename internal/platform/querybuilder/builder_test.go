package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("external_id", "home_team").
		From("historical_matches").
		Where(Eq("status", "finished"), IsNotNull("home_score")).
		OrderBy("start_time DESC").
		Limit(10).
		Offset(20).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT external_id, home_team FROM historical_matches WHERE status = $1 AND home_score IS NOT NULL ORDER BY start_time DESC LIMIT 10 OFFSET 20"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "finished" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrGroups(t *testing.T) {
	before := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("COUNT(*)").
		From("historical_matches").
		Where(
			Eq("status", "finished"),
			Or(
				And(Eq("home_team_key", "lyon"), Eq("away_team_key", "nice")),
				And(Eq("home_team_key", "nice"), Eq("away_team_key", "lyon")),
			),
			Lt("start_time", before),
			NotEq("external_id", "42"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT COUNT(*) FROM historical_matches WHERE status = $1 AND ((home_team_key = $2 AND away_team_key = $3) OR (home_team_key = $4 AND away_team_key = $5)) AND start_time < $6 AND external_id <> $7"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 7 || args[1] != "lyon" || args[4] != "lyon" || args[5] != before {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_AnyAndEmptyIn(t *testing.T) {
	query, args, err := Select("external_id").
		From("historical_matches").
		Where(Any("external_id", []string{"1", "2"}), In("status", nil), Gte("start_time", "2025-01-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT external_id FROM historical_matches WHERE external_id = ANY($1) AND 1=0 AND start_time >= $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_Suffix(t *testing.T) {
	query, _, err := Select("*").
		From("historical_matches").
		Where(Eq("external_id", "m1")).
		OrderBy("external_id").
		Suffix(" FOR UPDATE ").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM historical_matches WHERE external_id = $1 ORDER BY external_id FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("match_predictions").
		Columns("public_id", "match_external_id").
		Values("p1", "m1").
		Suffix("ON CONFLICT (match_external_id, model_version) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO match_predictions (public_id, match_external_id) VALUES ($1, $2) ON CONFLICT (match_external_id, model_version) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "p1" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type rowModel struct {
	ID      string `db:"external_id"`
	Home    string `db:"home_team"`
	Ignored string `db:"-"`
	note    string
}

func TestInsertModels_BuildsMultiRowInsert(t *testing.T) {
	rows := []rowModel{{ID: "1", Home: "Lyon"}, {ID: "2", Home: "Nice", note: "x"}}
	query, args, err := InsertModels("historical_matches", rows, "ON CONFLICT (external_id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO historical_matches (external_id, home_team) VALUES ($1, $2), ($3, $4) ON CONFLICT (external_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "2" || args[3] != "Nice" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels[rowModel]("historical_matches", nil, ""); err == nil {
		t.Fatalf("expected error for empty models")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("historical_matches").
		Set("status", "finished").
		SetExpr("updated_at", "NOW()").
		Where(Eq("external_id", "m1"), NotEq("status", "finished")).
		Suffix("RETURNING external_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE historical_matches SET status = $1, updated_at = NOW() WHERE external_id = $2 AND status <> $3 RETURNING external_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "finished" || args[1] != "m1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
