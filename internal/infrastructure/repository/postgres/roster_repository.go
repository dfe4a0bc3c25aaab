package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

type RosterImportRepository struct {
	db *sqlx.DB
}

func NewRosterImportRepository(db *sqlx.DB) *RosterImportRepository {
	return &RosterImportRepository{db: db}
}

func (r *RosterImportRepository) Save(ctx context.Context, imp roster.Import) error {
	rows := imp.Rows
	if rows == nil {
		rows = []roster.Row{}
	}
	raw, err := marshalJSONB(rows)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("roster_imports", rosterImportTableModel{
		PublicID:      imp.ID,
		AgencyID:      imp.AgencyID,
		Rows:          raw,
		TotalRows:     imp.TotalRows,
		ValidRows:     imp.ValidRows,
		InvalidRows:   imp.InvalidRows,
		WarningsCount: imp.WarningsCount,
		CommittedAt:   nullableTime(imp.CommittedAt),
		CreatedAt:     imp.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert roster import query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert roster import id=%s: %w", imp.ID, err)
	}
	return nil
}

func (r *RosterImportRepository) Get(ctx context.Context, importID string) (roster.Import, bool, error) {
	query, args, err := qb.Select("public_id", "agency_id", "rows", "total_rows", "valid_rows", "invalid_rows", "warnings_count", "committed_at", "created_at").
		From("roster_imports").
		Where(qb.Eq("public_id", importID)).
		ToSQL()
	if err != nil {
		return roster.Import{}, false, fmt.Errorf("build select roster import query: %w", err)
	}

	var row rosterImportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Import{}, false, nil
		}
		return roster.Import{}, false, fmt.Errorf("select roster import id=%s: %w", importID, err)
	}

	rows := []roster.Row{}
	if err := unmarshalJSONB(row.Rows, &rows); err != nil {
		return roster.Import{}, false, fmt.Errorf("decode roster import rows id=%s: %w", importID, err)
	}
	return roster.Import{
		ID:            row.PublicID,
		AgencyID:      row.AgencyID,
		Rows:          rows,
		TotalRows:     row.TotalRows,
		ValidRows:     row.ValidRows,
		InvalidRows:   row.InvalidRows,
		WarningsCount: row.WarningsCount,
		CommittedAt:   row.CommittedAt,
		CreatedAt:     row.CreatedAt,
	}, true, nil
}

// Commit claims the import and inserts its profiles in one transaction, so a
// failed insert leaves the import uncommitted.
func (r *RosterImportRepository) Commit(ctx context.Context, importID string, at time.Time, profiles []athlete.Profile) (bool, error) {
	query, args, err := qb.Update("roster_imports").
		Set("committed_at", at).
		Where(qb.Eq("public_id", importID), qb.IsNull("committed_at")).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build mark roster import committed query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin commit roster import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("mark roster import committed id=%s: %w", importID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read committed roster import rows: %w", err)
	}
	if affected != 1 {
		return false, nil
	}

	if err := insertAthleteBatch(ctx, tx, profiles); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit roster import tx id=%s: %w", importID, err)
	}
	return true, nil
}
