package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const inviteColumns = "public_id, athlete_public_id, parent_email, token_hash, expires_at, accepted_at, accepted_by, created_at"

type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(ctx context.Context, inv invite.Invite) error {
	query, args, err := qb.InsertModel("parent_invites", inviteInsertModel{
		PublicID:    inv.ID,
		AthleteID:   inv.AthleteID,
		ParentEmail: inv.ParentEmail,
		TokenHash:   inv.TokenHash,
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert invite query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert invite id=%s: %w", inv.ID, err)
	}
	return nil
}

func (r *InviteRepository) GetByTokenHash(ctx context.Context, tokenHash string) (invite.Invite, bool, error) {
	query, args, err := qb.Select(inviteColumns).From("parent_invites").Where(qb.Eq("token_hash", tokenHash)).ToSQL()
	if err != nil {
		return invite.Invite{}, false, fmt.Errorf("build select invite query: %w", err)
	}

	var row inviteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return invite.Invite{}, false, nil
		}
		return invite.Invite{}, false, fmt.Errorf("select invite by token: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *InviteRepository) ListByAthlete(ctx context.Context, athleteID string) ([]invite.Invite, error) {
	query, args, err := qb.Select(inviteColumns).
		From("parent_invites").
		Where(qb.Eq("athlete_public_id", athleteID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select invites query: %w", err)
	}

	var rows []inviteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select invites athlete=%s: %w", athleteID, err)
	}
	out := make([]invite.Invite, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Accept claims the invite and inserts the parent link in one transaction.
func (r *InviteRepository) Accept(ctx context.Context, inv invite.Invite, link invite.Link) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept invite tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("parent_invites").
		Set("accepted_at", nullableTime(inv.AcceptedAt)).
		Set("accepted_by", inv.AcceptedBy).
		Where(qb.Eq("public_id", inv.ID), qb.IsNull("accepted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build accept invite query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("accept invite id=%s: %w", inv.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read accepted invite rows: %w", err)
	}
	if affected == 0 {
		return invite.ErrAlreadyAccepted
	}

	linkQuery, linkArgs, err := qb.InsertModel("parent_athlete_links", parentLinkInsertModel{
		ParentID:  link.ParentID,
		AthleteID: link.AthleteID,
		CreatedAt: link.CreatedAt,
	}, "ON CONFLICT (parent_id, athlete_public_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert parent link query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, linkQuery, linkArgs...); err != nil {
		return fmt.Errorf("insert parent link parent=%s athlete=%s: %w", link.ParentID, link.AthleteID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accept invite tx: %w", err)
	}
	return nil
}

func (r *InviteRepository) ListAthleteIDsByParent(ctx context.Context, parentID string) ([]string, error) {
	const query = `SELECT athlete_public_id FROM parent_athlete_links WHERE parent_id = $1 ORDER BY athlete_public_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, parentID); err != nil {
		return nil, fmt.Errorf("select linked athletes parent=%s: %w", parentID, err)
	}
	return ids, nil
}

func (r *InviteRepository) ListParentIDsByAthlete(ctx context.Context, athleteID string) ([]string, error) {
	const query = `SELECT parent_id FROM parent_athlete_links WHERE athlete_public_id = $1 ORDER BY parent_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, athleteID); err != nil {
		return nil, fmt.Errorf("select linked parents athlete=%s: %w", athleteID, err)
	}
	return ids, nil
}

func (r *InviteRepository) IsLinked(ctx context.Context, parentID, athleteID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM parent_athlete_links WHERE parent_id = $1 AND athlete_public_id = $2)`
	var linked bool
	if err := r.db.GetContext(ctx, &linked, query, parentID, athleteID); err != nil {
		return false, fmt.Errorf("check parent link parent=%s athlete=%s: %w", parentID, athleteID, err)
	}
	return linked, nil
}

func (m inviteTableModel) toDomain() invite.Invite {
	return invite.Invite{
		ID:          m.PublicID,
		AthleteID:   m.AthleteID,
		ParentEmail: m.ParentEmail,
		TokenHash:   m.TokenHash,
		ExpiresAt:   m.ExpiresAt,
		AcceptedAt:  m.AcceptedAt,
		AcceptedBy:  stringOrEmpty(m.AcceptedBy),
		CreatedAt:   m.CreatedAt,
	}
}
