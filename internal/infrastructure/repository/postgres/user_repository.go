package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, u user.User) error {
	const query = `
INSERT INTO users (id, email, full_name, role, created_at, updated_at)
VALUES (:id, :email, :full_name, :role, :created_at, :updated_at)
ON CONFLICT (id)
DO UPDATE SET
    email = EXCLUDED.email,
    full_name = EXCLUDED.full_name,
    role = EXCLUDED.role,
    updated_at = EXCLUDED.updated_at`

	model := userTableModel{
		ID:        u.ID,
		Email:     strings.ToLower(strings.TrimSpace(u.Email)),
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert user id=%s: %w", u.ID, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("id", "email", "full_name", "role", "created_at", "updated_at").
		From("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user id=%s: %w", userID, err)
	}

	return user.User{
		ID:        row.ID,
		Email:     row.Email,
		FullName:  row.FullName,
		Role:      user.Role(row.Role),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *UserRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	return selectEmailSet(ctx, r.db, "users", emails)
}

// selectEmailSet returns the lowercased subset of emails already present in table.
func selectEmailSet(ctx context.Context, db *sqlx.DB, table string, emails []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(emails) == 0 {
		return out, nil
	}
	lowered := make([]string, 0, len(emails))
	for _, email := range emails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			lowered = append(lowered, email)
		}
	}

	query := fmt.Sprintf(`SELECT DISTINCT lower(email) FROM %s WHERE email IS NOT NULL AND lower(email) = ANY($1)`, table)
	var found []string
	if err := db.SelectContext(ctx, &found, query, pq.Array(lowered)); err != nil {
		return nil, fmt.Errorf("select existing emails from %s: %w", table, err)
	}
	for _, email := range found {
		out[email] = struct{}{}
	}
	return out, nil
}
