package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	var (
		u         domain.User
		birthDate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, gender, birth_date, created_at, updated_at
		 FROM users WHERE id = ?`, uid,
	).Scan(&u.UID, &u.Name, &u.Email, &u.Gender, &birthDate, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if birthDate.Valid {
		bd := birthDate.Time
		u.BirthDate = &bd
	}
	return &u, nil
}

// Update sets the given columns. Unknown keys are ignored. A nil
// birth_date clears it.
func (r *UserRepository) Update(ctx context.Context, uid string, fields map[string]any) error {
	allowed := map[string]bool{
		"name": true, "gender": true, "birth_date": true,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	setClauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		setClauses = append(setClauses, k+" = ?")
		v := fields[k]
		if t, ok := v.(*time.Time); ok {
			v = nullDate(t)
		}
		args = append(args, v)
	}

	args = append(args, uid)
	query := "UPDATE users SET " + strings.Join(setClauses, ", ") + " WHERE id = ?"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
