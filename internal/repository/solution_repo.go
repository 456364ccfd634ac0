package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type SolutionRepository struct {
	db *sql.DB
}

func NewSolutionRepository(db *sql.DB) *SolutionRepository {
	return &SolutionRepository{db: db}
}

// Get returns nil when no solution is stored for the disorder.
func (r *SolutionRepository) Get(ctx context.Context, disorder string) (*string, error) {
	var solution string
	err := r.db.QueryRowContext(ctx,
		`SELECT solution FROM solutions WHERE disorder = ?`, disorder,
	).Scan(&solution)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return &solution, nil
}
