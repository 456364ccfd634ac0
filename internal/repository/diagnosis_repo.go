package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

const diagnosisColumns = `id, user_id, date, created_at, name, gender, age, weight, height, bmi_category,
	sleep_duration, quality_of_sleep, physical_activity_level, stress_level, blood_pressure,
	heart_rate, daily_steps, sleep_disorder, solution`

type DiagnosisRepository struct {
	db *sql.DB
}

func NewDiagnosisRepository(db *sql.DB) *DiagnosisRepository {
	return &DiagnosisRepository{db: db}
}

func (r *DiagnosisRepository) Create(ctx context.Context, d *domain.Diagnosis) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO diagnoses (`+diagnosisColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UID, d.Date, d.CreatedAt, d.Name, d.Gender, d.Age, d.Weight, d.Height, d.BMICategory,
		d.SleepDuration, d.QualityOfSleep, d.PhysicalActivityLevel, d.StressLevel, d.BloodPressure,
		d.HeartRate, d.DailySteps, d.SleepDisorder, nullString(d.Solution),
	)
	if err != nil {
		return fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return nil
}

func (r *DiagnosisRepository) ListByUser(ctx context.Context, uid string) ([]domain.Diagnosis, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+diagnosisColumns+`
		 FROM diagnoses
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, uid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	defer rows.Close()

	var out []domain.Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DiagnosisRepository) Get(ctx context.Context, uid, id string) (*domain.Diagnosis, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+diagnosisColumns+` FROM diagnoses WHERE user_id = ? AND id = ?`, uid, id,
	)
	d, err := scanDiagnosis(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete reports whether a row was removed.
func (r *DiagnosisRepository) Delete(ctx context.Context, uid, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diagnoses WHERE user_id = ? AND id = ?`, uid, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete diagnosis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(s scanner) (*domain.Diagnosis, error) {
	var (
		d        domain.Diagnosis
		solution sql.NullString
	)
	err := s.Scan(&d.ID, &d.UID, &d.Date, &d.CreatedAt, &d.Name, &d.Gender, &d.Age, &d.Weight, &d.Height,
		&d.BMICategory, &d.SleepDuration, &d.QualityOfSleep, &d.PhysicalActivityLevel, &d.StressLevel,
		&d.BloodPressure, &d.HeartRate, &d.DailySteps, &d.SleepDisorder, &solution)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan diagnosis: %w", err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	if solution.Valid {
		s := solution.String
		d.Solution = &s
	}
	return &d, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
