package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "000_create_accounts",
		sql: `
			CREATE TABLE IF NOT EXISTS accounts (
				id            CHAR(36) PRIMARY KEY,
				email         VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
	},
	{
		version: "001_create_users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id         CHAR(36) PRIMARY KEY,
				name       VARCHAR(100) NOT NULL,
				email      VARCHAR(255) NOT NULL,
				gender     VARCHAR(10) NOT NULL,
				birth_date DATE NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				FOREIGN KEY (id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "002_create_password_reset_tokens",
		sql: `
			CREATE TABLE IF NOT EXISTS password_reset_tokens (
				id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				account_id CHAR(36) NOT NULL,
				token      CHAR(6) NOT NULL,
				expires_at DATETIME NOT NULL,
				used       TINYINT(1) NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "003_create_diagnoses",
		sql: `
			CREATE TABLE IF NOT EXISTS diagnoses (
				user_id                 CHAR(36) NOT NULL,
				id                      CHAR(16) NOT NULL,
				date                    VARCHAR(10) NOT NULL,
				created_at              DATETIME NOT NULL,
				name                    VARCHAR(100) NOT NULL,
				gender                  VARCHAR(10) NOT NULL,
				age                     INT NOT NULL,
				weight                  DOUBLE NOT NULL,
				height                  DOUBLE NOT NULL,
				bmi_category            VARCHAR(20) NOT NULL,
				sleep_duration          DOUBLE NOT NULL,
				quality_of_sleep        DOUBLE NOT NULL,
				physical_activity_level DOUBLE NOT NULL,
				stress_level            DOUBLE NOT NULL,
				blood_pressure          VARCHAR(50) NOT NULL,
				heart_rate              DOUBLE NOT NULL,
				daily_steps             DOUBLE NOT NULL,
				sleep_disorder          VARCHAR(100) NOT NULL,
				solution                TEXT NULL,
				PRIMARY KEY (user_id, id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "004_create_solutions",
		sql: `
			CREATE TABLE IF NOT EXISTS solutions (
				disorder VARCHAR(100) PRIMARY KEY,
				solution TEXT NOT NULL
			)`,
	},
	{
		version: "005_seed_solutions",
		sql: `
			INSERT IGNORE INTO solutions (disorder, solution) VALUES
			('Insomnia', 'Keep a fixed sleep and wake time every day, including weekends. Avoid caffeine after noon, heavy meals and screens in the hour before bed, and keep the bedroom dark, quiet and cool. Get out of bed if you cannot fall asleep within 20 minutes and return when sleepy. Consult a doctor if sleeplessness lasts for more than three months.'),
			('Sleep Apnea', 'Sleep on your side rather than your back, avoid alcohol and sedatives before bedtime and work towards a healthy body weight with regular exercise. Loud snoring, gasping during sleep or daytime sleepiness should be checked by a doctor, who may recommend a sleep study or a CPAP device.'),
			('None', 'No sleep disorder detected. Keep up a regular sleep schedule of 7 to 9 hours, stay physically active, manage stress and limit caffeine and screen time in the evening to maintain healthy sleep.')`,
	},
}

func RunMigrations(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(ctx, db, m); err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("version", m.version))
	}

	return nil
}

func isMigrationApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.version, err)
	}

	for _, stmt := range strings.Split(m.sql, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version) VALUES (?)",
		m.version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
