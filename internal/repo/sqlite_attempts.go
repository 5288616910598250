package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id          TEXT NOT NULL,
	recipient   TEXT NOT NULL,
	body        TEXT NOT NULL,
	attachment  TEXT NOT NULL DEFAULT '',
	target_time TIMESTAMP NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_status ON attempts(status, recorded_at);
`

// SQLiteAttemptRepo persists attempt records in a local SQLite database.
type SQLiteAttemptRepo struct {
	db *sql.DB
}

func NewSQLiteAttemptRepo(path string) (*SQLiteAttemptRepo, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create attempts schema: %w", err)
	}

	return &SQLiteAttemptRepo{db: db}, nil
}

func (r *SQLiteAttemptRepo) Insert(ctx context.Context, att model.Attempt) error {
	var errText sql.NullString
	if att.Error != "" {
		errText = sql.NullString{String: att.Error, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (id, recipient, body, attachment, target_time, status, error, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		att.ID,
		att.Job.Recipient,
		att.Job.Body,
		att.Job.Attachment,
		att.Job.TargetTime.UTC(),
		string(att.Status),
		errText,
		att.UpdatedAt.UTC(),
	)
	return err
}

// List returns recorded attempts newest first. status == "" lists all
// statuses.
func (r *SQLiteAttemptRepo) List(ctx context.Context, status model.Status, limit, offset int) ([]model.Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, recipient, body, attachment, target_time, status, error, recorded_at
		FROM attempts
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY recorded_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var st string
		var errText sql.NullString
		var target, recorded time.Time

		if err := rows.Scan(
			&a.ID,
			&a.Job.Recipient,
			&a.Job.Body,
			&a.Job.Attachment,
			&target,
			&st,
			&errText,
			&recorded,
		); err != nil {
			return nil, err
		}

		a.Job.TargetTime = target
		a.Status = model.Status(st)
		a.UpdatedAt = recorded
		if errText.Valid {
			a.Error = errText.String
		}

		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteAttemptRepo) Close() error {
	return r.db.Close()
}
