package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragmas: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

// Create inserts t; an existing id leaves the row untouched and reports ErrDuplicateID.
func (r *SQLiteRepo) Create(ctx context.Context, t Task) (Task, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, task, completed, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, t.ID, t.Task, t.Completed, t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return Task{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Task{}, err
	}
	if n == 0 {
		return Task{}, ErrDuplicateID
	}
	return t, nil
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task, completed, created_at
		FROM tasks
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		var t Task
		var created string
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed, &created); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			t.CreatedAt = ts
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApplyMigrations ensures schema exists and adds the completed column to
// tables created before it existed.
func (r *SQLiteRepo) ApplyMigrations(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	task TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
	`); err != nil {
		return err
	}

	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('tasks') WHERE name = 'completed'`,
	).Scan(&n); err != nil {
		return fmt.Errorf("inspect tasks table: %w", err)
	}
	if n == 0 {
		if _, err := r.db.ExecContext(ctx,
			`ALTER TABLE tasks ADD COLUMN completed INTEGER NOT NULL DEFAULT 0`,
		); err != nil {
			return fmt.Errorf("add completed column: %w", err)
		}
	}
	return nil
}

// SQLiteFileDSN builds a DSN like file:/absolute/path?_pragma=busy_timeout(5000),
// creating the parent directory if needed.
func SQLiteFileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}
