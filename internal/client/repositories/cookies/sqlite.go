package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the stored cookie or (nil, nil) when there is none. Expiry is
// not checked here; callers decide what an expired cookie means.
func (r *SQLiteRepository) Get(ctx context.Context, name, path string) (*Cookie, error) {
	var (
		c       = Cookie{Name: name, Path: path}
		expires int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cookies WHERE name = ? AND path = ?`, name, path,
	).Scan(&c.Value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}
	c.ExpiresAt = time.Unix(expires, 0)
	return &c, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, c Cookie) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, path, value, expires_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name, path) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, c.Name, c.Path, c.Value, c.ExpiresAt.Unix(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set cookie[%s]: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name, path string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ? AND path = ?`, name, path)
	if err != nil {
		return fmt.Errorf("failed to delete cookie[%s]: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE expires_at <= ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired cookies: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, path, value, expires_at FROM cookies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	var result []Cookie
	for rows.Next() {
		var (
			c       Cookie
			expires int64
		)
		if err := rows.Scan(&c.Name, &c.Path, &c.Value, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		c.ExpiresAt = time.Unix(expires, 0)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}
