package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// Count returns the number of catalog entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steamapp`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count apps: %w", err)
	}
	return n, nil
}

// GetByAppID returns the entry for id.
// A missing id is not an error: the result is an unnamed entry for id.
func (s *Store) GetByAppID(ctx context.Context, id uint32) (steamapp.App, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT appid, name FROM steamapp WHERE appid = ?
	`, int64(id))

	app, err := scanApp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return steamapp.Unnamed(id), nil
	}
	if err != nil {
		return steamapp.App{}, fmt.Errorf("get app %d: %w", id, err)
	}
	return app, nil
}

// GetByName returns the first entry whose name equals name, ignoring case.
// Returns nil when no entry matches.
func (s *Store) GetByName(ctx context.Context, name string) (*steamapp.App, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT appid, name FROM steamapp
		WHERE name = ? COLLATE NOCASE
		ORDER BY appid ASC
		LIMIT 1
	`, name)

	app, err := scanApp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app by name: %w", err)
	}
	return &app, nil
}

// AllApps returns every entry ordered by appid.
// Returns an empty slice (not nil) for an empty catalog.
func (s *Store) AllApps(ctx context.Context) ([]steamapp.App, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT appid, name FROM steamapp ORDER BY appid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query apps: %w", err)
	}
	defer rows.Close()

	apps := []steamapp.App{}
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate apps: %w", err)
	}

	return apps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApp(row rowScanner) (steamapp.App, error) {
	var (
		id   int64
		name sql.NullString
	)
	if err := row.Scan(&id, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return steamapp.App{}, err
		}
		return steamapp.App{}, fmt.Errorf("scan app: %w", err)
	}

	app := steamapp.App{AppID: uint32(id)}
	if name.Valid {
		app.Name = &name.String
	}
	return app, nil
}
