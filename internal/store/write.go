package store

import (
	"context"
	"fmt"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// UpsertAll inserts apps in a single transaction and returns how many rows were new.
// Uses ON CONFLICT(appid) DO NOTHING - existing keys are silently skipped and
// never overwritten, so repeated calls with the same apps are idempotent.
func (s *Store) UpsertAll(ctx context.Context, apps []steamapp.App) (int, error) {
	if len(apps) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("upsert apps: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO steamapp (appid, name)
		VALUES (?, ?)
		ON CONFLICT(appid) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("upsert apps: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, app := range apps {
		result, err := stmt.ExecContext(ctx, int64(app.AppID), app.Name)
		if err != nil {
			return 0, fmt.Errorf("upsert apps: insert %d: %w", app.AppID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("upsert apps: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert apps: commit: %w", err)
	}

	return inserted, nil
}
