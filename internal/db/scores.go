package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
)

func (d *DB) BestScore(ctx context.Context, mode modes.Mode) (int, error) {
	var score int
	err := d.conn.QueryRowContext(ctx, `
		SELECT score FROM best_scores WHERE mode = $1
	`, string(mode)).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting best score: %w", err)
	}
	return score, nil
}

func (d *DB) SetBestScore(ctx context.Context, mode modes.Mode, score int) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO best_scores (mode, score, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (mode) DO UPDATE SET score = $2, updated_at = now()
	`, string(mode), score)
	if err != nil {
		return fmt.Errorf("setting best score: %w", err)
	}
	return nil
}

// ScoreHistory returns the stored list in its stored position order. Rows
// that fail validation are skipped.
func (d *DB) ScoreHistory(ctx context.Context) ([]leaderboard.ScoreRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, score, mode, recorded_at, final_combo
		FROM score_history ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("getting score history: %w", err)
	}
	defer rows.Close()

	var records []leaderboard.ScoreRecord
	for rows.Next() {
		var r leaderboard.ScoreRecord
		var mode string
		if err := rows.Scan(&r.ID, &r.Score, &mode, &r.Timestamp, &r.FinalCombo); err != nil {
			return nil, fmt.Errorf("scanning score history: %w", persistence.ErrMalformed)
		}
		r.Mode = modes.Mode(mode)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score history: %w", err)
	}
	return persistence.Clean(records), nil
}

// SetScoreHistory replaces the stored list in one transaction.
func (d *DB) SetScoreHistory(ctx context.Context, records []leaderboard.ScoreRecord) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM score_history`); err != nil {
		return fmt.Errorf("clearing score history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO score_history (position, id, score, mode, recorded_at, final_combo)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Score, string(r.Mode), r.Timestamp, r.FinalCombo); err != nil {
			return fmt.Errorf("writing score history row: %w", err)
		}
	}

	return tx.Commit()
}
