package db

import (
	"context"
	"fmt"
	"time"
)

type HitEvent struct {
	SessionID  string
	TargetID   string
	TargetType string
	Mode       string
	Points     int
	Combo      int
	Score      int
	TargetX    float64
	TargetY    float64
	SpawnedAt  time.Time
	HitAt      time.Time
	ReactionMs int
}

func (d *DB) BatchRecordHits(ctx context.Context, events []HitEvent) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hit_events (session_id, target_id, target_type, mode, points, combo, score, target_x, target_y, spawned_at, hit_at, reaction_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.SessionID, ev.TargetID, ev.TargetType, ev.Mode, ev.Points, ev.Combo, ev.Score, ev.TargetX, ev.TargetY, ev.SpawnedAt, ev.HitAt, ev.ReactionMs); err != nil {
			return fmt.Errorf("recording hit in batch: %w", err)
		}
	}

	return tx.Commit()
}
