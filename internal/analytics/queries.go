package analytics

import (
	"context"
	"fmt"

	"reactiongame/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

// GetSessionStats rebuilds a session's hit stats from the recorded hit log.
// Misses are not recorded there and stay zero.
func (q *Queries) GetSessionStats(ctx context.Context, sessionID string) (*SessionStats, error) {
	stats := &SessionStats{
		SessionID:  sessionID,
		HitsByType: make(map[string]int),
	}

	err := q.DB.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as hits,
			COALESCE(MAX(mode), '') as mode,
			COALESCE(MAX(score), 0) as score,
			COALESCE(MAX(combo), 0) as best_combo,
			COALESCE(AVG(reaction_ms), 0) as avg_reaction,
			COALESCE(MIN(reaction_ms), 0) as best_reaction
		FROM hit_events
		WHERE session_id = $1
	`, sessionID).Scan(&stats.Hits, &stats.Mode, &stats.Score, &stats.BestCombo, &stats.AvgReaction, &stats.BestReaction)
	if err != nil {
		return nil, fmt.Errorf("getting hit stats: %w", err)
	}

	rows, err := q.DB.QueryContext(ctx, `
		SELECT target_type, COUNT(*)
		FROM hit_events
		WHERE session_id = $1
		GROUP BY target_type
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("getting hits by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		stats.HitsByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting hits by type: %w", err)
	}

	stats.Badges = EvaluateSessionBadges(*stats)
	return stats, nil
}
