package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/persistence"
)

// persist records the finished session. Store failures are logged and the
// write is dropped; the next finished session re-reads and rewrites the
// whole history. Malformed stored data is replaced. The best score is only
// written when the stored one could be read and was beaten.
func (e *Engine) persist(ctx context.Context) {
	log := e.log.WithField("score", e.state.Score)

	history, err := e.store.ScoreHistory(ctx)
	switch {
	case errors.Is(err, persistence.ErrMalformed):
		log.WithError(err).Warn("[Store] Discarding malformed score history")
		history = nil
		err = nil
	case err != nil:
		log.WithError(err).Warn("[Store] Loading score history failed, dropping record")
	}
	if err == nil {
		rec := leaderboard.ScoreRecord{
			ID:         uuid.New().String(),
			Score:      e.state.Score,
			Mode:       e.state.Mode,
			Timestamp:  e.clk.Now(),
			FinalCombo: e.state.Combo,
		}
		if err := e.store.SetScoreHistory(ctx, leaderboard.Insert(history, rec)); err != nil {
			log.WithError(err).Warn("[Store] Saving score history failed, dropping record")
		}
	}

	best, err := e.store.BestScore(ctx, e.state.Mode)
	switch {
	case errors.Is(err, persistence.ErrMalformed):
		log.WithError(err).Warn("[Store] Discarding malformed best score")
		best = 0
	case err != nil:
		// the stored best is unknown; writing could lower it
		log.WithError(err).Warn("[Store] Loading best score failed, skipping best score update")
		return
	}
	if e.state.Score > best {
		if err := e.store.SetBestScore(ctx, e.state.Mode, e.state.Score); err != nil {
			log.WithError(err).Warn("[Store] Saving best score failed")
		}
	}
}
