package db

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"reactiongame/internal/leaderboard"
	"reactiongame/internal/modes"
	"reactiongame/internal/persistence"
)

var _ persistence.Store = (*DB)(nil)

func hitCount(t *testing.T, d *DB, sessionID string) int {
	t.Helper()
	var n int
	err := d.conn.QueryRowContext(context.Background(), `
		SELECT COUNT(*) FROM hit_events WHERE session_id = $1
	`, sessionID).Scan(&n)
	if err != nil {
		t.Fatalf("counting hits: %v", err)
	}
	return n
}

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	database, err := Connect(dsn, logger)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM hit_events")
		database.conn.Exec("DELETE FROM score_history")
		database.conn.Exec("DELETE FROM best_scores")
		database.Close()
	})
	return database
}

func TestConnect(t *testing.T) {
	database := getTestDB(t)
	if err := database.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	database := getTestDB(t)

	tables := []string{"best_scores", "score_history", "hit_events"}
	for _, table := range tables {
		var exists bool
		err := database.conn.QueryRow(`
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1)
		`, table).Scan(&exists)
		if err != nil {
			t.Errorf("checking table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestBestScore(t *testing.T) {
	ctx := context.Background()
	database := getTestDB(t)

	got, err := database.BestScore(ctx, modes.Precision)
	if err != nil {
		t.Fatalf("BestScore() error: %v", err)
	}
	if got != 0 {
		t.Errorf("absent best = %d, want 0", got)
	}

	if err := database.SetBestScore(ctx, modes.Precision, 40); err != nil {
		t.Fatalf("SetBestScore() error: %v", err)
	}
	if err := database.SetBestScore(ctx, modes.Precision, 55); err != nil {
		t.Fatalf("SetBestScore() upsert error: %v", err)
	}
	got, _ = database.BestScore(ctx, modes.Precision)
	if got != 55 {
		t.Errorf("best = %d, want 55", got)
	}
}

func TestScoreHistory_ReplaceKeepsOrder(t *testing.T) {
	ctx := context.Background()
	database := getTestDB(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := []leaderboard.ScoreRecord{
		{ID: "a", Score: 10, Mode: modes.Classic, Timestamp: now},
	}
	if err := database.SetScoreHistory(ctx, first); err != nil {
		t.Fatalf("SetScoreHistory() error: %v", err)
	}

	second := []leaderboard.ScoreRecord{
		{ID: "b", Score: 90, Mode: modes.Zen, Timestamp: now, FinalCombo: 7},
		{ID: "a", Score: 10, Mode: modes.Classic, Timestamp: now},
	}
	if err := database.SetScoreHistory(ctx, second); err != nil {
		t.Fatalf("SetScoreHistory() error: %v", err)
	}

	got, err := database.ScoreHistory(ctx)
	if err != nil {
		t.Fatalf("ScoreHistory() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("history = %v", got)
	}
	if got[0].FinalCombo != 7 || got[0].Mode != modes.Zen {
		t.Errorf("record = %+v", got[0])
	}
}

func TestBatchRecordHits(t *testing.T) {
	ctx := context.Background()
	database := getTestDB(t)

	now := time.Now()
	events := []HitEvent{
		{SessionID: "s1", TargetID: "t1", TargetType: "normal", Mode: "classic", Points: 1, Combo: 1, Score: 1, TargetX: 10, TargetY: 20, SpawnedAt: now, HitAt: now, ReactionMs: 100},
		{SessionID: "s1", TargetID: "t2", TargetType: "golden", Mode: "classic", Points: 5, Combo: 2, TargetX: 30, TargetY: 40, SpawnedAt: now, HitAt: now, ReactionMs: 200},
		{SessionID: "s2", TargetID: "t3", TargetType: "bomb", Mode: "zen", Points: 3, Combo: 0, TargetX: 50, TargetY: 60, SpawnedAt: now, HitAt: now, ReactionMs: 150},
	}

	if err := database.BatchRecordHits(ctx, events); err != nil {
		t.Fatalf("BatchRecordHits() error: %v", err)
	}

	count := hitCount(t, database, "s1")
	if count != 2 {
		t.Errorf("hit count = %d, want 2", count)
	}
}
