package analytics

// SessionStats summarizes the current game of one session.
type SessionStats struct {
	SessionID    string         `json:"sessionId"`
	Mode         string         `json:"mode"`
	Hits         int            `json:"hits"`
	Misses       int            `json:"misses"`
	Score        int            `json:"score"`
	BestCombo    int            `json:"bestCombo"`
	AvgReaction  float64        `json:"avgReactionMs"`
	BestReaction int            `json:"bestReactionMs"`
	HitsByType   map[string]int `json:"hitsByType"`
	Badges       []Badge        `json:"badges"`
}
