package analytics

type BadgeID string

const (
	BadgeSharpshooter  BadgeID = "sharpshooter"
	BadgeSpeedDemon    BadgeID = "speed_demon"
	BadgeUnstoppable   BadgeID = "unstoppable"
	BadgeCenturion     BadgeID = "centurion"
	BadgeDemolition    BadgeID = "demolition"
	BadgeTimeLord      BadgeID = "time_lord"
	BadgePerfectionist BadgeID = "perfectionist"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpshooter:  {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "5+ golden targets in a single game"},
	BadgeSpeedDemon:    {ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Average reaction time under 400ms"},
	BadgeUnstoppable:   {ID: BadgeUnstoppable, Name: "Unstoppable", Description: "Combo of 20 or more"},
	BadgeCenturion:     {ID: BadgeCenturion, Name: "Centurion", Description: "100+ points in a single game"},
	BadgeDemolition:    {ID: BadgeDemolition, Name: "Demolition", Description: "3+ bombs detonated in a single game"},
	BadgeTimeLord:      {ID: BadgeTimeLord, Name: "Time Lord", Description: "2+ time freezes in a single game"},
	BadgePerfectionist: {ID: BadgePerfectionist, Name: "Perfectionist", Description: "10+ hits without a single miss"},
}

// EvaluateSessionBadges checks which badges a game earned. Badges come back
// in a fixed order.
func EvaluateSessionBadges(stats SessionStats) []Badge {
	var earned []Badge

	// Sharpshooter: 5+ golden hits
	if stats.HitsByType["golden"] >= 5 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	// Speed Demon: avg reaction < 400ms over at least 10 hits
	if stats.Hits >= 10 && stats.AvgReaction > 0 && stats.AvgReaction < 400 {
		earned = append(earned, AllBadges[BadgeSpeedDemon])
	}

	if stats.BestCombo >= 20 {
		earned = append(earned, AllBadges[BadgeUnstoppable])
	}

	if stats.Score >= 100 {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	if stats.HitsByType["bomb"] >= 3 {
		earned = append(earned, AllBadges[BadgeDemolition])
	}

	if stats.HitsByType["timeFreeze"] >= 2 {
		earned = append(earned, AllBadges[BadgeTimeLord])
	}

	if stats.Hits >= 10 && stats.Misses == 0 {
		earned = append(earned, AllBadges[BadgePerfectionist])
	}

	return earned
}
