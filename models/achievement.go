package models

import "time"

// Achievement is one entry of the static, seeded catalog.
type Achievement struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	PointsRequired int    `json:"points_required"`
}

// EarnedAchievement is an achievement with the time it was recorded
// for a user.
type EarnedAchievement struct {
	Achievement
	EarnedAt time.Time `json:"earned_at"`
}
