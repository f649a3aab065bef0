package models

import "time"

// Quest is a completable activity, optionally bound to a place.
// Place fields are populated by the LEFT JOIN on listing queries.
type Quest struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	PointsReward int       `json:"points_reward"`
	Difficulty   int       `json:"difficulty"`
	PlaceID      *int      `json:"place_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`

	PlaceName *string  `json:"place_name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   *string  `json:"address,omitempty"`
}

// CompletedQuest is a quest the user has finished, with the award
// captured at completion time.
type CompletedQuest struct {
	Quest
	CompletedAt  time.Time `json:"completed_at"`
	PointsEarned int       `json:"points_earned"`
}

// QuestStats buckets a user's completions by difficulty tier.
type QuestStats struct {
	TotalCompleted  int `json:"total_completed"`
	TotalPoints     int `json:"total_points"`
	EasyCompleted   int `json:"easy_completed"`
	MediumCompleted int `json:"medium_completed"`
	HardCompleted   int `json:"hard_completed"`
	ExpertCompleted int `json:"expert_completed"`
}

// CategoryCount is a per-category completion counter.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// UserPreference is a category the user gravitates to, derived from
// quest history.
type UserPreference struct {
	Category  string  `json:"category"`
	Frequency int     `json:"frequency"`
	AvgPoints float64 `json:"avg_points"`
}
