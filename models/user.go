package models

import "time"

// User defines a user entity. PasswordHash never leaves the API.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	AvatarURL    string    `json:"avatar_url"`
	Points       int       `json:"points"`
	Level        int       `json:"level"`
	IsPremium    bool      `json:"is_premium"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserStats aggregates a user's activity counters for the profile view.
type UserStats struct {
	QuestsCompleted    int `json:"quests_completed"`
	CategoriesExplored int `json:"categories_explored"`
	ReviewsWritten     int `json:"reviews_written"`
	AchievementsEarned int `json:"achievements_earned"`
}

// LeaderboardEntry is one row of the points ranking.
type LeaderboardEntry struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"full_name"`
	AvatarURL       string `json:"avatar_url"`
	Points          int    `json:"points"`
	Level           int    `json:"level"`
	QuestsCompleted int    `json:"quests_completed"`
	Position        int    `json:"position"`
}

// Activity is a single entry of the user's recent-actions feed.
type Activity struct {
	Type      string    `json:"type"` // quest_completed, review_added, achievement_earned
	Title     string    `json:"title"`
	Points    *int      `json:"points"`
	Rating    *int      `json:"rating"`
	PlaceName *string   `json:"place_name,omitempty"`
	Date      time.Time `json:"date"`
}

// BusinessSubscription records a paid premium plan for a user.
type BusinessSubscription struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	PlanType  string     `json:"plan_type"`
	Price     int        `json:"price"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `json:"is_active"`
}
