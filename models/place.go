package models

import "time"

// Place is a catalog entry on the city map.
type Place struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	Rating      float64   `json:"rating"`
	ImageURL    string    `json:"image_url"`
	IsPremium   bool      `json:"is_premium"`
	OwnerID     *int      `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceWithReviews is the detail view of a place.
type PlaceWithReviews struct {
	Place
	Reviews []Review `json:"reviews"`
}

// Review is a user's rating of a place, annotated with the reviewer
// when read back.
type Review struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PlaceID   int       `json:"place_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// PlaceCategory is one entry of the static category enum.
type PlaceCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}
