package structs

type CreatePlaceRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=200"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Address     string   `json:"address" binding:"omitempty,min=5"`
	Phone       string   `json:"phone"`
	Website     string   `json:"website"`
	ImageURL    string   `json:"image_url"`
}

// UpdatePlaceRequest carries a partial merge: nil fields keep the
// stored value.
type UpdatePlaceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,min=1"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     *string  `json:"address"`
	Phone       *string  `json:"phone"`
	Website     *string  `json:"website"`
	ImageURL    *string  `json:"image_url"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=500"`
}
