package structs

type CreateQuestRequest struct {
	Title        string `json:"title" binding:"required,min=5,max=200"`
	Description  string `json:"description" binding:"required,min=10"`
	Category     string `json:"category" binding:"required"`
	PointsReward int    `json:"points_reward" binding:"required,min=1,max=1000"`
	Difficulty   int    `json:"difficulty" binding:"required,min=1,max=5"`
	PlaceID      *int   `json:"place_id"`
}
