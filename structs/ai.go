package structs

type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=500"`
}

type StartLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteRequest struct {
	Preferences   []string       `json:"preferences"`
	Duration      int            `json:"duration" binding:"omitempty,min=1,max=12"`
	StartLocation *StartLocation `json:"start_location"`
}
