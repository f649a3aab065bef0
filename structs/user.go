package structs

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,min=2,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

type ActivatePremiumRequest struct {
	PlanType string `json:"plan_type" binding:"required,oneof=monthly yearly"`
}
