package routes

import (
	"saratovquest/controllers"
	"saratovquest/middlewares"
	"saratovquest/utils"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes mounts registration, login and the session check.
func SetupAuthRoutes(router *gin.Engine, ac *controllers.AuthController, issuer *utils.TokenIssuer) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", ac.Register)
		auth.POST("/login", ac.Login)
		auth.GET("/me", middlewares.AuthMiddleware(issuer), ac.Me)
	}
}

// SetupPlaceRoutes mounts the place catalog and reviews.
func SetupPlaceRoutes(router *gin.Engine, pc *controllers.PlaceController, issuer *utils.TokenIssuer) {
	places := router.Group("/api/places")
	{
		places.GET("", pc.List)
		places.GET("/categories/list", pc.Categories)
		places.GET("/:id", pc.Get)
		places.POST("", middlewares.AuthMiddleware(issuer), pc.Create)
		places.PUT("/:id", middlewares.AuthMiddleware(issuer), pc.Update)
		places.POST("/:id/reviews", middlewares.AuthMiddleware(issuer), pc.AddReview)
	}
}

// SetupQuestRoutes mounts quest listing, creation and completion.
func SetupQuestRoutes(router *gin.Engine, qc *controllers.QuestController, issuer *utils.TokenIssuer) {
	quests := router.Group("/api/quests")
	{
		quests.GET("", qc.List)
		quests.GET("/my", middlewares.AuthMiddleware(issuer), qc.My)
		quests.GET("/stats/my", middlewares.AuthMiddleware(issuer), qc.MyStats)
		quests.GET("/:id", qc.Get)
		quests.POST("", middlewares.AuthMiddleware(issuer), qc.Create)
		quests.POST("/:id/complete", middlewares.AuthMiddleware(issuer), qc.Complete)
	}
}

// SetupUserRoutes mounts profiles, achievements, the leaderboard and
// premium activation.
func SetupUserRoutes(router *gin.Engine, uc *controllers.UserController, issuer *utils.TokenIssuer) {
	users := router.Group("/api/users")
	{
		users.GET("/leaderboard", uc.Leaderboard)

		authed := users.Group("")
		authed.Use(middlewares.AuthMiddleware(issuer))
		{
			authed.GET("/profile", uc.Profile)
			authed.PUT("/profile", uc.UpdateProfile)
			authed.GET("/achievements", uc.Achievements)
			authed.GET("/rank", uc.Rank)
			authed.GET("/activity", uc.Activity)
			authed.POST("/premium/activate", uc.ActivatePremium)
		}
	}
}

// SetupAIRoutes mounts the assistant. Chat is open to guests; the
// personalized endpoints require a token. All of it sits behind the
// rate limiter.
func SetupAIRoutes(router *gin.Engine, aic *controllers.AIController, issuer *utils.TokenIssuer, limiter *middlewares.RateLimiter) {
	ai := router.Group("/api/ai")
	ai.Use(limiter.Middleware())
	{
		ai.POST("/chat", middlewares.OptionalAuthMiddleware(issuer), aic.Chat)
		ai.GET("/recommendations", middlewares.AuthMiddleware(issuer), aic.Recommendations)
		ai.POST("/route", middlewares.AuthMiddleware(issuer), aic.Route)
	}
}
