package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"saratovquest/middlewares"
	"saratovquest/models"
	"saratovquest/services"
	"saratovquest/structs"

	"github.com/gin-gonic/gin"
)

// PlaceRecommender supplies place candidates for the digest and the
// route planner.
type PlaceRecommender interface {
	Recommended(ctx context.Context, categories []string, limit int) ([]models.Place, error)
	TopRated(ctx context.Context, categories []string, limit int) ([]models.Place, error)
}

// QuestRecommender supplies the user's category history and open
// quest candidates.
type QuestRecommender interface {
	Preferences(ctx context.Context, userID int) ([]models.UserPreference, error)
	Recommended(ctx context.Context, userID, limit int) ([]models.Quest, error)
}

// AIController handles the chatbot, recommendations and route planning.
type AIController struct {
	assistant *services.Assistant
	places    PlaceRecommender
	quests    QuestRecommender
	users     UserStore
}

func NewAIController(assistant *services.Assistant, places PlaceRecommender, quests QuestRecommender, users UserStore) *AIController {
	return &AIController{assistant: assistant, places: places, quests: quests, users: users}
}

// Chat answers a visitor message. The endpoint is open to guests;
// premium phrasing applies only when an optional token identified a
// premium user.
func (ai *AIController) Chat(c *gin.Context) {
	var req structs.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Сообщение должно быть от 1 до 500 символов"})
		return
	}

	var user *models.User
	if userID, ok := middlewares.UserID(c); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		u, err := ai.users.GetByID(ctx, userID)
		cancel()
		if err == nil {
			user = u
		}
	}

	response := ai.assistant.Respond(c.Request.Context(), req.Message, user)

	c.JSON(http.StatusOK, gin.H{
		"response":    response,
		"suggestions": services.Suggestions(),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Recommendations builds a personal digest: places matching the
// user's dominant quest categories and quests they have not finished.
func (ai *AIController) Recommendations(c *gin.Context) {
	userID, _ := middlewares.UserID(c)
	category := c.Query("category")
	mood := c.Query("mood")
	timeOfDay := c.Query("time_of_day")

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	preferences, err := ai.quests.Preferences(ctx, userID)
	if err != nil {
		log.Printf("Failed to load preferences: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения предпочтений"})
		return
	}

	var categories []string
	if category != "" {
		categories = []string{category}
	} else {
		for i, p := range preferences {
			if i == 3 {
				break
			}
			categories = append(categories, p.Category)
		}
	}

	places, err := ai.places.Recommended(ctx, categories, 10)
	if err != nil {
		log.Printf("Failed to load recommended places: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения рекомендаций мест"})
		return
	}

	quests, err := ai.quests.Recommended(ctx, userID, 5)
	if err != nil {
		log.Printf("Failed to load recommended quests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения рекомендаций квестов"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": gin.H{
			"places":           places,
			"quests":           quests,
			"message":          services.RecommendationMessage(timeOfDay, mood),
			"user_preferences": preferences,
		},
	})
}

// Route composes a simple walking route from the top-rated places in
// the requested categories.
func (ai *AIController) Route(c *gin.Context) {
	var req structs.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	duration := req.Duration
	if duration == 0 {
		duration = 4
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	places, err := ai.places.TopRated(ctx, req.Preferences, 10)
	if err != nil {
		log.Printf("Failed to load places for route: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения мест для маршрута"})
		return
	}

	stops := services.BuildRoute(places, duration)

	c.JSON(http.StatusOK, gin.H{
		"route": gin.H{
			"places":             stops,
			"estimated_duration": duration,
			"total_distance":     services.RouteDistance(stops),
			"description":        routeDescription(duration),
		},
	})
}

func routeDescription(duration int) string {
	return fmt.Sprintf("Персональный маршрут на %d часов по интересным местам Саратова", duration)
}
