package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"saratovquest/db"
	"saratovquest/middlewares"
	"saratovquest/models"
	"saratovquest/services"
	"saratovquest/structs"

	"github.com/gin-gonic/gin"
)

// AchievementStore is the storage surface for the achievement catalog.
type AchievementStore interface {
	Catalog(ctx context.Context) ([]models.Achievement, error)
	EarnedBy(ctx context.Context, userID int) ([]models.EarnedAchievement, error)
}

// SubscriptionStore activates premium plans.
type SubscriptionStore interface {
	Activate(ctx context.Context, userID int, planType string, price int) (*models.BusinessSubscription, error)
}

// planPrices are the demo prices per plan, in rubles.
var planPrices = map[string]int{
	"monthly": 299,
	"yearly":  1999,
}

// UserController handles profiles, achievements, the leaderboard and
// premium activation.
type UserController struct {
	users         UserStore
	achievements  AchievementStore
	subscriptions SubscriptionStore
}

func NewUserController(users UserStore, achievements AchievementStore, subscriptions SubscriptionStore) *UserController {
	return &UserController{users: users, achievements: achievements, subscriptions: subscriptions}
}

// Profile returns the user record with its aggregated counters.
func (uc *UserController) Profile(c *gin.Context) {
	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
			return
		}
		log.Printf("Failed to load profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	stats, err := uc.users.Stats(ctx, userID)
	if err != nil {
		log.Printf("Failed to load profile stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения статистики"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"full_name":  user.FullName,
			"avatar_url": user.AvatarURL,
			"points":     user.Points,
			"level":      user.Level,
			"is_premium": user.IsPremium,
			"created_at": user.CreatedAt,
			"stats":      stats,
		},
	})
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	var req structs.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	if err := uc.users.UpdateProfile(ctx, userID, req.FullName, req.AvatarURL); err != nil {
		log.Printf("Failed to update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления профиля"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Профиль успешно обновлен"})
}

// Achievements partitions the catalog against the user's earned set
// and point balance. The partition is computed at read time and never
// writes anything.
func (uc *UserController) Achievements(c *gin.Context) {
	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
			return
		}
		log.Printf("Failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	catalog, err := uc.achievements.Catalog(ctx)
	if err != nil {
		log.Printf("Failed to load achievement catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения достижений"})
		return
	}

	earned, err := uc.achievements.EarnedBy(ctx, userID)
	if err != nil {
		log.Printf("Failed to load earned achievements: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения достижений"})
		return
	}

	partition := services.PartitionAchievements(catalog, earned, user.Points)

	c.JSON(http.StatusOK, gin.H{
		"earned":      partition.Earned,
		"available":   partition.Available,
		"locked":      partition.Locked,
		"user_points": user.Points,
	})
}

func (uc *UserController) Leaderboard(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	leaderboard, err := uc.users.Leaderboard(ctx, limit, offset)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения рейтинга"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard})
}

func (uc *UserController) Rank(c *gin.Context) {
	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	rank, total, err := uc.users.Rank(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
			return
		}
		log.Printf("Failed to compute rank: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения рейтинга"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":        rank,
		"total_users": total,
	})
}

func (uc *UserController) Activity(c *gin.Context) {
	userID, _ := middlewares.UserID(c)
	limit := parseIntQuery(c, "limit", 10)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	activities, err := uc.users.Activity(ctx, userID, limit)
	if err != nil {
		log.Printf("Failed to load activity feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка получения активности"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// ActivatePremium flips the premium flag and records the subscription.
// Payment is out of scope, the plan is activated immediately.
func (uc *UserController) ActivatePremium(c *gin.Context) {
	var req structs.ActivatePremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	userID, _ := middlewares.UserID(c)
	price := planPrices[req.PlanType]

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	subscription, err := uc.subscriptions.Activate(ctx, userID, req.PlanType, price)
	if err != nil {
		log.Printf("Failed to activate premium: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка активации подписки"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Premium подписка успешно активирована",
		"subscription": gin.H{
			"id":        subscription.ID,
			"plan_type": subscription.PlanType,
			"price":     subscription.Price,
		},
	})
}
