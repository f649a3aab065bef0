package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"saratovquest/db"
	"saratovquest/middlewares"
	"saratovquest/models"
	"saratovquest/structs"

	"github.com/gin-gonic/gin"
)

// QuestStore is the storage surface the quest handlers need.
type QuestStore interface {
	List(ctx context.Context, filter db.QuestFilter) ([]models.Quest, error)
	Get(ctx context.Context, id int) (*models.Quest, error)
	MyCompleted(ctx context.Context, userID int) ([]models.CompletedQuest, error)
	MyAvailable(ctx context.Context, userID int) ([]models.Quest, error)
	Complete(ctx context.Context, questID, userID int) (*models.Quest, int, error)
	Create(ctx context.Context, q *models.Quest) (*models.Quest, error)
	Stats(ctx context.Context, userID int) (*models.QuestStats, error)
	CategoryCounts(ctx context.Context, userID int) ([]models.CategoryCount, error)
}

// QuestController handles quest listing, creation and completion.
type QuestController struct {
	quests QuestStore
	users  UserStore
}

func NewQuestController(quests QuestStore, users UserStore) *QuestController {
	return &QuestController{quests: quests, users: users}
}

func (qc *QuestController) List(c *gin.Context) {
	filter := db.QuestFilter{
		Category:   c.Query("category"),
		Difficulty: parseIntQuery(c, "difficulty", 0),
		Limit:      parseIntQuery(c, "limit", 20),
		Offset:     parseIntQuery(c, "offset", 0),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	quests, err := qc.quests.List(ctx, filter)
	if err != nil {
		log.Printf("Failed to list quests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// My returns the user's completed quests alongside the ones still open
// to them.
func (qc *QuestController) My(c *gin.Context) {
	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	completed, err := qc.quests.MyCompleted(ctx, userID)
	if err != nil {
		log.Printf("Failed to load completed quests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	available, err := qc.quests.MyAvailable(ctx, userID)
	if err != nil {
		log.Printf("Failed to load available quests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed": completed,
		"available": available,
	})
}

func (qc *QuestController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	quest, err := qc.quests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Квест не найден"})
			return
		}
		log.Printf("Failed to load quest %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quest": quest})
}

// Complete awards the quest exactly once. The insert, the points and
// the level move together in one transaction; a repeat attempt is a
// 400 no matter how exactly it races.
func (qc *QuestController) Complete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор"})
		return
	}

	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	quest, pointsEarned, err := qc.quests.Complete(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Квест не найден или неактивен"})
		case errors.Is(err, db.ErrDuplicate):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Квест уже выполнен"})
		default:
			log.Printf("Failed to complete quest %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка выполнения квеста"})
		}
		return
	}

	user, err := qc.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("Failed to load user after quest completion: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Квест успешно выполнен!",
		"points_earned": pointsEarned,
		"total_points":  user.Points,
		"level":         user.Level,
		"quest":         quest,
	})
}

func (qc *QuestController) Create(c *gin.Context) {
	var req structs.CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	quest, err := qc.quests.Create(ctx, &models.Quest{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		PointsReward: req.PointsReward,
		Difficulty:   req.Difficulty,
		PlaceID:      req.PlaceID,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Указанное место не найдено"})
			return
		}
		log.Printf("Failed to create quest: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка создания квеста"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Квест успешно создан",
		"quest":   quest,
	})
}

// MyStats reports the user's completions bucketed by difficulty plus
// per-category counts.
func (qc *QuestController) MyStats(c *gin.Context) {
	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	stats, err := qc.quests.Stats(ctx, userID)
	if err != nil {
		log.Printf("Failed to load quest stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	categories, err := qc.quests.CategoryCounts(ctx, userID)
	if err != nil {
		log.Printf("Failed to load category counts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":      stats,
		"categories": categories,
	})
}
