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

// PlaceStore is the storage surface the place handlers need.
type PlaceStore interface {
	List(ctx context.Context, filter db.PlaceFilter) ([]models.Place, error)
	Get(ctx context.Context, id int) (*models.Place, error)
	GetWithReviews(ctx context.Context, id int) (*models.PlaceWithReviews, error)
	Create(ctx context.Context, p *models.Place) (*models.Place, error)
	Update(ctx context.Context, id int, name, description, category *string,
		latitude, longitude *float64, address, phone, website, imageURL *string) error
	AddReview(ctx context.Context, placeID, userID, rating int, comment string) (*models.Review, error)
}

// placeCategories is the static category enum the map UI filters on.
var placeCategories = []models.PlaceCategory{
	{ID: "restaurant", Name: "Рестораны", Icon: "🍽️"},
	{ID: "cafe", Name: "Кафе", Icon: "☕"},
	{ID: "park", Name: "Парки", Icon: "🌳"},
	{ID: "museum", Name: "Музеи", Icon: "🏛️"},
	{ID: "culture", Name: "Культура", Icon: "🎭"},
	{ID: "attraction", Name: "Достопримечательности", Icon: "🏰"},
	{ID: "shopping", Name: "Шоппинг", Icon: "🛍️"},
	{ID: "entertainment", Name: "Развлечения", Icon: "🎮"},
	{ID: "sport", Name: "Спорт", Icon: "⚽"},
	{ID: "hotel", Name: "Отели", Icon: "🏨"},
}

// PlaceController handles the place catalog and its reviews.
type PlaceController struct {
	places PlaceStore
}

func NewPlaceController(places PlaceStore) *PlaceController {
	return &PlaceController{places: places}
}

func (pc *PlaceController) List(c *gin.Context) {
	filter := db.PlaceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Limit:    parseIntQuery(c, "limit", 50),
		Offset:   parseIntQuery(c, "offset", 0),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	places, err := pc.places.List(ctx, filter)
	if err != nil {
		log.Printf("Failed to list places: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"places": places})
}

func (pc *PlaceController) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	place, err := pc.places.GetWithReviews(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Место не найдено"})
			return
		}
		log.Printf("Failed to load place %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

func (pc *PlaceController) Create(c *gin.Context) {
	var req structs.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	place, err := pc.places.Create(ctx, &models.Place{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Address:     req.Address,
		Phone:       req.Phone,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
		OwnerID:     &userID,
	})
	if err != nil {
		log.Printf("Failed to create place: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка создания места"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Место успешно добавлено",
		"place":   place,
	})
}

// Update merges the provided fields. Only the owner may edit.
func (pc *PlaceController) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор"})
		return
	}

	var req structs.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	place, err := pc.places.Get(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Место не найдено"})
			return
		}
		log.Printf("Failed to load place %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}
	if place.OwnerID == nil || *place.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Нет прав для редактирования этого места"})
		return
	}

	if err := pc.places.Update(ctx, id, req.Name, req.Description, req.Category,
		req.Latitude, req.Longitude, req.Address, req.Phone, req.Website, req.ImageURL); err != nil {
		log.Printf("Failed to update place %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка обновления места"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Место успешно обновлено"})
}

// AddReview records one review per user per place and folds it into
// the stored rating.
func (pc *PlaceController) AddReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный идентификатор"})
		return
	}

	var req structs.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	userID, _ := middlewares.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	review, err := pc.places.AddReview(ctx, id, userID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Место не найдено"})
		case errors.Is(err, db.ErrDuplicate):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Вы уже оставили отзыв для этого места"})
		default:
			log.Printf("Failed to add review for place %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка добавления отзыва"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Отзыв успешно добавлен",
		"review":  review,
	})
}

func (pc *PlaceController) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": placeCategories})
}

// parseIntQuery reads an integer query parameter, falling back to def
// on absence or garbage.
func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
