package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"saratovquest/db"
	"saratovquest/middlewares"
	"saratovquest/models"
	"saratovquest/structs"
	"saratovquest/utils"

	"github.com/gin-gonic/gin"
)

// dbTimeout bounds every storage call issued from a handler.
const dbTimeout = 5 * time.Second

// UserStore is the storage surface the auth and user handlers need.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, fullName string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int, fullName, avatarURL *string) error
	Stats(ctx context.Context, id int) (*models.UserStats, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]models.LeaderboardEntry, error)
	Rank(ctx context.Context, id int) (rank, total int, err error)
	Activity(ctx context.Context, id, limit int) ([]models.Activity, error)
}

// AuthController handles registration, login and session checks.
type AuthController struct {
	users  UserStore
	tokens *utils.TokenIssuer
}

func NewAuthController(users UserStore, tokens *utils.TokenIssuer) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Register creates the account and issues the session token.
func (ac *AuthController) Register(c *gin.Context) {
	var req structs.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	exists, err := ac.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		log.Printf("Failed to check user existence: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Пользователь с таким именем или email уже существует"})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Внутренняя ошибка сервера"})
		return
	}

	user, err := ac.users.Create(ctx, req.Username, req.Email, passwordHash, req.FullName)
	if err != nil {
		// The unique indexes close the check-then-insert race.
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Пользователь с таким именем или email уже существует"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка создания пользователя"})
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Пользователь успешно зарегистрирован",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates by username or email. Missing account and wrong
// password answer identically so the response leaks neither.
func (ac *AuthController) Login(c *gin.Context) {
	var req structs.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректные данные", "errors": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := ac.users.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Неверные учетные данные"})
			return
		}
		log.Printf("Failed to look up user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Неверные учетные данные"})
		return
	}

	token, err := ac.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Внутренняя ошибка сервера"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Успешный вход",
		"token":   token,
		"user":    user,
	})
}

// Me resolves the bearer token to the current user record.
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Токен не предоставлен"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := ac.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Пользователь не найден"})
			return
		}
		log.Printf("Failed to load user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Ошибка базы данных"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
