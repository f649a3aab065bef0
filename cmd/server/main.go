package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"saratovquest/config"
	"saratovquest/controllers"
	"saratovquest/db"
	"saratovquest/middlewares"
	"saratovquest/routes"
	"saratovquest/services"
	"saratovquest/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	database, err := db.Connect(context.Background(), cfg.Database.URL, cfg.Database.MaxConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer database.Close()
	log.Println("Connected to PostgreSQL")

	if err := db.Seed(context.Background(), database); err != nil {
		log.Fatalf("Failed to seed initial data: %v", err)
	}

	router := setupRouter(cfg, database)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config, database *db.Database) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	allowOrigins := cfg.Cors.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	issuer := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.ExpiryDays)
	assistant := services.NewAssistant(cfg.Openai.ApiKey, cfg.Openai.Model)
	aiLimiter := middlewares.NewRateLimiter(1, 10)

	userRepo := db.NewUserRepository(database)
	placeRepo := db.NewPlaceRepository(database)
	questRepo := db.NewQuestRepository(database)
	achievementRepo := db.NewAchievementRepository(database)
	subscriptionRepo := db.NewSubscriptionRepository(database)

	authController := controllers.NewAuthController(userRepo, issuer)
	placeController := controllers.NewPlaceController(placeRepo)
	questController := controllers.NewQuestController(questRepo, userRepo)
	userController := controllers.NewUserController(userRepo, achievementRepo, subscriptionRepo)
	aiController := controllers.NewAIController(assistant, placeRepo, questRepo, userRepo)

	routes.SetupAuthRoutes(router, authController, issuer)
	routes.SetupPlaceRoutes(router, placeController, issuer)
	routes.SetupQuestRoutes(router, questController, issuer)
	routes.SetupUserRoutes(router, userController, issuer)
	routes.SetupAIRoutes(router, aiController, issuer, aiLimiter)

	router.GET("/api", indexHandler)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Маршрут не найден"})
	})

	return router
}

func indexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Saratov Quest API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"auth":   "/api/auth",
			"places": "/api/places",
			"quests": "/api/quests",
			"users":  "/api/users",
			"ai":     "/api/ai",
		},
	})
}
