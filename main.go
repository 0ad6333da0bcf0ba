package main

import (
	"log"

	"unicampus/config"
	"unicampus/handlers"
	"unicampus/middleware"
	"unicampus/models"
	"unicampus/routes"
	"unicampus/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Enrollment{},
		&models.Evaluation{},
		&models.Question{},
		&models.Attempt{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis (serializes attempt creation across instances)
	redisClient := config.InitRedis(cfg)
	locker := services.NewRedisLocker(redisClient)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	subjectService := services.NewSubjectService(db)
	evaluationService := services.NewEvaluationService(db)
	attemptService := services.NewAttemptService(db, subjectService, locker)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	subjectHandler := handlers.NewSubjectHandler(subjectService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, subjectHandler, evaluationHandler, attemptHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
