package routes

import (
	"net/http"

	"unicampus/handlers"
	"unicampus/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	subjectHandler *handlers.SubjectHandler,
	evaluationHandler *handlers.EvaluationHandler,
	attemptHandler *handlers.AttemptHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile and admin-created accounts
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.POST("/users", authHandler.CreateUser)

			// Subject and enrollment routes
			subjects := protected.Group("/subjects")
			{
				subjects.GET("", subjectHandler.ListSubjects)
				subjects.POST("", subjectHandler.CreateSubject)
				subjects.GET("/:id", subjectHandler.GetSubject)
				subjects.PUT("/:id", subjectHandler.UpdateSubject)
				subjects.DELETE("/:id", subjectHandler.DeleteSubject)
				subjects.GET("/:id/enrollments", subjectHandler.ListEnrolled)
				subjects.POST("/:id/enrollments", subjectHandler.Enroll)
				subjects.DELETE("/:id/enrollments/:studentID", subjectHandler.Unenroll)
				subjects.GET("/:id/evaluations", evaluationHandler.ListForSubject)
			}

			// Evaluation and question-bank routes
			evaluations := protected.Group("/evaluations")
			{
				evaluations.POST("", evaluationHandler.CreateEvaluation)
				evaluations.GET("/:id", evaluationHandler.GetEvaluation)
				evaluations.PUT("/:id", evaluationHandler.UpdateEvaluation)
				evaluations.PATCH("/:id/visibility", evaluationHandler.SetVisibility)
				evaluations.DELETE("/:id", evaluationHandler.DeleteEvaluation)
				evaluations.POST("/:id/questions", evaluationHandler.AddQuestion)
				evaluations.POST("/:id/questions/swap", evaluationHandler.SwapQuestions)

				// Attempt engine
				evaluations.POST("/:id/attempts", attemptHandler.StartAttempt)
				evaluations.GET("/:id/attempts", attemptHandler.ListForEvaluation)
				evaluations.GET("/:id/stats", attemptHandler.Stats)
			}

			questions := protected.Group("/questions")
			{
				questions.PUT("/:questionID", evaluationHandler.UpdateQuestion)
				questions.DELETE("/:questionID", evaluationHandler.DeleteQuestion)
			}

			attempts := protected.Group("/attempts")
			{
				attempts.GET("", attemptHandler.ListMine)
				attempts.GET("/:id", attemptHandler.GetAttempt)
				attempts.POST("/:id/submit", attemptHandler.Submit)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
