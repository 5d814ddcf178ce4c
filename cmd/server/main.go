package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mnakayama/task-manager-api/internal/config"
	"github.com/mnakayama/task-manager-api/internal/database"
	"github.com/mnakayama/task-manager-api/internal/handlers"
	"github.com/mnakayama/task-manager-api/internal/middleware"
	"github.com/mnakayama/task-manager-api/internal/repository"
	"github.com/mnakayama/task-manager-api/internal/services"
	"github.com/mnakayama/task-manager-api/internal/validation"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Custom binding rules
	validation.RegisterRules()

	db := database.GetDB()

	// Repositories
	counterRepo := repository.NewCounterRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository()
	notificationRepo := repository.NewNotificationRepository()

	// Services
	authService := services.NewAuthService(userRepo, counterRepo)
	tokenService := services.NewTokenService(cfg.SecretKey, cfg.TokenExpireMinutes)
	notificationService := services.NewNotificationService(notificationRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, counterRepo, notificationService)
	commentService := services.NewCommentService(commentRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestLog())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": version,
		})
	})

	requireAuth := middleware.RequireAuth(tokenService, authService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/token", authHandler.Token)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/refresh", requireAuth, authHandler.Refresh)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/statistics", taskHandler.Statistics)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("/task/:task_id", commentHandler.ListTaskComments)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/preferences", notificationHandler.SetPreferences)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
