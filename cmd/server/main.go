package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/letsgoal/goal-tracker-api/internal/config"
	"github.com/letsgoal/goal-tracker-api/internal/database"
	"github.com/letsgoal/goal-tracker-api/internal/handlers"
	"github.com/letsgoal/goal-tracker-api/internal/middleware"
	"github.com/letsgoal/goal-tracker-api/internal/services"
)

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

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("goal_session", store))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	goalHandler := handlers.NewGoalHandler()
	subgoalHandler := handlers.NewSubgoalHandler()
	tagHandler := handlers.NewTagHandler()
	eventHandler := handlers.NewEventHandler()
	reportHandler := handlers.NewReportHandler()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Goal Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Goal routes (protected)
		goals := api.Group("/goals")
		goals.Use(middleware.RequireAuth())
		{
			goals.GET("", goalHandler.ListGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.GET("/:id", middleware.RequireGoalAccess(), goalHandler.GetGoal)
			goals.PATCH("/:id", middleware.RequireGoalAccess(), goalHandler.UpdateGoal)
			goals.DELETE("/:id", middleware.RequireGoalAccess(), goalHandler.DeleteGoal)
			goals.POST("/:id/archive", middleware.RequireGoalAccess(), goalHandler.ArchiveGoal)
			goals.POST("/:id/unarchive", middleware.RequireGoalAccess(), goalHandler.UnarchiveGoal)
			goals.POST("/:id/subgoals", middleware.RequireGoalAccess(), subgoalHandler.CreateSubgoal)
			goals.GET("/:id/shares", middleware.RequireGoalAccess(), goalHandler.ListShares)
			goals.POST("/:id/shares", middleware.RequireGoalAccess(), goalHandler.ShareGoal)
			goals.DELETE("/:id/shares/:user_id", middleware.RequireGoalAccess(), goalHandler.UnshareGoal)
			goals.POST("/:id/tags/:tag_id", middleware.RequireGoalAccess(), tagHandler.AttachTag)
			goals.DELETE("/:id/tags/:tag_id", middleware.RequireGoalAccess(), tagHandler.DetachTag)
			goals.GET("/:id/progress-entries", middleware.RequireGoalAccess(), reportHandler.ListProgressEntries)
			goals.POST("/:id/progress-entries", middleware.RequireGoalAccess(), reportHandler.AddProgressEntry)
		}

		// Subgoal routes (protected)
		subgoals := api.Group("/subgoals")
		subgoals.Use(middleware.RequireAuth())
		{
			subgoals.PATCH("/:id", subgoalHandler.UpdateSubgoal)
			subgoals.DELETE("/:id", subgoalHandler.DeleteSubgoal)
		}

		// Tag routes (protected)
		tags := api.Group("/tags")
		tags.Use(middleware.RequireAuth())
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.PATCH("/:id", tagHandler.UpdateTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
		}

		// Audit and reporting routes (protected)
		api.GET("/events", middleware.RequireAuth(), eventHandler.ListEvents)
		api.GET("/dashboard/stats", middleware.RequireAuth(), reportHandler.GetDashboardStats)
		api.GET("/reports/history", middleware.RequireAuth(), reportHandler.GetHistoryReport)
	}

	// Schedule the daily progress snapshot job
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(snapshotCronSpec(cfg.SnapshotTime), func() {
		count, err := services.NewReportService(database.GetDB()).CaptureDailySnapshots(time.Now())
		if err != nil {
			log.Printf("Daily snapshot job failed: %v", err)
			return
		}
		log.Printf("Daily snapshot job recorded %d entries", count)
	}); err != nil {
		log.Fatalf("Failed to schedule snapshot job: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// snapshotCronSpec converts an "HH:MM" time of day into a cron expression.
func snapshotCronSpec(timeOfDay string) string {
	parts := strings.SplitN(timeOfDay, ":", 2)
	if len(parts) != 2 {
		return "55 23 * * *"
	}
	return parts[1] + " " + parts[0] + " * * *"
}
