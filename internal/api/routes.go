package api

import (
	"net/http"

	"wellnest/core-backend/internal/domain"
	"wellnest/core-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	engagementService service.EngagementService,
	chatService service.ChatService,
	planService service.PlanService,
	trackerService service.TrackerService,
) {
	authHandler := NewAuthHandler(authService)
	engagementHandler := NewEngagementHandler(engagementService)
	chatHandler := NewChatHandler(chatService)
	planHandler := NewPlanHandler(planService)
	trackerHandler := NewTrackerHandler(trackerService)

	router.Use(RequestIDMiddleware())

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Engagement Routes ---
		engagementGroup := protected.Group("/engagements")
		{
			// POST /api/v1/engagements/book - clients request a trainer
			engagementGroup.POST("/book", RoleMiddleware(domain.RoleClient), engagementHandler.Book)

			// Trainer-side views of the relationship registry.
			engagementGroup.GET("/requests/:trainerId", RoleMiddleware(domain.RoleTrainer), engagementHandler.PendingRequests)
			engagementGroup.GET("/clients/:trainerId", RoleMiddleware(domain.RoleTrainer), engagementHandler.ActiveClients)
			engagementGroup.GET("/clients-past/:trainerId", RoleMiddleware(domain.RoleTrainer), engagementHandler.PastClients)
			engagementGroup.POST("/respond", RoleMiddleware(domain.RoleTrainer), engagementHandler.Respond)
			engagementGroup.POST("/add", RoleMiddleware(domain.RoleTrainer), engagementHandler.DirectAdd)

			// Client-side views; cancel is open to either side.
			engagementGroup.GET("/my-trainer/:userId", engagementHandler.MyTrainer)
			engagementGroup.GET("/history/:userId", engagementHandler.History)
			engagementGroup.DELETE("/cancel/:id", engagementHandler.Cancel)
		}

		// --- Chat Routes ---
		chatGroup := protected.Group("/chat")
		{
			chatGroup.POST("", chatHandler.Send)
			chatGroup.GET("/unread/trainer/:trainerId", RoleMiddleware(domain.RoleTrainer), chatHandler.UnreadForTrainer)
			chatGroup.GET("/unread/user/:userId", chatHandler.UnreadForUser)
			chatGroup.GET("/:relationshipId", chatHandler.History)
			chatGroup.PUT("/:relationshipId/read", chatHandler.MarkRead)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/workout", RoleMiddleware(domain.RoleTrainer), planHandler.AssignWorkout)
			planGroup.POST("/meal", RoleMiddleware(domain.RoleTrainer), planHandler.AssignMeal)
			planGroup.GET("/workout/:relationshipId", planHandler.ListWorkouts)
			planGroup.GET("/meal/:relationshipId", planHandler.ListMeals)
		}

		// --- Tracker Routes ---
		trackerGroup := protected.Group("/tracker")
		{
			trackerGroup.POST("/workouts", trackerHandler.LogWorkout)
			trackerGroup.GET("/workouts/:userId/today", trackerHandler.TodayWorkouts)
			trackerGroup.POST("/meals", trackerHandler.LogMeal)
			trackerGroup.GET("/meals/:userId/today", trackerHandler.TodayMeals)
			trackerGroup.POST("/water-sleep", trackerHandler.LogWaterSleep)
			trackerGroup.GET("/water-sleep/:userId/today", trackerHandler.TodayWaterSleep)
			trackerGroup.GET("/analytics/:userId/dashboard", trackerHandler.Dashboard)
			trackerGroup.GET("/analytics/:userId/weekly", trackerHandler.Weekly)
		}
	}
}
