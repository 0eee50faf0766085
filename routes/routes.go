package routes

import (
	"hr-platform-api/controllers"
	"hr-platform-api/middleware"
	"hr-platform-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB) {
	authCtl := controllers.NewAuthController(db)
	resetCtl := controllers.NewPasswordResetController(db)
	userCtl := controllers.NewUserController(db)
	onboardingCtl := controllers.NewOnboardingController(services.NewOnboardingService(db))
	cycleCtl := controllers.NewReviewCycleController(services.NewReviewCycleService(db))
	assignmentCtl := controllers.NewAssignmentController(services.NewAssignmentService(db))
	formCtl := controllers.NewReviewFormController(services.NewReviewFormService(db))
	appraisalCtl := controllers.NewAppraisalController(services.NewAppraisalService(db))
	notificationCtl := controllers.NewNotificationController(services.NewNotificationService(db))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", authCtl.Login)
			public.POST("/forgot-password", resetCtl.ForgotPassword)
			public.POST("/reset-password", resetCtl.ResetPassword)

			// Applicant intake
			public.POST("/onboarding", onboardingCtl.CreateSubmission)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "HR Platform API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(db))
		{
			// User profile
			protected.GET("/profile", authCtl.GetProfile)
			protected.PUT("/change-password", authCtl.ChangePassword)

			// Account administration (admin only)
			users := protected.Group("/users")
			users.Use(middleware.RequirePermission(middleware.OpManageUsers))
			{
				users.POST("", userCtl.CreateUser)
				users.GET("", userCtl.GetUsers)
				users.GET("/:id", userCtl.GetUser)
				users.PUT("/:id", userCtl.UpdateUser)
				users.DELETE("/:id", userCtl.DeactivateUser)
			}

			// Onboarding review (admin or hr)
			onboarding := protected.Group("/onboarding")
			onboarding.Use(middleware.RequirePermission(middleware.OpManageOnboarding))
			{
				onboarding.GET("", onboardingCtl.GetSubmissions)
				onboarding.GET("/:id", onboardingCtl.GetSubmission)
				onboarding.PATCH("/:id/status", onboardingCtl.UpdateStatus)
				onboarding.DELETE("/:id", onboardingCtl.DeleteSubmission)
			}

			// Review cycles
			cycles := protected.Group("/cycles")
			{
				cycles.GET("", middleware.RequirePermission(middleware.OpViewCycles), cycleCtl.GetCycles)
				cycles.GET("/:id", middleware.RequirePermission(middleware.OpViewCycles), cycleCtl.GetCycle)

				manage := middleware.RequirePermission(middleware.OpManageCycles)
				cycles.POST("", manage, cycleCtl.CreateCycle)
				cycles.PUT("/:id", manage, cycleCtl.UpdateCycle)
				cycles.POST("/:id/lock", manage, cycleCtl.LockCycle)
				cycles.POST("/:id/reopen", manage, cycleCtl.ReopenCycle)
				cycles.DELETE("/:id", manage, cycleCtl.DeleteCycle)

				// Bulk reviewer assignment fan-out
				assign := middleware.RequirePermission(middleware.OpManageAssignments)
				cycles.POST("/:id/assignments", assign, assignmentCtl.BulkAssign)
				cycles.GET("/:id/assignments", assign, assignmentCtl.GetAssignments)
			}

			// Review forms
			forms := protected.Group("/forms")
			{
				forms.GET("/mine", formCtl.GetMyForms)
				forms.PUT("/:id", formCtl.SaveDraft)
				forms.POST("/:id/submit", formCtl.SubmitForm)
				forms.POST("/:id/approve", middleware.RequirePermission(middleware.OpApproveForms), formCtl.ApproveForm)
			}

			// Appraisals (admin or hr)
			appraisals := protected.Group("/appraisals")
			appraisals.Use(middleware.RequirePermission(middleware.OpManageAppraisals))
			{
				appraisals.POST("", appraisalCtl.CreateAppraisal)
				appraisals.GET("", appraisalCtl.GetAppraisals)
				appraisals.GET("/:id", appraisalCtl.GetAppraisal)
				appraisals.PUT("/:id", appraisalCtl.UpdateAppraisal)
				appraisals.DELETE("/:id", appraisalCtl.DeleteAppraisal)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationCtl.GetNotifications)
				notifications.GET("/counter", notificationCtl.GetNotificationCounter)
				notifications.PATCH("/:id/read", notificationCtl.MarkNotificationRead)
				notifications.PATCH("/read-all", notificationCtl.MarkAllNotificationsRead)
			}
		}
	}
}
