package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campuslife-backend/internal/api/handlers"
	"campuslife-backend/internal/api/middleware"
	"campuslife-backend/internal/service"
)

// Services bundles the service layer for the router.
type Services struct {
	Auth          *service.AuthService
	Wallet        *service.WalletService
	Marketplace   *service.MarketplaceService
	Subscription  *service.SubscriptionService
	Study         *service.StudyService
	Tasks         *service.TaskService
	Timetable     *service.TimetableService
	News          *service.NewsService
	Notifications *service.NotificationService
	Dashboard     *service.DashboardService
}

// SetupRouter wires every endpoint onto a gin engine.
func SetupRouter(
	services Services,
	jwtMiddleware *middleware.JWTMiddleware,
	tokenExpiration time.Duration,
	refreshExpiration time.Duration,
	logger *logrus.Logger,
	ginMode string,
) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authHandler := handlers.NewAuthHandler(services.Auth, jwtMiddleware, tokenExpiration, refreshExpiration, logger)
	walletHandler := handlers.NewWalletHandler(services.Wallet, logger)
	marketplaceHandler := handlers.NewMarketplaceHandler(services.Marketplace, logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(services.Subscription, logger)
	studyHandler := handlers.NewStudyHandler(services.Study, logger)
	taskHandler := handlers.NewTaskHandler(services.Tasks, logger)
	timetableHandler := handlers.NewTimetableHandler(services.Timetable, logger)
	newsHandler := handlers.NewNewsHandler(services.News, logger)
	notificationHandler := handlers.NewNotificationHandler(services.Notifications, logger)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, logger)

	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/refresh-token", authHandler.RefreshToken)
		v1.GET("/subscription/plans", subscriptionHandler.Plans)
		v1.GET("/news/categories", newsHandler.Categories)

		// Protected routes
		authorized := v1.Group("")
		authorized.Use(jwtMiddleware.Auth())
		{
			// Account
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// Wallet
			authorized.GET("/wallet/balance", walletHandler.GetBalance)
			authorized.GET("/wallet/transactions", walletHandler.GetTransactions)
			authorized.POST("/wallet/withdraw", walletHandler.Withdraw)
			authorized.POST("/wallet/fund", walletHandler.Fund)

			// Past-question marketplace
			authorized.GET("/past-questions", marketplaceHandler.List)
			authorized.POST("/past-questions", marketplaceHandler.Upload)
			authorized.GET("/past-questions/my-uploads", marketplaceHandler.MyUploads)
			authorized.GET("/past-questions/:id", marketplaceHandler.Get)
			authorized.POST("/past-questions/:id/download", marketplaceHandler.Download)
			authorized.POST("/past-questions/:id/rate", marketplaceHandler.Rate)

			// Subscription
			authorized.GET("/subscription", subscriptionHandler.Get)
			authorized.POST("/subscription", subscriptionHandler.Subscribe)
			authorized.DELETE("/subscription", subscriptionHandler.Cancel)

			// Study tracking
			authorized.GET("/study/stats", studyHandler.GetStats)
			authorized.POST("/study/sessions", studyHandler.LogSession)
			authorized.PUT("/study/goals", studyHandler.UpdateGoals)
			authorized.GET("/study/analytics", studyHandler.GetAnalytics)

			// Tasks
			authorized.GET("/tasks", taskHandler.List)
			authorized.POST("/tasks", taskHandler.Create)
			authorized.GET("/tasks/upcoming", taskHandler.Upcoming)
			authorized.GET("/tasks/overdue", taskHandler.Overdue)
			authorized.GET("/tasks/:id", taskHandler.Get)
			authorized.PUT("/tasks/:id", taskHandler.Update)
			authorized.DELETE("/tasks/:id", taskHandler.Delete)

			// Timetable
			authorized.GET("/timetable", timetableHandler.Get)
			authorized.PUT("/timetable", timetableHandler.Replace)
			authorized.GET("/timetable/today", timetableHandler.Today)
			authorized.POST("/timetable/items", timetableHandler.AddItem)
			authorized.PUT("/timetable/items/:id", timetableHandler.UpdateItem)
			authorized.DELETE("/timetable/items/:id", timetableHandler.RemoveItem)

			// News
			authorized.GET("/news", newsHandler.List)
			authorized.POST("/news", newsHandler.Create)
			authorized.GET("/news/:id", newsHandler.Get)
			authorized.PUT("/news/:id", newsHandler.Update)
			authorized.DELETE("/news/:id", newsHandler.Delete)

			// Notifications
			authorized.GET("/notifications", notificationHandler.List)
			authorized.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			authorized.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			authorized.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			authorized.DELETE("/notifications/:id", notificationHandler.Delete)

			// Dashboard
			authorized.GET("/dashboard", dashboardHandler.Get)
		}
	}

	return router
}
