package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gogo-api/config"
	"gogo-api/controllers"
	"gogo-api/middleware"
	"gogo-api/realtime"
	"gogo-api/repositories"
	"gogo-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *realtime.Hub,
	emailService *services.EmailService, imageService *services.ImageService,
	pushService *services.PushService, geocodingService *services.GeocodingService) {

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	friendRepo := repositories.NewFriendRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)

	// Services
	friendService := services.NewFriendService(friendRepo, userRepo)

	// Controllers
	authController := controllers.NewAuthController(userRepo, emailService, cfg)
	userController := controllers.NewUserController(userRepo)
	friendController := controllers.NewFriendController(friendService, userRepo, pushService, hub, cfg)
	messageController := controllers.NewMessageController(messageRepo, userRepo, friendService, pushService, hub)
	locationController := controllers.NewLocationController(locationRepo, friendService, geocodingService, imageService, hub)
	restaurantController := controllers.NewRestaurantController(restaurantRepo, imageService)
	imageController := controllers.NewImageController(imageService)
	geocodingController := controllers.NewGeocodingController(geocodingService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"success": true,
		})
	})

	// Websocket endpoint; auth happens inside the handler.
	r.GET("/ws", realtime.Handler(hub, cfg.JWTSecret))

	api := r.Group("/api")

	// Auth routes (public, throttled against credential stuffing)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(20, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// Reverse geocoding (public, heavily cached)
	geo := api.Group("/location")
	{
		geo.GET("/address", geocodingController.GetAddress)
		geo.GET("/full-address", geocodingController.GetFullAddress)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authController.GetMe)
		protected.POST("/auth/logout", authController.Logout)

		users := protected.Group("/users")
		{
			users.GET("", userController.List)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateProfile)
			users.PUT("/me/fcm-token", userController.UpdateFCMToken)
		}

		friends := protected.Group("/friends")
		{
			friends.GET("", friendController.ListFriends)
			friends.GET("/requests", friendController.ListRequests)
			friends.GET("/qr-code", friendController.QRCode)
			friends.POST("/request", friendController.SendRequest)
			friends.POST("/scan", friendController.AddByScan)
			friends.PUT("/requests/:id/accept", friendController.Accept)
			friends.PUT("/requests/:id/reject", friendController.Reject)
			friends.DELETE("/:id", friendController.Unfriend)
		}

		messages := protected.Group("/messages")
		{
			messages.POST("", messageController.Send)
			messages.GET("", messageController.ListConversations)
			messages.GET("/unread/count", messageController.UnreadCount)
			messages.GET("/:userId", messageController.GetConversation)
			messages.PUT("/:userId/read", messageController.MarkAsRead)
		}

		locations := protected.Group("/locations")
		{
			locations.GET("", locationController.List)
			locations.GET("/user/me", locationController.ListMine)
			locations.GET("/areas", locationController.Areas)
			locations.GET("/:id", locationController.Get)
			locations.POST("", locationController.Create)
			locations.PUT("/:id", locationController.Update)
			locations.DELETE("/:id", locationController.Delete)
		}

		restaurants := protected.Group("/restaurants")
		{
			restaurants.GET("", restaurantController.List)
			restaurants.GET("/:id", restaurantController.Get)
			restaurants.POST("", restaurantController.Create)
			restaurants.PUT("/:id", restaurantController.Update)
			restaurants.DELETE("/:id", restaurantController.Delete)
		}

		images := protected.Group("/images")
		{
			images.POST("/upload", imageController.Upload)
			images.POST("/upload-multiple", imageController.UploadMultiple)
			images.DELETE("/:id", imageController.Delete)
		}
	}
}
