package router

import (
	"time"

	"tripmate/config"
	"tripmate/internal/handler"
	"tripmate/internal/jobs"
	"tripmate/internal/middleware"
	"tripmate/internal/repository"
	"tripmate/internal/service"
	"tripmate/internal/ws"
	"tripmate/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup builds the HTTP engine and the reconciler that drives the
// background tick. The caller owns scheduling the reconciler.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) (*gin.Engine, *jobs.Reconciler) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	eventRepo := repository.NewEventRepository(db)
	pollRepo := repository.NewPollRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	locRepo := repository.NewLocationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	chatHub := ws.NewHub()
	mapHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		logrus.Info("push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		logrus.Warn("push notifications disabled: failed to init (check service account file)")
	} else {
		logrus.Info("push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notifRepo, tripRepo, userRepo, fcmSvc)

	reconciler := jobs.NewReconciler(notifRepo, pollRepo, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, tripRepo)
	tripHandler := handler.NewTripHandler(tripRepo, notifSvc)
	inviteHandler := handler.NewInviteHandler(cfg, inviteRepo, tripRepo, userRepo, notifSvc)
	eventHandler := handler.NewEventHandler(eventRepo, tripRepo, notifSvc)
	pollHandler := handler.NewPollHandler(pollRepo, tripRepo, notifSvc, reconciler)
	expenseHandler := handler.NewExpenseHandler(expenseRepo, tripRepo, notifSvc)
	locationHandler := handler.NewLocationHandler(locRepo, tripRepo, mapHub)
	messageHandler := handler.NewMessageHandler(msgRepo, tripRepo)
	notificationHandler := handler.NewNotificationHandler(notifRepo)
	uploadHandler := handler.NewUploadHandler(cloud, tripRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
			me.GET("/invites", inviteHandler.MyInvites)
			me.GET("/notifications", notificationHandler.List)
			me.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			me.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
		}

		invites := api.Group("/invites")
		invites.Use(authMw)
		{
			invites.POST("/:token/accept", inviteHandler.Accept)
			invites.POST("/:token/decline", inviteHandler.Decline)
		}

		trips := api.Group("/trips")
		trips.Use(authMw)
		{
			trips.POST("", tripHandler.Create)
			trips.GET("", tripHandler.ListMine)

			trip := trips.Group("/:trip_id")
			{
				trip.GET("", tripHandler.Get)
				trip.PATCH("", tripHandler.Update)
				trip.DELETE("", tripHandler.Delete)
				trip.POST("/cover", uploadHandler.UploadTripCover)

				trip.GET("/members", tripHandler.ListMembers)
				trip.PATCH("/members/:user_id/role", tripHandler.UpdateMemberRole)
				trip.DELETE("/members/:user_id", tripHandler.RemoveMember)

				trip.POST("/invites", inviteHandler.Create)
				trip.GET("/invites", inviteHandler.ListForTrip)

				trip.POST("/events", eventHandler.Create)
				trip.GET("/events", eventHandler.List)
				trip.PATCH("/events/:event_id", eventHandler.Update)
				trip.DELETE("/events/:event_id", eventHandler.Delete)

				trip.POST("/polls", pollHandler.Create)
				trip.GET("/polls", pollHandler.List)
				trip.GET("/polls/:poll_id", pollHandler.Get)
				trip.POST("/polls/:poll_id/votes", pollHandler.Vote)
				trip.POST("/polls/:poll_id/close", pollHandler.Close)

				trip.POST("/expenses", expenseHandler.Create)
				trip.GET("/expenses", expenseHandler.List)
				trip.GET("/expenses/balances", expenseHandler.Balances)
				trip.DELETE("/expenses/:expense_id", expenseHandler.Delete)
				trip.PATCH("/expenses/splits/:split_id/settle", expenseHandler.SettleSplit)

				trip.POST("/locations", locationHandler.Create)
				trip.GET("/locations", locationHandler.List)
				trip.PATCH("/locations/:location_id", locationHandler.Update)
				trip.DELETE("/locations/:location_id", locationHandler.Delete)
				trip.GET("/locations/distance", locationHandler.Distance)

				trip.GET("/messages", messageHandler.List)
			}
		}

		uploads := api.Group("/uploads")
		uploads.Use(authMw)
		{
			uploads.POST("/chat", uploadHandler.UploadChatMedia)
		}
	}

	r.GET("/ws/trips/chat", handler.UpgradeChatWS(&cfg.JWT, chatHub, tripRepo, msgRepo))
	r.GET("/ws/trips/map", handler.UpgradeMapWS(&cfg.JWT, mapHub, tripRepo))

	return r, reconciler
}
