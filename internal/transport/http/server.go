package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"synapnote/internal/ai"
	appsvc "synapnote/internal/app"
	"synapnote/internal/bootstrap"
	"synapnote/internal/cache"
	"synapnote/internal/platform/rabbitmq"
	"synapnote/internal/repository"
	"synapnote/internal/transport/http/handler"
	"synapnote/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	noteRepo := repository.NewNoteRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	mailQueue := rabbitmq.NewMailPublisher(app.MQConn, app.Config.RabbitMQ.MailQueue)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	llm := ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	}
	llmClient := ai.NewClient()

	authService := appsvc.NewAuthService(
		userRepo,
		mailQueue,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireHour)*time.Hour,
		time.Duration(app.Config.Auth.OTPExpireMinute)*time.Minute,
		time.Duration(app.Config.Auth.ResetExpireMinute)*time.Minute,
		app.Config.Auth.ResetLinkBaseURL,
	)
	noteService := appsvc.NewNoteService(noteRepo, userRepo, llmClient, llm)
	conversationService := appsvc.NewConversationService(
		conversationRepo,
		noteRepo,
		historyCache,
		llmClient,
		llm,
		app.Config.Conversation.MaxMessages,
		app.Config.Conversation.ContextMessages,
	)

	authHandler := handler.NewAuthHandler(authService)
	noteHandler := handler.NewNoteHandler(noteService)
	chatHandler := handler.NewChatHandler(conversationService)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/verifyotp", authHandler.VerifyOTP)
	authGroup.POST("/signin", authHandler.SignIn)
	authGroup.POST("/forgotpassword", authHandler.ForgotPassword)
	authGroup.POST("/resetpassword", authHandler.ResetPassword)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	notesGroup := api.Group("/notes")
	notesGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	notesGroup.POST("", noteHandler.Create)
	notesGroup.GET("", noteHandler.List)
	notesGroup.GET("/search", noteHandler.Search)
	notesGroup.GET("/tags/:tag", noteHandler.ListByTag)
	notesGroup.POST("/gen-title/:id", noteHandler.GenerateTitle)
	notesGroup.POST("/gen-content", noteHandler.GenerateContent)
	notesGroup.POST("/improve-content", noteHandler.ImproveContent)
	notesGroup.GET("/:id", noteHandler.Get)
	notesGroup.PUT("/:id", noteHandler.Update)
	notesGroup.DELETE("/:id", noteHandler.Delete)
	notesGroup.POST("/:id/chat", chatHandler.Chat)
	notesGroup.GET("/:id/conversations", chatHandler.GetConversations)
	notesGroup.PUT("/conversations/:sessionId/clear", chatHandler.ClearConversation)
	notesGroup.DELETE("/conversations/:sessionId", chatHandler.DeleteConversation)

	return router
}
