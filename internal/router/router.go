package router

import (
	"net/http"
	"time"

	"github.com/anonto42/hackmate/backend/internal/feed"
	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/handlers"
	"github.com/anonto42/hackmate/backend/internal/middleware"
	"github.com/anonto42/hackmate/backend/internal/realtime"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/anonto42/hackmate/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps carries the process-wide collaborators the routes are built from.
// FirebaseAuth and Uploader are optional.
type Deps struct {
	Config       *config.Config
	Postgres     *gorm.DB
	Mongo        *mongo.Database
	Notifier     handlers.Notifier
	Hub          *realtime.Hub
	FirebaseAuth handlers.TokenVerifier
	Uploader     handlers.Uploader
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Deps) {
	cfg := d.Config

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "HackMate API is running"})
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(d.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.Postgres)
	invitationRepo := repositories.NewPostgresTeamInvitationRepository(d.Postgres)
	skillRepo := repositories.NewPostgresSkillRepository(d.Postgres)
	achievementRepo := repositories.NewPostgresAchievementRepository(d.Postgres)

	postRepo := repositories.NewMongoPostRepository(d.Mongo)
	reelRepo := repositories.NewMongoReelRepository(d.Mongo)
	projectRepo := repositories.NewMongoProjectRepository(d.Mongo)
	commentRepo := repositories.NewMongoCommentRepository(d.Mongo)
	teamRepo := repositories.NewMongoTeamRepository(d.Mongo)
	taskRepo := repositories.NewMongoTaskRepository(d.Mongo)
	hackathonRepo := repositories.NewMongoHackathonRepository(d.Mongo)

	// --- Services ---
	rewards := gamification.NewService(skillRepo, achievementRepo, d.Notifier)
	feedService := feed.NewService(postRepo, followRepo, userRepo)
	comments := handlers.NewCommentHandler(commentRepo, postRepo, reelRepo, projectRepo, userRepo, d.Notifier)

	protect := middleware.JWTAuthMiddleware(cfg.JWTSecret)
	api := e.Group("/api")

	authHandler := handlers.NewAuthHandler(userRepo, d.FirebaseAuth, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authHandler.RegisterAuthRoutes(api.Group("/auth"), protect)
	logrus.Info("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api.Group("/users"), protect)
	logrus.Info("User routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, comments, userRepo, d.Notifier, rewards)
	postHandler.RegisterPostRoutes(api.Group("/posts"), protect)
	logrus.Info("Post routes configured.")

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api.Group("/feed"), protect)
	logrus.Info("Feed routes configured.")

	reelHandler := handlers.NewReelHandler(reelRepo, comments, userRepo, d.Notifier, rewards)
	reelHandler.RegisterReelRoutes(api.Group("/reels"), protect)
	logrus.Info("Reel routes configured.")

	projectHandler := handlers.NewProjectHandler(projectRepo, comments, userRepo, d.Notifier, rewards)
	projectHandler.RegisterProjectRoutes(api.Group("/projects"), protect)
	logrus.Info("Project routes configured.")

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, d.Notifier, rewards)
	followHandler.RegisterFollowRoutes(api.Group("/follow"), protect)
	logrus.Info("Follow routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api.Group("/notifications", protect))
	logrus.Info("Notification routes configured.")

	teamHandler := handlers.NewTeamHandler(teamRepo, invitationRepo, taskRepo, userRepo, d.Notifier, rewards)
	teamHandler.RegisterTeamRoutes(api.Group("/teams", protect))
	logrus.Info("Team routes configured.")

	taskHandler := handlers.NewTaskHandler(taskRepo, teamRepo, userRepo, d.Hub, rewards)
	taskHandler.RegisterTaskRoutes(api.Group("/tasks", protect))
	logrus.Info("Task routes configured.")

	hackathonHandler := handlers.NewHackathonHandler(hackathonRepo, teamRepo, userRepo, rewards)
	hackathonHandler.RegisterHackathonRoutes(api.Group("/hackathons"), protect)
	logrus.Info("Hackathon routes configured.")

	gamificationHandler := handlers.NewGamificationHandler(achievementRepo, skillRepo)
	gamificationHandler.RegisterAchievementRoutes(api.Group("/achievements"))
	gamificationHandler.RegisterSkillRoutes(api.Group("/skills"))
	logrus.Info("Gamification routes configured.")

	streamHandler := handlers.NewStreamHandler(cfg.StreamAPISecret)
	streamHandler.RegisterStreamRoutes(api.Group("/stream", protect))
	logrus.Info("Stream routes configured.")

	if d.Uploader != nil {
		uploadHandler := handlers.NewUploadHandler(d.Uploader)
		uploadHandler.RegisterUploadRoutes(api.Group("/upload", protect, eMiddleware.BodyLimit("100M")))
		logrus.Info("Upload routes configured.")
	} else {
		logrus.Warn("Storage not configured, upload routes disabled.")
	}

	e.GET("/ws", d.Hub.ServeWS)
	logrus.Info("Realtime websocket route configured.")

	logrus.Info("All routes configured.")
}
