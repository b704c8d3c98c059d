package server

import (
	"net/http"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
	log    *logrus.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		router.Use(cors.New(corsConfig))
	}

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
		log:    log,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Repositories
	userRepo := repository.NewUserRepository(s.db, s.log)
	postRepo := repository.NewPostRepository(s.db, s.log)
	imageRepo := repository.NewImageRepository(s.db, s.log)

	// Services
	tokenService := service.NewTokenService([]byte(s.cfg.Auth.Secret), s.cfg.TokenTTL(), s.logger)
	userService := service.NewUserService(userRepo, tokenService, s.logger)
	postService := service.NewPostService(postRepo, s.logger)
	imageService := service.NewImageService(imageRepo, userRepo, postRepo, s.logger)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, s.log)
	userHandler := handler.NewUserHandler(userService, s.log)
	postHandler := handler.NewPostHandler(postService, s.log)
	imageHandler := handler.NewImageHandler(imageService, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(tokenService, s.logger))
	{
		authRequired.GET("/user", userHandler.CurrentUser)
		authRequired.GET("/user/:userId", userHandler.UserByID)
		authRequired.PUT("/user", userHandler.UpdateUser)

		authRequired.POST("/post", postHandler.CreatePost)
		authRequired.GET("/post/all", postHandler.AllPosts)
		authRequired.GET("/post/user", postHandler.CurrentUserPosts)
		authRequired.POST("/post/:postId/like", postHandler.LikePost)
		authRequired.DELETE("/post/:postId", postHandler.DeletePost)

		authRequired.POST("/image/upload", imageHandler.UploadToUser)
		authRequired.POST("/image/:postId/upload", imageHandler.UploadToPost)
		authRequired.GET("/image/profile", imageHandler.ProfileImage)
		authRequired.GET("/image/:postId/image", imageHandler.PostImage)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
