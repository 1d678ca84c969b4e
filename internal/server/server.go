package server

import (
	"net/http"
	"time"

	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"

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
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger, accessLog *logrus.Logger, dispatcher handler.DownloadDispatcher) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(accessLog))
	router.Use(middleware.Recovery(logger, cfg.IsProduction()))
	router.Use(middleware.CORS())

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes(dispatcher)

	return s
}

func (s *Server) setupRoutes(dispatcher handler.DownloadDispatcher) {
	queryTimeout := time.Duration(s.cfg.Database.QueryTimeoutSeconds) * time.Second
	tokenTTL := time.Duration(s.cfg.JWT.ExpiresHours) * time.Hour

	userRepo := repository.NewUserRepository(s.db, s.logger, queryTimeout)
	bookRepo := repository.NewBookRepository(s.db, s.logger, queryTimeout)
	torrentRepo := repository.NewTorrentRepository(s.db, s.logger, queryTimeout)

	authService := service.NewAuthService(userRepo, []byte(s.cfg.JWT.Secret), tokenTTL, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userRepo, authService, s.logger)
	bookHandler := handler.NewBookHandler(bookRepo, s.logger)
	torrentHandler := handler.NewTorrentHandler(torrentRepo, dispatcher, s.logger)

	// Health check
	s.router.GET("/health-check", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Authentication routes
	authGroup := s.router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Public user routes: listing and creation predate the token wall and
	// stay open for wire compatibility.
	s.router.GET("/api/users/", userHandler.List)
	s.router.POST("/api/users/", userHandler.Create)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware([]byte(s.cfg.JWT.Secret), s.logger))
	{
		authRequired.GET("/users/profile", userHandler.Profile)
		authRequired.GET("/users/:userId", userHandler.Get)
		authRequired.PUT("/users/:userId", userHandler.Update)
		authRequired.DELETE("/users/:userId", userHandler.Delete)

		authRequired.GET("/books/", bookHandler.List)
		authRequired.POST("/books/", bookHandler.Create)
		authRequired.GET("/books/:bookId", bookHandler.Get)
		authRequired.PUT("/books/:bookId", bookHandler.Update)
		authRequired.DELETE("/books/:bookId", bookHandler.Delete)

		authRequired.GET("/torrents/", torrentHandler.List)
		authRequired.POST("/torrents/", torrentHandler.Create)
		authRequired.GET("/torrents/:torrentId", torrentHandler.Get)
	}
}

// Router exposes the underlying engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
