package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/media-ranker/backend/internal/auth"
	"github.com/emilythestrangee/media-ranker/backend/internal/config"
	"github.com/emilythestrangee/media-ranker/backend/internal/database"
	"github.com/emilythestrangee/media-ranker/backend/internal/handlers"
	"github.com/emilythestrangee/media-ranker/backend/internal/middleware"
)

type Server struct {
	db          database.Service
	handler     *handlers.Handler
	tokens      *auth.TokenService
	logger      *log.Logger
	corsOrigins []string
}

// New wires handlers onto an open database.
func New(cfg *config.Config, db database.Service, logger *log.Logger) *Server {
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Server{
		db:          db,
		handler:     handlers.NewHandler(db, tokens, logger, cfg.BestOfLimit),
		tokens:      tokens,
		logger:      logger,
		corsOrigins: cfg.CORSOrigins,
	}
}

// HTTPServer builds the http.Server for cfg's address.
func (s *Server) HTTPServer(cfg *config.Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.logger))

	allowAll := len(s.corsOrigins) == 0 || (len(s.corsOrigins) == 1 && s.corsOrigins[0] == "*")
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.RequestIDHeader},
		AllowCredentials: !allowAll,
		MaxAge:           12 * time.Hour,
	}
	if allowAll {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.corsOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.LoadUser(s.tokens, s.db.GetDB()))

	works := s.handler.Works

	r.GET("/health", s.handler.Health.Check)
	r.GET("/", works.Root)

	account := r.Group("/auth")
	{
		account.POST("/register", s.handler.Auth.Register)
		account.POST("/login", s.handler.Auth.Login)
		account.GET("/me", middleware.RequireLogin(), s.handler.Auth.GetMe)
	}

	byCategory := r.Group("/works/:category", middleware.RequireLogin(), works.CategoryFromURL)
	{
		byCategory.GET("", works.Index)
		byCategory.GET("/new", works.New)
		byCategory.POST("", works.Create)
	}

	// upvote checks the session itself so it can redirect back
	r.POST("/work/:id/upvote", works.WorkFromID, works.Upvote)

	member := r.Group("/work/:id", middleware.RequireLogin(), works.WorkFromID)
	{
		member.GET("", works.Show)
		member.GET("/edit", works.RequireOwner, works.Edit)
		member.PATCH("", works.RequireOwner, works.Update)
		member.PUT("", works.RequireOwner, works.Update)
		member.DELETE("", works.RequireOwner, works.Destroy)
	}

	return r
}
