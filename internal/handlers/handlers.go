package handlers

import (
	"github.com/charmbracelet/log"

	"github.com/emilythestrangee/media-ranker/backend/internal/auth"
	"github.com/emilythestrangee/media-ranker/backend/internal/database"
	"github.com/emilythestrangee/media-ranker/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth   *AuthHandler
	Works  *WorkHandler
	Health *HealthHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db database.Service, tokens *auth.TokenService, logger *log.Logger, bestOfLimit int) *Handler {
	gormDB := db.GetDB()

	return &Handler{
		Auth:   NewAuthHandler(gormDB, tokens, logger),
		Works:  NewWorkHandler(store.NewWorkStore(gormDB), store.NewVoteStore(gormDB), logger, bestOfLimit),
		Health: NewHealthHandler(db),
	}
}
