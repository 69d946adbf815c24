package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/media-ranker/backend/internal/middleware"
	"github.com/emilythestrangee/media-ranker/backend/internal/models"
	"github.com/emilythestrangee/media-ranker/backend/internal/response"
	"github.com/emilythestrangee/media-ranker/backend/internal/store"
)

const (
	categoryKey = "media_category"
	workKey     = "work"
)

// CategoryFromURL resolves the category of index, new and create from the
// :category path segment.
func (h *WorkHandler) CategoryFromURL(c *gin.Context) {
	c.Set(categoryKey, models.ParseCategory(c.Param("category")))
	c.Next()
}

// WorkFromID loads the :id work and takes the category from the record.
// A missing work ends the request with 404.
func (h *WorkHandler) WorkFromID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		notFound(c)
		return
	}

	work, err := h.works.Find(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		h.logger.Error("failed to load work", "id", id, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to load work")
		return
	}

	c.Set(workKey, work)
	c.Set(categoryKey, models.ParseCategory(string(work.Category)))
	c.Next()
}

// RequireOwner lets only the work's owner through. Everyone else is sent
// back to the root page and the action never runs.
func (h *WorkHandler) RequireOwner(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	work := currentWork(c)
	if work == nil {
		notFound(c)
		return
	}

	if !work.OwnedBy(user) {
		username := ""
		if user != nil {
			username = user.Username
		}
		h.logger.Warn("ownership check failed", "work_id", work.ID, "user", username)
		response.AbortRedirect(c, http.StatusUnauthorized, "/",
			response.Fail(fmt.Sprintf("You are not authorized for this action %s!", username), nil))
		return
	}
	c.Next()
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"status":      response.Failure,
		"result_text": "Work not found",
	})
}

func currentCategory(c *gin.Context) models.Category {
	if v, ok := c.Get(categoryKey); ok {
		if category, ok := v.(models.Category); ok {
			return category
		}
	}
	return ""
}

func currentWork(c *gin.Context) *models.Work {
	if v, ok := c.Get(workKey); ok {
		if work, ok := v.(*models.Work); ok {
			return work
		}
	}
	return nil
}

func categoryPath(category models.Category) string {
	return "/works/" + string(category)
}
