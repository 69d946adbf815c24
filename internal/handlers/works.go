package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/media-ranker/backend/internal/middleware"
	"github.com/emilythestrangee/media-ranker/backend/internal/models"
	"github.com/emilythestrangee/media-ranker/backend/internal/response"
	"github.com/emilythestrangee/media-ranker/backend/internal/store"
)

// WorkHandler serves the works resource and its upvotes.
type WorkHandler struct {
	works       *store.WorkStore
	votes       *store.VoteStore
	logger      *log.Logger
	bestOfLimit int
}

func NewWorkHandler(works *store.WorkStore, votes *store.VoteStore, logger *log.Logger, bestOfLimit int) *WorkHandler {
	return &WorkHandler{
		works:       works,
		votes:       votes,
		logger:      logger,
		bestOfLimit: bestOfLimit,
	}
}

// Root returns the best works of every category plus the overall winner.
func (h *WorkHandler) Root(c *gin.Context) {
	ctx := c.Request.Context()
	body := gin.H{}

	for _, category := range models.Categories() {
		works, err := h.works.TopByCategory(ctx, category, h.bestOfLimit)
		if err != nil {
			h.logger.Error("failed to fetch best works", "category", category, "err", err)
			response.Error(c, http.StatusInternalServerError, "Failed to fetch works")
			return
		}
		body[string(category)] = works
	}

	best, err := h.works.Best(ctx)
	if err != nil {
		h.logger.Error("failed to fetch best work", "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch works")
		return
	}
	body["best_work"] = best

	c.JSON(http.StatusOK, body)
}

// Index lists the works of the URL category, highest voted first.
func (h *WorkHandler) Index(c *gin.Context) {
	category := currentCategory(c)

	works, err := h.works.ListByCategory(c.Request.Context(), category)
	if err != nil {
		h.logger.Error("failed to fetch works", "category", category, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch works")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"works":    works,
	})
}

// New returns a blank work tagged with the URL category.
func (h *WorkHandler) New(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"work": models.Work{Category: currentCategory(c)},
	})
}

func (h *WorkHandler) Create(c *gin.Context) {
	category := currentCategory(c)
	user, _ := middleware.CurrentUser(c)

	var input models.WorkInput
	bindErr := bindWork(c, &input)

	work := &models.Work{}
	input.Apply(work)
	work.Category = category
	work.UserID = user.ID

	if bindErr != nil {
		response.Render(c, http.StatusBadRequest,
			response.Fail(fmt.Sprintf("Could not create %s", category.Singular()), bindErr.Messages),
			gin.H{"work": work})
		return
	}

	if err := h.works.Create(c.Request.Context(), work); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			response.Render(c, http.StatusBadRequest,
				response.Fail(fmt.Sprintf("Could not create %s", category.Singular()), verr.Messages),
				gin.H{"work": work})
			return
		}
		h.logger.Error("failed to create work", "category", category, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to create work")
		return
	}

	h.logger.Info("work created", "id", work.ID, "category", category, "user_id", user.ID)
	response.Redirect(c, http.StatusFound, categoryPath(category),
		response.Ok(fmt.Sprintf("Successfully created %s %d", category.Singular(), work.ID)),
		gin.H{"work": work})
}

// Show returns the work with its votes, most recent first.
func (h *WorkHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	work := currentWork(c)

	votes, err := h.votes.ForWork(ctx, work.ID)
	if err != nil {
		h.logger.Error("failed to fetch votes", "work_id", work.ID, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch votes")
		return
	}

	voted := false
	if user, ok := middleware.CurrentUser(c); ok {
		for _, v := range votes {
			if v.UserID == user.ID {
				voted = true
				break
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"work":  work,
		"votes": votes,
		"voted": voted,
	})
}

func (h *WorkHandler) Edit(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"work": currentWork(c)})
}

// Update applies the submitted fields. Validation failures answer 400,
// the same as Create. The flash and redirect use the category the work had
// when the request started.
func (h *WorkHandler) Update(c *gin.Context) {
	work := currentWork(c)
	category := currentCategory(c)

	var input models.WorkInput
	if verr := bindWork(c, &input); verr != nil {
		response.Render(c, http.StatusBadRequest,
			response.Fail(fmt.Sprintf("Could not update %s", category.Singular()), verr.Messages),
			gin.H{"work": work})
		return
	}

	if err := h.works.Update(c.Request.Context(), work, input); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			response.Render(c, http.StatusBadRequest,
				response.Fail(fmt.Sprintf("Could not update %s", category.Singular()), verr.Messages),
				gin.H{"work": work})
			return
		}
		h.logger.Error("failed to update work", "id", work.ID, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to update work")
		return
	}

	response.Redirect(c, http.StatusFound, categoryPath(category),
		response.Ok(fmt.Sprintf("Successfully updated %s %d", category.Singular(), work.ID)),
		gin.H{"work": work})
}

func (h *WorkHandler) Destroy(c *gin.Context) {
	work := currentWork(c)
	category := currentCategory(c)

	if err := h.works.Delete(c.Request.Context(), work); err != nil {
		h.logger.Error("failed to delete work", "id", work.ID, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to delete work")
		return
	}

	h.logger.Info("work destroyed", "id", work.ID, "category", category)
	response.Redirect(c, http.StatusFound, "/",
		response.Ok(fmt.Sprintf("Successfully destroyed %s %d", category.Singular(), work.ID)), nil)
}

// Upvote records the session user's vote. Every outcome redirects back to
// the referring page when it is on this host (or the category list) carrying its own status code:
// 302 on success, 401 without a session user, 409 when the vote is rejected.
func (h *WorkHandler) Upvote(c *gin.Context) {
	work := currentWork(c)

	back := localReferer(c)
	if back == "" {
		back = categoryPath(currentCategory(c))
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Redirect(c, http.StatusUnauthorized, back,
			response.Fail("You must log in to do that", nil), nil)
		return
	}

	outcome, err := h.votes.Upvote(c.Request.Context(), user.ID, work.ID)
	if err != nil {
		h.logger.Error("failed to record vote", "work_id", work.ID, "user_id", user.ID, "err", err)
		response.Error(c, http.StatusInternalServerError, "Failed to vote")
		return
	}

	switch outcome.Result {
	case store.VoteCreated:
		response.Redirect(c, http.StatusFound, back,
			response.Ok("Successfully upvoted!"), gin.H{"vote": outcome.Vote})
	default:
		h.logger.Info("vote rejected", "work_id", work.ID, "user_id", user.ID, "result", outcome.Result)
		response.Redirect(c, http.StatusConflict, back,
			response.Fail("Could not upvote", outcome.Messages), nil)
	}
}

// bindWork decodes the request body into input. An empty body is an empty
// input, left for the store to validate; a value of the wrong JSON type is
// reported on its field.
func bindWork(c *gin.Context, input *models.WorkInput) *store.ValidationError {
	err := c.ShouldBindJSON(input)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	verr := &store.ValidationError{}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			verr.Add(typeErr.Field, "is not a number")
		default:
			verr.Add(typeErr.Field, "is invalid")
		}
		return verr
	}

	verr.Add("base", "request body is not valid JSON")
	return verr
}

// localReferer returns the Referer as a path on this host, or "" when it is
// missing or points elsewhere.
func localReferer(c *gin.Context) string {
	raw := c.Request.Referer()
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Host != "" && u.Host != c.Request.Host {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return ""
	}
	return u.RequestURI()
}
