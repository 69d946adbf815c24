// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/media-ranker/backend/internal/auth"
	"github.com/emilythestrangee/media-ranker/backend/internal/database"
	"github.com/emilythestrangee/media-ranker/backend/internal/logging"
	"github.com/emilythestrangee/media-ranker/backend/internal/models"
)

const TestPassword = "password123"

// NewDB returns a migrated in-memory SQLite database closed at test end.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:", logging.Discard())
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is TestPassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	hashed, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateWork inserts a work owned by owner with a preset vote count.
func CreateWork(t *testing.T, db *gorm.DB, owner models.User, category models.Category, title string, votes int) models.Work {
	t.Helper()

	work := models.Work{
		Title:     title,
		Creator:   "Someone",
		Category:  category,
		UserID:    owner.ID,
		VoteCount: votes,
	}
	require.NoError(t, db.Omit("User").Create(&work).Error)
	return work
}

// MakeRequest serves a JSON request through h. An empty token sends no
// Authorization header.
func MakeRequest(h http.Handler, method, path string, body any, token string, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// DecodeJSON decodes the recorded body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
