package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/media-ranker/backend/internal/models"
)

type WorkStore struct {
	db *gorm.DB
}

func NewWorkStore(db *gorm.DB) *WorkStore {
	return &WorkStore{db: db}
}

// ListByCategory returns every work in category, highest voted first.
// An unrecognized category simply matches nothing.
func (s *WorkStore) ListByCategory(ctx context.Context, category models.Category) ([]models.Work, error) {
	return s.TopByCategory(ctx, category, 0)
}

// TopByCategory is ListByCategory capped at limit rows; limit <= 0 means no cap.
func (s *WorkStore) TopByCategory(ctx context.Context, category models.Category, limit int) ([]models.Work, error) {
	works := []models.Work{}

	query := s.db.WithContext(ctx).
		Preload("User").
		Where("category = ?", category).
		Order("vote_count desc").
		Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&works).Error; err != nil {
		return nil, err
	}
	return works, nil
}

// Best returns the single highest-voted work, or nil when there are none.
func (s *WorkStore) Best(ctx context.Context) (*models.Work, error) {
	var work models.Work
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("vote_count desc").
		Order("id asc").
		First(&work).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func (s *WorkStore) Find(ctx context.Context, id int) (*models.Work, error) {
	var work models.Work
	err := s.db.WithContext(ctx).Preload("User").First(&work, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &work, nil
}

// Create validates and inserts w. Validation problems are returned as *ValidationError.
func (s *WorkStore) Create(ctx context.Context, w *models.Work) error {
	if err := s.check(ctx, w); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error
	if IsUniqueViolation(err) {
		return invalid("title", "has already been taken")
	}
	return err
}

// Update applies in to w and saves it. On a validation failure w keeps the
// rejected values so callers can echo them back.
func (s *WorkStore) Update(ctx context.Context, w *models.Work, in models.WorkInput) error {
	in.Apply(w)
	if err := s.check(ctx, w); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(w).Error
	if IsUniqueViolation(err) {
		return invalid("title", "has already been taken")
	}
	return err
}

// Delete removes w and its votes.
func (s *WorkStore) Delete(ctx context.Context, w *models.Work) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_id = ?", w.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Work{}, w.ID).Error
	})
}

// check runs field validation plus the title-per-category uniqueness rule.
// Validation problems come back as *ValidationError; any other error is a
// failed lookup.
func (s *WorkStore) check(ctx context.Context, w *models.Work) error {
	verr := validateStruct(w)
	if verr == nil {
		verr = &ValidationError{}
	}

	if w.Title != "" && w.Category.Valid() {
		var count int64
		err := s.db.WithContext(ctx).
			Model(&models.Work{}).
			Where("category = ? AND title = ? AND id <> ?", w.Category, w.Title, w.ID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check title uniqueness: %w", err)
		}
		if count > 0 {
			verr.Add("title", "has already been taken")
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}
