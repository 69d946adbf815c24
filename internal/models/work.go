package models

import (
	"strings"
	"time"
)

// Work is a tracked media item submitted by a user.
type Work struct {
	ID              int       `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null;uniqueIndex:idx_work_category_title" json:"title" validate:"required,max=255"`
	Creator         string    `json:"creator" validate:"max=255"`
	Description     string    `json:"description"`
	Category        Category  `gorm:"not null;index;uniqueIndex:idx_work_category_title" json:"category" validate:"category"`
	PublicationYear int       `json:"publication_year" validate:"gte=0,lte=9999"`
	UserID          int       `gorm:"index" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID" json:"user"`
	VoteCount       int       `gorm:"default:0;index" json:"vote_count"`
	Votes           []Vote    `gorm:"foreignKey:WorkID" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OwnedBy reports whether u may edit, update or destroy w.
func (w *Work) OwnedBy(u *User) bool {
	return w != nil && u != nil && u.ID != 0 && w.UserID == u.ID
}

// WorkInput holds the client-supplied fields of a work. Absent fields are
// left untouched. Category is only honoured on update; on create it comes
// from the URL.
type WorkInput struct {
	Title           *string `json:"title"`
	Creator         *string `json:"creator"`
	Description     *string `json:"description"`
	PublicationYear *int    `json:"publication_year"`
	Category        *string `json:"category"`
}

// Apply copies the supplied fields onto w.
func (in WorkInput) Apply(w *Work) {
	if in.Title != nil {
		w.Title = strings.TrimSpace(*in.Title)
	}
	if in.Creator != nil {
		w.Creator = strings.TrimSpace(*in.Creator)
	}
	if in.Description != nil {
		w.Description = *in.Description
	}
	if in.PublicationYear != nil {
		w.PublicationYear = *in.PublicationYear
	}
	if in.Category != nil {
		w.Category = ParseCategory(*in.Category)
	}
}
