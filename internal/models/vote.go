package models

import "time"

// Vote is a single user's upvote of one work. A user votes at most once per work.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_vote_user_work" json:"user_id"`
	WorkID    int       `gorm:"not null;uniqueIndex:idx_vote_user_work;index" json:"work_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Work      *Work     `gorm:"foreignKey:WorkID" json:"work,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
