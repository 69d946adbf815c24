package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emilythestrangee/media-ranker/backend/internal/models"
)

// VoteResult is the outcome of an upvote attempt.
type VoteResult int

const (
	VoteCreated VoteResult = iota
	VoteDuplicate
	VoteInvalid
)

func (r VoteResult) String() string {
	switch r {
	case VoteCreated:
		return "created"
	case VoteDuplicate:
		return "duplicate"
	case VoteInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// VoteOutcome describes what happened to an upvote. Messages is set for
// VoteDuplicate and VoteInvalid.
type VoteOutcome struct {
	Result   VoteResult
	Vote     *models.Vote
	Messages map[string][]string
}

type VoteStore struct {
	db *gorm.DB
}

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

// Upvote records a vote by userID on workID and bumps the work's cached
// vote count in the same transaction. Uniqueness of (user, work) is left to
// the database constraint; a violation comes back as VoteDuplicate. The
// returned error is only set for storage failures.
func (s *VoteStore) Upvote(ctx context.Context, userID, workID int) (VoteOutcome, error) {
	if userID <= 0 {
		return VoteOutcome{Result: VoteInvalid, Messages: invalid("user", "must exist").Messages}, nil
	}

	vote := &models.Vote{UserID: userID, WorkID: workID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var work models.Work
		if err := tx.Select("id").First(&work, workID).Error; err != nil {
			return err
		}

		if err := tx.Create(vote).Error; err != nil {
			return err
		}

		return tx.Model(&models.Work{}).
			Where("id = ?", workID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1)).Error
	})

	switch {
	case err == nil:
		return VoteOutcome{Result: VoteCreated, Vote: vote}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return VoteOutcome{Result: VoteInvalid, Messages: invalid("work", "must exist").Messages}, nil
	case IsUniqueViolation(err):
		return VoteOutcome{
			Result:   VoteDuplicate,
			Messages: invalid("user", "has already voted for this work").Messages,
		}, nil
	default:
		return VoteOutcome{}, err
	}
}

// ForWork returns the votes cast on a work, most recent first, with voters loaded.
func (s *VoteStore) ForWork(ctx context.Context, workID int) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("work_id = ?", workID).
		Order("created_at desc").
		Order("id desc").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}
