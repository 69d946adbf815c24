package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/media-ranker/backend/internal/models"
	"github.com/emilythestrangee/media-ranker/backend/internal/testutil"
)

func TestUpvoteOncePerUser(t *testing.T) {
	db := testutil.NewDB(t)
	votes := NewVoteStore(db)
	works := NewWorkStore(db)
	owner := testutil.CreateUser(t, db, "ada")
	voter := testutil.CreateUser(t, db, "grace")
	ctx := context.Background()
	work := testutil.CreateWork(t, db, owner, models.Books, "Dune", 0)

	first, err := votes.Upvote(ctx, voter.ID, work.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteCreated, first.Result)
	require.NotNil(t, first.Vote)
	assert.NotZero(t, first.Vote.ID)

	second, err := votes.Upvote(ctx, voter.ID, work.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteDuplicate, second.Result)
	assert.Nil(t, second.Vote)
	assert.Equal(t, []string{"has already voted for this work"}, second.Messages["user"])

	reloaded, err := works.Find(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.VoteCount, "rejected vote must not bump the counter")

	var count int64
	require.NoError(t, db.Model(&models.Vote{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpvoteDifferentUsers(t *testing.T) {
	db := testutil.NewDB(t)
	votes := NewVoteStore(db)
	works := NewWorkStore(db)
	owner := testutil.CreateUser(t, db, "ada")
	ctx := context.Background()
	work := testutil.CreateWork(t, db, owner, models.Movies, "Alien", 0)

	for i := 0; i < 3; i++ {
		voter := testutil.CreateUser(t, db, fmt.Sprintf("voter%d", i))
		outcome, err := votes.Upvote(ctx, voter.ID, work.ID)
		require.NoError(t, err)
		assert.Equal(t, VoteCreated, outcome.Result)
	}

	reloaded, err := works.Find(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.VoteCount)
}

func TestUpvoteMissingWork(t *testing.T) {
	db := testutil.NewDB(t)
	votes := NewVoteStore(db)
	voter := testutil.CreateUser(t, db, "grace")

	outcome, err := votes.Upvote(context.Background(), voter.ID, 999)
	require.NoError(t, err)
	assert.Equal(t, VoteInvalid, outcome.Result)
	assert.Contains(t, outcome.Messages, "work")
}

func TestUpvoteWithoutUser(t *testing.T) {
	db := testutil.NewDB(t)
	votes := NewVoteStore(db)
	owner := testutil.CreateUser(t, db, "ada")
	work := testutil.CreateWork(t, db, owner, models.Movies, "Alien", 0)

	outcome, err := votes.Upvote(context.Background(), 0, work.ID)
	require.NoError(t, err)
	assert.Equal(t, VoteInvalid, outcome.Result)
	assert.Contains(t, outcome.Messages, "user")
}

func TestVotesForWorkNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	votes := NewVoteStore(db)
	owner := testutil.CreateUser(t, db, "ada")
	ctx := context.Background()
	work := testutil.CreateWork(t, db, owner, models.Albums, "Blue", 0)

	var names []string
	for i := 0; i < 3; i++ {
		voter := testutil.CreateUser(t, db, fmt.Sprintf("fan%d", i))
		names = append(names, voter.Username)
		_, err := votes.Upvote(ctx, voter.ID, work.ID)
		require.NoError(t, err)
	}

	list, err := votes.ForWork(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, names[2], list[0].User.Username)
	assert.Equal(t, names[0], list[2].User.Username)

	empty, err := votes.ForWork(ctx, work.ID+1)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pgx", &pgconn.PgError{Code: "23505"}, true},
		{"pgx other", &pgconn.PgError{Code: "23503"}, false},
		{"pq", &pq.Error{Code: "23505"}, true},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: votes.user_id, votes.work_id (2067)"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestVoteResultString(t *testing.T) {
	assert.Equal(t, "created", VoteCreated.String())
	assert.Equal(t, "duplicate", VoteDuplicate.String())
	assert.Equal(t, "invalid", VoteInvalid.String())
	assert.Equal(t, "unknown", VoteResult(42).String())
}
