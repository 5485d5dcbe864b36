package services

import (
	"context"

	"civicsync-triage/models"
)

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

// IssueRepository is the durable store of issues. FindByID returns nil, nil
// when no issue has that id, malformed ids included. Both listings are
// ordered by updatedAt, newest first.
type IssueRepository interface {
	Save(ctx context.Context, issue *models.Issue) error
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	FindByCreatedBy(ctx context.Context, owner string) ([]models.Issue, error)
	FindAll(ctx context.Context) ([]models.Issue, error)
	Patch(ctx context.Context, id string, patch models.IssuePatch) (*models.Issue, error)
}

// VoteAggregator tallies the votes on one issue.
type VoteAggregator interface {
	Summarize(ctx context.Context, issueID, voter string) (models.VoteSummary, error)
}

// CommentStore reads the comments on one issue, newest first.
type CommentStore interface {
	Count(ctx context.Context, issueID string) (int64, error)
	Recent(ctx context.Context, issueID string, limit int) ([]models.Comment, error)
}

// VoteRepository persists individual votes.
type VoteRepository interface {
	Tally(ctx context.Context, issueID string) (up, down int64, err error)
	FindByVoter(ctx context.Context, issueID, voter string) (*models.Vote, error)
	Upsert(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, issueID, voter string) error
}

// CommentRepository persists comments.
type CommentRepository interface {
	CommentStore
	Insert(ctx context.Context, comment *models.Comment) error
}

// UserRepository looks users up by their login handle.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
}
