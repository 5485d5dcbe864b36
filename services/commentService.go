package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxCommentWindow = 100

var ErrEmptyComment = errors.New("comment body is required")

// CommentService posts and reads comments. It is the CommentStore the issue
// service enriches with.
type CommentService struct {
	comments CommentRepository
	issues   IssueRepository
	now      func() time.Time
}

func NewCommentService(comments CommentRepository, issues IssueRepository) *CommentService {
	return &CommentService{comments: comments, issues: issues, now: time.Now}
}

func (s *CommentService) Count(ctx context.Context, issueID string) (int64, error) {
	return s.comments.Count(ctx, issueID)
}

// Recent returns at most limit comments, newest first. The limit is clamped
// to [1, 100].
func (s *CommentService) Recent(ctx context.Context, issueID string, limit int) ([]models.Comment, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxCommentWindow {
		limit = maxCommentWindow
	}
	comments, err := s.comments.Recent(ctx, issueID, limit)
	if err != nil {
		return nil, err
	}
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

// Add posts a comment by author on an existing issue.
func (s *CommentService) Add(ctx context.Context, issueID string, author Owner, body string) (*models.Comment, error) {
	if strings.TrimSpace(author.Email) == "" {
		return nil, ErrMissingIdentity
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("find issue: %w", err)
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}

	comment := &models.Comment{
		ID:         primitive.NewObjectID(),
		Issue:      issue.ID,
		Author:     author.Email,
		AuthorName: author.Name,
		Body:       body,
		CreatedAt:  s.now().UnixMilli(),
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}
