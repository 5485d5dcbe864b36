package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const (
	// AnonymousVoter stands in for a viewer who is not signed in.
	AnonymousVoter = "__anon__"

	DetailCommentWindow  = 20
	PreviewCommentWindow = 3

	defaultEnrichTimeout = 5 * time.Second
	listEnrichLimit      = 8
)

var (
	ErrMissingIdentity = errors.New("creator identity is required")
	ErrCollaborator    = errors.New("issue enrichment failed")
)

// Owner is the authenticated account filing an issue. ID and Name are
// copied onto the issue for display.
type Owner struct {
	Email string
	ID    string
	Name  string
}

// CreateIssueInput is an already validated report from a citizen.
type CreateIssueInput struct {
	Title       string
	Description string
	Location    string
	PhotoURL    string
	ImageBase64 string
	Category    models.IssueCategory
}

// IssueService owns the issue lifecycle: creation, triage updates and
// reads enriched with votes and comments.
type IssueService struct {
	issues        IssueRepository
	votes         VoteAggregator
	comments      CommentStore
	now           func() time.Time
	enrichTimeout time.Duration
	logger        *slog.Logger
}

type IssueServiceOption func(*IssueService)

func WithClock(now func() time.Time) IssueServiceOption {
	return func(s *IssueService) { s.now = now }
}

func WithEnrichTimeout(d time.Duration) IssueServiceOption {
	return func(s *IssueService) {
		if d > 0 {
			s.enrichTimeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) IssueServiceOption {
	return func(s *IssueService) { s.logger = resolveLogger(logger) }
}

func NewIssueService(issues IssueRepository, votes VoteAggregator, comments CommentStore, opts ...IssueServiceOption) *IssueService {
	s := &IssueService{
		issues:        issues,
		votes:         votes,
		comments:      comments,
		now:           time.Now,
		enrichTimeout: defaultEnrichTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create files a new issue for owner in the initial status.
func (s *IssueService) Create(ctx context.Context, owner Owner, in CreateIssueInput) (*models.Issue, error) {
	if strings.TrimSpace(owner.Email) == "" {
		return nil, ErrMissingIdentity
	}

	now := s.now().UnixMilli()
	issue := &models.Issue{
		ID:            primitive.NewObjectID(),
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		PhotoURL:      in.PhotoURL,
		ImageBase64:   in.ImageBase64,
		Category:      in.Category,
		Status:        models.InitialStatus,
		CreatedBy:     owner.Email,
		CreatedByID:   owner.ID,
		CreatedByName: owner.Name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, fmt.Errorf("save issue: %w", err)
	}

	s.logger.InfoContext(ctx, "issue created", "issue_id", issue.ID.Hex(), "created_by", owner.Email)
	return issue, nil
}

// ListForOwner returns the issues filed by owner, most recently touched first.
func (s *IssueService) ListForOwner(ctx context.Context, owner string) ([]models.Issue, error) {
	issues, err := s.issues.FindByCreatedBy(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list issues for owner: %w", err)
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// ListAll returns every issue, most recently touched first.
func (s *IssueService) ListAll(ctx context.Context) ([]models.Issue, error) {
	issues, err := s.issues.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// Update changes the status and/or assignee of an issue. A nil argument
// leaves that field alone, as does blank status text; a blank assignee
// unassigns. It returns nil, nil when the issue does not exist. When nothing
// is left to change, nothing is written and the stored issue is returned as
// is.
func (s *IssueService) Update(ctx context.Context, id string, status, assignee *string) (*models.Issue, error) {
	existing, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find issue: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	var patch models.IssuePatch
	if status != nil && strings.TrimSpace(*status) != "" {
		parsed, err := models.ParseStatus(*status)
		if err != nil {
			return nil, err
		}
		patch.Status = &parsed
	}
	if assignee != nil {
		value := *assignee
		if strings.TrimSpace(value) == "" {
			value = ""
		}
		patch.Assignee = &value
	}
	if patch.Status == nil && patch.Assignee == nil {
		return existing, nil
	}

	patch.UpdatedAt = s.now().UnixMilli()
	if patch.UpdatedAt <= existing.UpdatedAt {
		patch.UpdatedAt = existing.UpdatedAt + 1
	}

	updated, err := s.issues.Patch(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update issue: %w", err)
	}
	if updated == nil {
		return nil, nil
	}

	s.logger.InfoContext(ctx, "issue updated",
		"issue_id", id,
		"status", updated.Status,
		"assignee", updated.Assignee,
	)
	return updated, nil
}

// GetByID returns the issue with its vote and comment summaries, or nil, nil
// when there is no such issue. An empty viewer reads anonymously.
func (s *IssueService) GetByID(ctx context.Context, id, viewer string) (*IssueView, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find issue: %w", err)
	}
	if issue == nil {
		return nil, nil
	}

	view, err := s.enrich(ctx, *issue, viewerOrAnonymous(viewer), DetailCommentWindow)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListPublic is ListAll with an anonymous vote tally on every issue. Comments
// are not fetched since the public feed does not show them.
func (s *IssueService) ListPublic(ctx context.Context) ([]IssueView, error) {
	issues, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, issues, s.enrichVotes)
}

// ListForOwnerEnriched is ListForOwner with a vote tally and a short comment
// preview on every issue; the owner is also the viewer.
func (s *IssueService) ListForOwnerEnriched(ctx context.Context, owner string) ([]IssueView, error) {
	issues, err := s.ListForOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	viewer := viewerOrAnonymous(owner)
	return s.enrichAll(ctx, issues, func(ctx context.Context, issue models.Issue) (IssueView, error) {
		return s.enrich(ctx, issue, viewer, PreviewCommentWindow)
	})
}

func (s *IssueService) enrichAll(ctx context.Context, issues []models.Issue, enrich func(context.Context, models.Issue) (IssueView, error)) ([]IssueView, error) {
	views := make([]IssueView, len(issues))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listEnrichLimit)
	for i := range issues {
		i := i
		g.Go(func() error {
			view, err := enrich(gctx, issues[i])
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// enrich fetches the vote and comment summaries concurrently under the
// enrichment deadline. Any collaborator failure fails the whole read.
func (s *IssueService) enrich(ctx context.Context, issue models.Issue, viewer string, window int) (IssueView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	issueID := issue.ID.Hex()
	var (
		votes    models.VoteSummary
		comments CommentSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.votes.Summarize(gctx, issueID, viewer)
		if err != nil {
			return fmt.Errorf("%w: vote summary for %s: %w", ErrCollaborator, issueID, err)
		}
		votes = summary
		return nil
	})
	g.Go(func() error {
		total, err := s.comments.Count(gctx, issueID)
		if err != nil {
			return fmt.Errorf("%w: comment count for %s: %w", ErrCollaborator, issueID, err)
		}
		recent, err := s.comments.Recent(gctx, issueID, window)
		if err != nil {
			return fmt.Errorf("%w: recent comments for %s: %w", ErrCollaborator, issueID, err)
		}
		comments = CommentSummary{Total: total, Recent: recent}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "issue enrichment failed", "issue_id", issueID, "error", err)
		return IssueView{}, err
	}

	return MergeView(issue, votes, comments), nil
}

// enrichVotes attaches the anonymous vote summary and nothing else.
func (s *IssueService) enrichVotes(ctx context.Context, issue models.Issue) (IssueView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	issueID := issue.ID.Hex()
	votes, err := s.votes.Summarize(ctx, issueID, AnonymousVoter)
	if err != nil {
		err = fmt.Errorf("%w: vote summary for %s: %w", ErrCollaborator, issueID, err)
		s.logger.WarnContext(ctx, "issue enrichment failed", "issue_id", issueID, "error", err)
		return IssueView{}, err
	}
	return MergeView(issue, votes, CommentSummary{}), nil
}

func viewerOrAnonymous(viewer string) string {
	if strings.TrimSpace(viewer) == "" {
		return AnonymousVoter
	}
	return viewer
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
