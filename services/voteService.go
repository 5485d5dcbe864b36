package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrIssueNotFound = errors.New("issue not found")

// VoteService records votes and tallies them. It is the VoteAggregator the
// issue service enriches with.
type VoteService struct {
	votes  VoteRepository
	issues IssueRepository
	now    func() time.Time
}

func NewVoteService(votes VoteRepository, issues IssueRepository) *VoteService {
	return &VoteService{votes: votes, issues: issues, now: time.Now}
}

// Summarize tallies the votes on an issue. The anonymous voter never has an
// own vote.
func (s *VoteService) Summarize(ctx context.Context, issueID, voter string) (models.VoteSummary, error) {
	up, down, err := s.votes.Tally(ctx, issueID)
	if err != nil {
		return models.VoteSummary{}, fmt.Errorf("tally votes: %w", err)
	}

	summary := models.VoteSummary{Up: up, Down: down, Own: models.VoteNone}
	if voter == "" || voter == AnonymousVoter {
		return summary, nil
	}

	own, err := s.votes.FindByVoter(ctx, issueID, voter)
	if err != nil {
		return models.VoteSummary{}, fmt.Errorf("find own vote: %w", err)
	}
	if own != nil {
		summary.Own = own.Value
	}
	return summary, nil
}

// Cast toggles voter's vote on an issue: voting the same way twice retracts
// the vote, voting the other way switches it.
func (s *VoteService) Cast(ctx context.Context, issueID, voter string, value models.VoteValue) (models.VoteSummary, error) {
	if voter == "" || voter == AnonymousVoter {
		return models.VoteSummary{}, ErrMissingIdentity
	}

	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return models.VoteSummary{}, fmt.Errorf("find issue: %w", err)
	}
	if issue == nil {
		return models.VoteSummary{}, ErrIssueNotFound
	}

	existing, err := s.votes.FindByVoter(ctx, issueID, voter)
	if err != nil {
		return models.VoteSummary{}, fmt.Errorf("find own vote: %w", err)
	}

	if existing != nil && existing.Value == value {
		if err := s.votes.Delete(ctx, issueID, voter); err != nil {
			return models.VoteSummary{}, fmt.Errorf("remove vote: %w", err)
		}
	} else {
		vote := &models.Vote{
			ID:        primitive.NewObjectID(),
			Issue:     issue.ID,
			Voter:     voter,
			Value:     value,
			CreatedAt: s.now().UnixMilli(),
		}
		if existing != nil {
			vote.ID = existing.ID
		}
		if err := s.votes.Upsert(ctx, vote); err != nil {
			return models.VoteSummary{}, fmt.Errorf("cast vote: %w", err)
		}
	}

	return s.Summarize(ctx, issueID, voter)
}
