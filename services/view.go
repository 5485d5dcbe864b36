package services

import "civicsync-triage/models"

// CommentSummary is the comment count of an issue plus its newest comments.
type CommentSummary struct {
	Total  int64
	Recent []models.Comment
}

// IssueView is an issue merged with its vote and comment summaries. It is
// assembled per read and never stored.
type IssueView struct {
	Issue    models.Issue
	Votes    models.VoteSummary
	Comments CommentSummary
}

// MergeView combines an issue with its summaries. It does not care how the
// summaries were fetched.
func MergeView(issue models.Issue, votes models.VoteSummary, comments CommentSummary) IssueView {
	if votes.Own == "" {
		votes.Own = models.VoteNone
	}
	if comments.Recent == nil {
		comments.Recent = []models.Comment{}
	} else {
		comments.Recent = append([]models.Comment(nil), comments.Recent...)
	}
	return IssueView{
		Issue:    issue,
		Votes:    votes,
		Comments: comments,
	}
}
