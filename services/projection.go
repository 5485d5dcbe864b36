package services

import "civicsync-triage/models"

// IssueResponse is the full projection shown to owners and administrators.
type IssueResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	PhotoURL      string               `json:"photoUrl,omitempty"`
	ImageBase64   string               `json:"imageBase64,omitempty"`
	Category      models.IssueCategory `json:"category,omitempty"`
	Status        models.IssueStatus   `json:"status"`
	CreatedBy     string               `json:"createdBy"`
	CreatedByID   string               `json:"createdById,omitempty"`
	CreatedByName string               `json:"createdByName,omitempty"`
	Assignee      string               `json:"assignee,omitempty"`
	CreatedAt     int64                `json:"createdAt"`
	UpdatedAt     int64                `json:"updatedAt"`
}

type CommentResponse struct {
	ID         string `json:"id"`
	Author     string `json:"author"`
	AuthorName string `json:"authorName,omitempty"`
	Body       string `json:"body"`
	CreatedAt  int64  `json:"createdAt"`
}

// VoteResponse is a vote tally as seen by one viewer. UserVote is omitted
// when the viewer has not voted.
type VoteResponse struct {
	UpVotes   int64            `json:"upVotes"`
	DownVotes int64            `json:"downVotes"`
	UserVote  models.VoteValue `json:"userVote,omitempty"`
}

// IssueDetailResponse is the full projection with vote and comment detail.
type IssueDetailResponse struct {
	IssueResponse
	VoteResponse
	CommentCount   int64             `json:"commentCount"`
	RecentComments []CommentResponse `json:"recentComments"`
}

// PublicIssueResponse is the anonymous feed projection: no identifiers, no
// assignee, only the upvote count.
type PublicIssueResponse struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    models.IssueCategory `json:"category,omitempty"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
	Location    string               `json:"location"`
	Status      models.IssueStatus   `json:"status"`
	CreatedAt   int64                `json:"createdAt"`
	UpvoteCount int64                `json:"upvoteCount"`
}

func NewIssueResponse(i models.Issue) IssueResponse {
	return IssueResponse{
		ID:            i.ID.Hex(),
		Title:         i.Title,
		Description:   i.Description,
		Location:      i.Location,
		PhotoURL:      i.PhotoURL,
		ImageBase64:   i.ImageBase64,
		Category:      i.Category,
		Status:        i.Status,
		CreatedBy:     i.CreatedBy,
		CreatedByID:   i.CreatedByID,
		CreatedByName: i.CreatedByName,
		Assignee:      i.Assignee,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func NewIssueResponses(issues []models.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, NewIssueResponse(i))
	}
	return out
}

func NewCommentResponse(c models.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID.Hex(),
		Author:     c.Author,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

func NewCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, NewCommentResponse(c))
	}
	return out
}

func NewVoteResponse(s models.VoteSummary) VoteResponse {
	resp := VoteResponse{UpVotes: s.Up, DownVotes: s.Down}
	if s.Own != models.VoteNone {
		resp.UserVote = s.Own
	}
	return resp
}

// NewIssueDetailResponse projects an enriched view.
func NewIssueDetailResponse(v IssueView) IssueDetailResponse {
	return IssueDetailResponse{
		IssueResponse:  NewIssueResponse(v.Issue),
		VoteResponse:   NewVoteResponse(v.Votes),
		CommentCount:   v.Comments.Total,
		RecentComments: NewCommentResponses(v.Comments.Recent),
	}
}

func NewIssueDetailResponses(views []IssueView) []IssueDetailResponse {
	out := make([]IssueDetailResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewIssueDetailResponse(v))
	}
	return out
}

func NewPublicIssueResponse(v IssueView) PublicIssueResponse {
	return PublicIssueResponse{
		Title:       v.Issue.Title,
		Description: v.Issue.Description,
		Category:    v.Issue.Category,
		ImageBase64: v.Issue.ImageBase64,
		Location:    v.Issue.Location,
		Status:      v.Issue.Status,
		CreatedAt:   v.Issue.CreatedAt,
		UpvoteCount: v.Votes.Up,
	}
}

func NewPublicIssueResponses(views []IssueView) []PublicIssueResponse {
	out := make([]PublicIssueResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewPublicIssueResponse(v))
	}
	return out
}
