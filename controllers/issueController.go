package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"civicsync-triage/middlewares"
	"civicsync-triage/models"
	"civicsync-triage/services"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 10 * time.Second

// IssueController serves the citizen, public and admin issue endpoints.
type IssueController struct {
	issues   *services.IssueService
	votes    *services.VoteService
	comments *services.CommentService
}

func NewIssueController(issues *services.IssueService, votes *services.VoteService, comments *services.CommentService) *IssueController {
	return &IssueController{issues: issues, votes: votes, comments: comments}
}

func ownerFrom(identity middlewares.Identity) services.Owner {
	return services.Owner{Email: identity.Email, ID: identity.UserID, Name: identity.Name}
}

// CreateIssue handles the creation of a new issue
func (ic *IssueController) CreateIssue(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=1000"`
		Location    string `json:"location" binding:"required,max=200"`
		PhotoURL    string `json:"photoUrl" binding:"omitempty,url"`
		ImageBase64 string `json:"imageBase64"`
		Category    string `json:"category" binding:"omitempty,issuecategory"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.IssueCategory
	if input.Category != "" {
		category, _ = models.ParseCategory(input.Category)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.Create(ctx, ownerFrom(identity), services.CreateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		PhotoURL:    input.PhotoURL,
		ImageBase64: input.ImageBase64,
		Category:    category,
	})
	if err != nil {
		respondError(c, err, "Failed to create issue")
		return
	}

	c.JSON(http.StatusCreated, services.NewIssueResponse(*issue))
}

// GetMyIssues lists the caller's own issues with votes and a comment preview.
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	views, err := ic.issues.ListForOwnerEnriched(ctx, identity.Email)
	if err != nil {
		respondError(c, err, "Failed to retrieve issues")
		return
	}
	c.JSON(http.StatusOK, services.NewIssueDetailResponses(views))
}

// GetPublicIssues is the anonymous feed.
func (ic *IssueController) GetPublicIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	views, err := ic.issues.ListPublic(ctx)
	if err != nil {
		respondError(c, err, "Failed to retrieve issues")
		return
	}
	c.JSON(http.StatusOK, services.NewPublicIssueResponses(views))
}

// GetIssue retrieves an issue by its ID with vote and comment detail
func (ic *IssueController) GetIssue(c *gin.Context) {
	viewer := services.AnonymousVoter
	if identity, ok := middlewares.CurrentIdentity(c); ok {
		viewer = identity.Email
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := ic.issues.GetByID(ctx, c.Param("id"), viewer)
	if err != nil {
		respondError(c, err, "Failed to retrieve issue")
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, services.NewIssueDetailResponse(*view))
}

// VoteOnIssue toggles the caller's vote and returns the new tally.
func (ic *IssueController) VoteOnIssue(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, err := models.ParseVoteValue(input.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := ic.votes.Cast(ctx, c.Param("id"), identity.Email, value)
	if err != nil {
		respondError(c, err, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, services.NewVoteResponse(summary))
}

// GetComments lists an issue's comments, newest first. ?limit= defaults to 20.
func (ic *IssueController) GetComments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DetailCommentWindow)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comments, err := ic.comments.Recent(ctx, c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve comments")
		return
	}
	c.JSON(http.StatusOK, services.NewCommentResponses(comments))
}

func (ic *IssueController) AddComment(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Body string `json:"body" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := ic.comments.Add(ctx, c.Param("id"), ownerFrom(identity), input.Body)
	if err != nil {
		respondError(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, services.NewCommentResponse(*comment))
}

// GetAllIssues is the admin triage list.
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issues, err := ic.issues.ListAll(ctx)
	if err != nil {
		respondError(c, err, "Failed to retrieve issues")
		return
	}
	c.JSON(http.StatusOK, services.NewIssueResponses(issues))
}

// UpdateIssue changes an issue's status and/or assignee. Absent fields are
// left alone; an empty assignee unassigns.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	var input struct {
		Status   *string `json:"status"`
		Assignee *string `json:"assignee"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	issue, err := ic.issues.Update(ctx, c.Param("id"), input.Status, input.Assignee)
	if err != nil {
		respondError(c, err, "Failed to update issue")
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, services.NewIssueResponse(*issue))
}
