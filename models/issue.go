package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IssueCategory enum
type IssueCategory string

const (
	Road        IssueCategory = "ROAD"
	Water       IssueCategory = "WATER"
	Sanitation  IssueCategory = "SANITATION"
	Electricity IssueCategory = "ELECTRICITY"
	Garbage     IssueCategory = "GARBAGE"
	Streetlight IssueCategory = "STREETLIGHT"
	Other       IssueCategory = "OTHER"
)

var issueCategories = []IssueCategory{Road, Water, Sanitation, Electricity, Garbage, Streetlight, Other}

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "OPEN"
	StatusInProgress IssueStatus = "IN_PROGRESS"
	StatusResolved   IssueStatus = "RESOLVED"
)

// InitialStatus is the status every new issue starts in.
const InitialStatus = StatusOpen

var issueStatuses = []IssueStatus{StatusOpen, StatusInProgress, StatusResolved}

var (
	ErrInvalidStatus   = errors.New("invalid issue status")
	ErrInvalidCategory = errors.New("invalid issue category")
)

// InvalidStatusError reports status text that does not name a known status.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidStatus, e.Value)
}

func (e *InvalidStatusError) Unwrap() error {
	return ErrInvalidStatus
}

// normalizeToken trims, upper-cases and turns '-' and ' ' into '_', so
// "in-progress", "In Progress" and "IN_PROGRESS" all read the same.
func normalizeToken(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	return strings.NewReplacer("-", "_", " ", "_").Replace(v)
}

// ParseStatus maps free-form status text onto the status enumeration.
func ParseStatus(value string) (IssueStatus, error) {
	token := IssueStatus(normalizeToken(value))
	for _, s := range issueStatuses {
		if s == token {
			return s, nil
		}
	}
	return "", &InvalidStatusError{Value: value}
}

// ParseCategory maps free-form category text onto the category enumeration.
func ParseCategory(value string) (IssueCategory, error) {
	token := IssueCategory(normalizeToken(value))
	for _, c := range issueCategories {
		if c == token {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, value)
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Location      string             `bson:"location" json:"location"`
	PhotoURL      string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	ImageBase64   string             `bson:"imageBase64,omitempty" json:"imageBase64,omitempty"`
	Category      IssueCategory      `bson:"category,omitempty" json:"category,omitempty"`
	Status        IssueStatus        `bson:"status" json:"status"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedByID   string             `bson:"createdById,omitempty" json:"createdById,omitempty"`
	CreatedByName string             `bson:"createdByName,omitempty" json:"createdByName,omitempty"`
	Assignee      string             `bson:"assignee,omitempty" json:"assignee,omitempty"`
	CreatedAt     int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt     int64              `bson:"updatedAt" json:"updatedAt"`
}

// IssuePatch is a field-level change to an issue. A nil field is left alone;
// an Assignee pointing at "" unassigns the issue.
type IssuePatch struct {
	Status    *IssueStatus
	Assignee  *string
	UpdatedAt int64
}

// Apply returns a copy of issue with the patch applied. It is the in-memory
// counterpart of the repository's $set/$unset update and must stay in step
// with it.
func (p IssuePatch) Apply(issue Issue) Issue {
	if p.Status != nil {
		issue.Status = *p.Status
	}
	if p.Assignee != nil {
		issue.Assignee = *p.Assignee
	}
	issue.UpdatedAt = p.UpdatedAt
	return issue
}

// EnsureIssueIndexes backs the owner listing and the global recency feed
func EnsureIssueIndexes(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	})
	return err
}
