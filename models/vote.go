package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteValue is the direction of a vote. VoteNone only appears in summaries.
type VoteValue string

const (
	VoteUp   VoteValue = "UP"
	VoteDown VoteValue = "DOWN"
	VoteNone VoteValue = "NONE"
)

// ParseVoteValue accepts "up"/"down" in any case.
func ParseVoteValue(value string) (VoteValue, error) {
	switch VoteValue(strings.ToUpper(strings.TrimSpace(value))) {
	case VoteUp:
		return VoteUp, nil
	case VoteDown:
		return VoteDown, nil
	}
	return "", fmt.Errorf("invalid vote value %q", value)
}

// Vote represents a user's vote on an issue
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	Voter     string             `bson:"voter" json:"voter"`
	Value     VoteValue          `bson:"value" json:"value"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}

// VoteSummary is the tally of one issue's votes as seen by one voter.
type VoteSummary struct {
	Up   int64     `json:"upVotes"`
	Down int64     `json:"downVotes"`
	Own  VoteValue `json:"userVote"`
}

// EnsureVoteIndex creates a unique compound index for (issue, voter)
func EnsureVoteIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue", Value: 1}, {Key: "voter", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
