package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	IssuesCollection   = "issues"
	VotesCollection    = "votes"
	CommentsCollection = "comments"
	UsersCollection    = "users"
)

// ConnectDB connects to MongoDB and returns the configured database
func ConnectDB(ctx context.Context, s Settings) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	slog.Info("connected to MongoDB", "database", s.MongoDatabase)
	return client, client.Database(s.MongoDatabase), nil
}

// EnsureIndexes creates the indexes the repositories rely on
func EnsureIndexes(db *mongo.Database) error {
	if err := models.EnsureIssueIndexes(db.Collection(IssuesCollection)); err != nil {
		return fmt.Errorf("issue indexes: %w", err)
	}
	if err := models.EnsureVoteIndex(db.Collection(VotesCollection)); err != nil {
		return fmt.Errorf("vote index: %w", err)
	}
	if err := models.EnsureCommentIndex(db.Collection(CommentsCollection)); err != nil {
		return fmt.Errorf("comment index: %w", err)
	}
	if err := models.EnsureUserIndex(db.Collection(UsersCollection)); err != nil {
		return fmt.Errorf("user index: %w", err)
	}
	return nil
}
