package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Comment is a note left on an issue by a signed-in user
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue      primitive.ObjectID `bson:"issue" json:"issue"`
	Author     string             `bson:"author" json:"author"`
	AuthorName string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	Body       string             `bson:"body" json:"body"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
}

// EnsureCommentIndex backs the newest-first lookup per issue
func EnsureCommentIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "issue", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
