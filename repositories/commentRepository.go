package repositories

import (
	"context"
	"fmt"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository stores comments in the "comments" collection.
type CommentRepository struct {
	collection *mongo.Collection
}

func NewCommentRepository(collection *mongo.Collection) *CommentRepository {
	return &CommentRepository{collection: collection}
}

func (r *CommentRepository) Count(ctx context.Context, issueID string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, bson.M{"issue": objectID})
}

func (r *CommentRepository) Recent(ctx context.Context, issueID string, limit int) ([]models.Comment, error) {
	objectID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return []models.Comment{}, nil
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"issue": objectID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *CommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}
