package repositories

import (
	"context"
	"errors"
	"fmt"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}

// IssueRepository stores issues in the "issues" collection.
type IssueRepository struct {
	collection *mongo.Collection
}

func NewIssueRepository(collection *mongo.Collection) *IssueRepository {
	return &IssueRepository{collection: collection}
}

// Save inserts the issue or replaces the stored issue with the same id.
func (r *IssueRepository) Save(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": issue.ID},
		issue,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var issue models.Issue
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssueRepository) FindByCreatedBy(ctx context.Context, owner string) ([]models.Issue, error) {
	return r.find(ctx, bson.M{"createdBy": owner})
}

func (r *IssueRepository) FindAll(ctx context.Context) ([]models.Issue, error) {
	return r.find(ctx, bson.M{})
}

func (r *IssueRepository) find(ctx context.Context, filter bson.M) ([]models.Issue, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

// Patch sets only the fields the patch carries, so concurrent updates to
// different fields of one issue do not overwrite each other.
func (r *IssueRepository) Patch(ctx context.Context, id string, patch models.IssuePatch) (*models.Issue, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var issue models.Issue
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		patchUpdate(patch),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// patchUpdate builds the update document for a patch. A cleared assignee is
// removed from the document rather than stored empty.
func patchUpdate(patch models.IssuePatch) bson.M {
	set := bson.M{"updatedAt": patch.UpdatedAt}
	unset := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Assignee != nil {
		if *patch.Assignee == "" {
			unset["assignee"] = ""
		} else {
			set["assignee"] = *patch.Assignee
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
