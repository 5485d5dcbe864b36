package repositories

import (
	"context"
	"errors"

	"civicsync-triage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteRepository stores one vote per (issue, voter) in the "votes" collection.
type VoteRepository struct {
	collection *mongo.Collection
}

func NewVoteRepository(collection *mongo.Collection) *VoteRepository {
	return &VoteRepository{collection: collection}
}

func (r *VoteRepository) Tally(ctx context.Context, issueID string) (int64, int64, error) {
	objectID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return 0, 0, nil
	}

	up, err := r.collection.CountDocuments(ctx, bson.M{"issue": objectID, "value": models.VoteUp})
	if err != nil {
		return 0, 0, err
	}
	down, err := r.collection.CountDocuments(ctx, bson.M{"issue": objectID, "value": models.VoteDown})
	if err != nil {
		return 0, 0, err
	}
	return up, down, nil
}

func (r *VoteRepository) FindByVoter(ctx context.Context, issueID, voter string) (*models.Vote, error) {
	objectID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil, nil
	}

	var vote models.Vote
	err = r.collection.FindOne(ctx, bson.M{"issue": objectID, "voter": voter}).Decode(&vote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// Upsert records the vote, replacing the voter's earlier vote on the issue.
func (r *VoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	if vote.ID.IsZero() {
		vote.ID = primitive.NewObjectID()
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"issue": vote.Issue, "voter": vote.Voter},
		bson.M{
			"$set":         bson.M{"value": vote.Value, "createdAt": vote.CreatedAt},
			"$setOnInsert": bson.M{"_id": vote.ID},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *VoteRepository) Delete(ctx context.Context, issueID, voter string) error {
	objectID, err := primitive.ObjectIDFromHex(issueID)
	if err != nil {
		return nil
	}
	_, err = r.collection.DeleteOne(ctx, bson.M{"issue": objectID, "voter": voter})
	return err
}
