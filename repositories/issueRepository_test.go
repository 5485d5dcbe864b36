package repositories

import (
	"context"
	"testing"

	"civicsync-triage/models"
	"civicsync-triage/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var (
	_ services.IssueRepository   = (*IssueRepository)(nil)
	_ services.VoteRepository    = (*VoteRepository)(nil)
	_ services.CommentRepository = (*CommentRepository)(nil)
	_ services.UserRepository    = (*UserRepository)(nil)
)

const testNS = "civicsync.issues"

func issueDoc(id primitive.ObjectID, createdBy string, status models.IssueStatus, updatedAt int64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Pothole"},
		{Key: "description", Value: "Deep"},
		{Key: "location", Value: "5th avenue"},
		{Key: "status", Value: string(status)},
		{Key: "createdBy", Value: createdBy},
		{Key: "createdAt", Value: int64(100)},
		{Key: "updatedAt", Value: updatedAt},
	}
}

func TestIssueRepositoryFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			issueDoc(id, "alice@x.com", models.StatusOpen, 100)))

		issue, err := repo.FindByID(context.Background(), id.Hex())
		if err != nil {
			mt.Fatalf("find failed: %v", err)
		}
		if issue == nil || issue.ID != id || issue.CreatedBy != "alice@x.com" || issue.Status != models.StatusOpen {
			mt.Fatalf("unexpected issue %+v", issue)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		issue, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if issue != nil {
			mt.Fatalf("expected nil issue, got %+v", issue)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)

		issue, err := repo.FindByID(context.Background(), "not-an-object-id")
		if err != nil || issue != nil {
			mt.Fatalf("expected absent result, got %+v, %v", issue, err)
		}
	})
}

func TestIssueRepositoryFindAllDecodesInOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decode", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		newer, older := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch,
			issueDoc(newer, "alice@x.com", models.StatusResolved, 300),
			issueDoc(older, "bob@x.com", models.StatusOpen, 200),
		))

		issues, err := repo.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("find all failed: %v", err)
		}
		if len(issues) != 2 || issues[0].ID != newer || issues[1].ID != older {
			mt.Fatalf("unexpected issues %+v", issues)
		}
	})

	mt.Run("empty", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch))

		issues, err := repo.FindByCreatedBy(context.Background(), "carol@x.com")
		if err != nil {
			mt.Fatalf("find failed: %v", err)
		}
		if issues == nil || len(issues) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", issues)
		}
	})
}

func TestIssueRepositorySave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		issue := &models.Issue{Title: "Pothole", Status: models.StatusOpen}
		if err := repo.Save(context.Background(), issue); err != nil {
			mt.Fatalf("save failed: %v", err)
		}
		if issue.ID.IsZero() {
			mt.Fatalf("expected an id to be assigned")
		}
	})

	mt.Run("propagates failure", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		if err := repo.Save(context.Background(), &models.Issue{Title: "Pothole"}); err == nil {
			mt.Fatalf("expected save to fail")
		}
	})
}

func TestIssueRepositoryPatchReturnsUpdatedDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updated", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: issueDoc(id, "alice@x.com", models.StatusInProgress, 500),
		}))

		status := models.StatusInProgress
		issue, err := repo.Patch(context.Background(), id.Hex(), models.IssuePatch{Status: &status, UpdatedAt: 500})
		if err != nil {
			mt.Fatalf("patch failed: %v", err)
		}
		if issue == nil || issue.Status != models.StatusInProgress || issue.UpdatedAt != 500 {
			mt.Fatalf("unexpected issue %+v", issue)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewIssueRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		status := models.StatusResolved
		issue, err := repo.Patch(context.Background(), primitive.NewObjectID().Hex(), models.IssuePatch{Status: &status, UpdatedAt: 1})
		if err != nil {
			mt.Fatalf("expected no error, got %v", err)
		}
		if issue != nil {
			mt.Fatalf("expected nil issue, got %+v", issue)
		}
	})
}

func TestPatchUpdate(t *testing.T) {
	status := models.StatusResolved
	update := patchUpdate(models.IssuePatch{Status: &status, UpdatedAt: 9})
	set := update["$set"].(bson.M)
	if set["status"] != models.StatusResolved || set["updatedAt"] != int64(9) {
		t.Fatalf("unexpected $set %v", set)
	}
	if _, ok := set["assignee"]; ok {
		t.Fatalf("status-only patch must not touch the assignee")
	}
	if _, ok := update["$unset"]; ok {
		t.Fatalf("status-only patch must not unset anything")
	}

	assignee := "bob@x.com"
	set = patchUpdate(models.IssuePatch{Assignee: &assignee, UpdatedAt: 10})["$set"].(bson.M)
	if set["assignee"] != "bob@x.com" {
		t.Fatalf("expected assignee in $set, got %v", set)
	}
	if _, ok := set["status"]; ok {
		t.Fatalf("assignee-only patch must not touch the status")
	}

	cleared := ""
	update = patchUpdate(models.IssuePatch{Assignee: &cleared, UpdatedAt: 11})
	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatalf("expected $unset for a cleared assignee")
	}
	if _, ok := unset["assignee"]; !ok {
		t.Fatalf("expected assignee to be unset, got %v", unset)
	}
}

func TestPatchUpdateAgreesWithApply(t *testing.T) {
	status := models.StatusInProgress
	assignee := "carol@x.com"
	cleared := ""
	base := models.Issue{Status: models.StatusOpen, Assignee: "bob@x.com", UpdatedAt: 1}

	for _, patch := range []models.IssuePatch{
		{UpdatedAt: 2},
		{Status: &status, UpdatedAt: 3},
		{Assignee: &assignee, UpdatedAt: 4},
		{Assignee: &cleared, UpdatedAt: 5},
		{Status: &status, Assignee: &cleared, UpdatedAt: 6},
	} {
		applied := patch.Apply(base)
		update := patchUpdate(patch)

		stored := base
		for field, value := range update["$set"].(bson.M) {
			switch field {
			case "status":
				stored.Status = value.(models.IssueStatus)
			case "assignee":
				stored.Assignee = value.(string)
			case "updatedAt":
				stored.UpdatedAt = value.(int64)
			default:
				t.Fatalf("unexpected $set field %q", field)
			}
		}
		if unset, ok := update["$unset"].(bson.M); ok {
			for field := range unset {
				if field != "assignee" {
					t.Fatalf("unexpected $unset field %q", field)
				}
				stored.Assignee = ""
			}
		}

		if stored != applied {
			t.Fatalf("update and Apply disagree:\nstored  %+v\napplied %+v", stored, applied)
		}
	}
}
