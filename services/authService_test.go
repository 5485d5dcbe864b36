package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"civicsync-triage/models"
	"civicsync-triage/services/mocks"

	"go.uber.org/mock/gomock"
)

func TestRegisterHashesAndNormalizesEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, nil)

	users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
	users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{Name: " Alice ", Email: " Alice@X.com ", Password: "secret123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@x.com" || user.Name != "Alice" || user.Role != models.RoleCitizen {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.Password == "secret123" || !user.ComparePassword("secret123") {
		t.Fatalf("expected a bcrypt hash")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, nil)

	users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(&models.User{Email: "alice@x.com"}, nil)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "alice@x.com", Password: "secret123"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterLosingInsertRaceReportsEmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, nil)

	users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
	users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(fmt.Errorf("%w: E11000 duplicate key", models.ErrDuplicateUser))

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "alice@x.com", Password: "secret123"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, nil)

	stored := &models.User{Email: "alice@x.com", Password: "secret123"}
	if err := stored.HashPassword(); err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(stored, nil).Times(2)
	users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(nil, nil)

	if _, err := svc.Login(context.Background(), "ALICE@x.com", "secret123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@x.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewAuthService(users, nil)

	if err := svc.SeedAdmin(context.Background(), "", "", ""); err != nil {
		t.Fatalf("expected unconfigured seeding to be a no-op, got %v", err)
	}

	users.EXPECT().FindByEmail(gomock.Any(), "root@x.com").Return(nil, nil)
	users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
		if u.Role != models.RoleAdmin || u.Name != "Administrator" {
			t.Fatalf("unexpected seeded user %+v", u)
		}
		return nil
	})
	if err := svc.SeedAdmin(context.Background(), "", "Root@x.com", "pw123456"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	users.EXPECT().FindByEmail(gomock.Any(), "root@x.com").Return(&models.User{Email: "root@x.com"}, nil)
	if err := svc.SeedAdmin(context.Background(), "Root", "root@x.com", "pw123456"); err != nil {
		t.Fatalf("expected existing admin to be left alone, got %v", err)
	}

	users.EXPECT().FindByEmail(gomock.Any(), "root@x.com").Return(nil, nil)
	users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(models.ErrDuplicateUser)
	if err := svc.SeedAdmin(context.Background(), "Root", "root@x.com", "pw123456"); err != nil {
		t.Fatalf("expected a replica losing the seed race to carry on, got %v", err)
	}
}
