package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"civicsync-triage/middlewares"
	"civicsync-triage/models"
	authUtils "civicsync-triage/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	env.users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(nil, nil)
	env.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ any, user *models.User) error {
		user.ID = primitive.NewObjectID()
		return nil
	})

	w := env.do(http.MethodPost, "/api/auth/register", "", `{"name":"Alice","email":"Alice@x.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	body := decode[map[string]any](t, w)
	if body["email"] != "alice@x.com" || body["role"] != string(models.RoleCitizen) {
		t.Fatalf("unexpected body %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Fatalf("password hash must not be returned")
	}
}

func TestRegisterUserRejects(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodPost, "/api/auth/register", "", `{"name":"Alice","email":"not-an-email","password":"secret123"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad email, got %d", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"123"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a short password, got %d", w.Code)
	}

	env.users.EXPECT().FindByEmail(gomock.Any(), "a@x.com").Return(&models.User{Email: "a@x.com"}, nil)
	w := env.do(http.MethodPost, "/api/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"secret123"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("expected duplicate rejection, got %d %s", w.Code, w.Body.String())
	}

	env.users.EXPECT().FindByEmail(gomock.Any(), "b@x.com").Return(nil, nil)
	env.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(models.ErrDuplicateUser)
	w = env.do(http.MethodPost, "/api/auth/register", "", `{"name":"Bob","email":"b@x.com","password":"secret123"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("expected a lost insert race to read as a duplicate, got %d %s", w.Code, w.Body.String())
	}
}

func TestLoginSetsCookieAndToken(t *testing.T) {
	env := newTestEnv(t)

	stored := &models.User{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@x.com", Password: "secret123", Role: models.RoleAdmin}
	if err := stored.HashPassword(); err != nil {
		t.Fatalf("hash: %v", err)
	}
	env.users.EXPECT().FindByEmail(gomock.Any(), "alice@x.com").Return(stored, nil).Times(2)

	w := env.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@x.com","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.AuthCookie {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly || cookie.Value == "" {
		t.Fatalf("expected an http-only auth cookie, got %+v", cookie)
	}

	body := decode[map[string]any](t, w)
	token, _ := body["token"].(string)
	claims, err := authUtils.ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("returned token does not parse: %v", err)
	}
	if claims.UserID != stored.ID.Hex() || claims.Role != string(models.RoleAdmin) {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if w := env.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@x.com","password":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", w.Code)
	}
}

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(http.MethodGet, "/api/auth/me", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", w.Code)
	}

	env.users.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(&models.User{ID: primitive.NewObjectID(), Email: "alice@x.com"}, nil)
	w := env.do(http.MethodGet, "/api/auth/me", bearer(t, "alice@x.com", models.RoleCitizen), "")
	if w.Code != http.StatusOK || decode[map[string]any](t, w)["email"] != "alice@x.com" {
		t.Fatalf("unexpected me %d %s", w.Code, w.Body.String())
	}

	env.users.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, nil)
	if w := env.do(http.MethodGet, "/api/auth/me", bearer(t, "gone@x.com", models.RoleCitizen), ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a deleted account, got %d", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/logout", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.AuthCookie && c.MaxAge < 0 {
			return
		}
	}
	t.Fatalf("expected the auth cookie to be expired")
}

func TestCreateAdminRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	body := `{"name":"Ops","email":"ops@city.gov","password":"secret123"}`

	if w := env.do(http.MethodPost, "/api/admin/admins", bearer(t, "ops@city.gov", models.RoleAdmin), body); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a plain admin, got %d", w.Code)
	}

	env.users.EXPECT().FindByEmail(gomock.Any(), "ops@city.gov").Return(nil, nil)
	env.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	w := env.do(http.MethodPost, "/api/admin/admins", bearer(t, "root@city.gov", models.RoleSuperAdmin), body)
	if w.Code != http.StatusCreated || decode[map[string]any](t, w)["role"] != string(models.RoleAdmin) {
		t.Fatalf("unexpected create admin %d %s", w.Code, w.Body.String())
	}
}
