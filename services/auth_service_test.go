package services

import (
	"context"
	"net/http"
	"testing"

	"stashbox/models"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	usersByID    map[uint]models.User
	usersByEmail map[string]models.User
	nextID       uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByID:    map[uint]models.User{},
		usersByEmail: map[string]models.User{},
		nextID:       1,
	}
}

func (r *fakeUserRepo) CountByEmail(_ context.Context, email string) (int64, error) {
	if _, ok := r.usersByEmail[email]; ok {
		return 1, nil
	}
	return 0, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.usersByID[user.ID] = *user
	r.usersByEmail[user.Email] = *user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (models.User, error) {
	user, ok := r.usersByEmail[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	user, ok := r.usersByID[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newAuthEnv() (AuthService, *fakeUserRepo, *fakeUsageRepo) {
	setTestConfig()
	users := newFakeUserRepo()
	usage := newFakeUsageRepo()
	return NewAuthService(fakeTxManager{}, users, usage), users, usage
}

func TestRegister(t *testing.T) {
	svc, _, usage := newAuthEnv()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "  Ana@Example.COM ", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("expected USER role, got %q", user.Role)
	}

	seeded, ok := usage.usages[user.ID]
	if !ok {
		t.Fatalf("usage record must be created with the user")
	}
	if seeded.MaxStorageBytes == 0 || seeded.MaxItems == 0 || seeded.MaxCollections == 0 {
		t.Fatalf("quota defaults must be applied: %+v", seeded)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "password1"}); appErrCode(err) != http.StatusBadRequest {
		t.Fatalf("bad email must be 400, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "short"}); appErrCode(err) != http.StatusBadRequest {
		t.Fatalf("short password must be 400, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "A@B.C", Password: "password1"}); appErrCode(err) != http.StatusConflict {
		t.Fatalf("duplicate email must be 409, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthEnv()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	out, err := svc.Login(ctx, LoginInput{Email: "a@b.c", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.Token == "" || out.User.Email != "a@b.c" {
		t.Fatalf("unexpected login output %+v", out)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "a@b.c", Password: "wrong-password"}); appErrCode(err) != http.StatusUnauthorized {
		t.Fatalf("wrong password must be 401, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "ghost@b.c", Password: "password1"}); appErrCode(err) != http.StatusUnauthorized {
		t.Fatalf("unknown email must be 401, got %v", err)
	}

	// Deactivated accounts cannot log in.
	user := users.usersByEmail["a@b.c"]
	user.IsActive = false
	users.usersByEmail["a@b.c"] = user
	if _, err := svc.Login(ctx, LoginInput{Email: "a@b.c", Password: "password1"}); appErrCode(err) != http.StatusUnauthorized {
		t.Fatalf("inactive account must be 401, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newAuthEnv()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := svc.GetProfile(ctx, user.ID)
	if err != nil || profile.Email != "a@b.c" {
		t.Fatalf("profile: %+v err %v", profile, err)
	}
	if _, err := svc.GetProfile(ctx, 999); appErrCode(err) != http.StatusNotFound {
		t.Fatalf("missing user must be 404, got %v", err)
	}
}
