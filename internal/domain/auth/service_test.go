package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fieldops/internal/core/apperror"
)

type fakeUserRepo struct {
	nextID int64
	users  map[string]*User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[string]*User{}} }

func (f *fakeUserRepo) Create(ctx context.Context, u *User) error {
	f.nextID++
	u.ID = f.nextID
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", id)
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := NewJWTService(JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "fieldops-test"})
	return NewService(repo, jwtService), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Tech@Example.COM", "s3cret-pass", "Mario Bianchi", RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, "tech@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))

	result, err := svc.Login(ctx, "tech@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, user.ID, result.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "tech@example.com", "s3cret-pass", "Mario Bianchi", RoleTechnician)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "tech@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	// Unknown account fails with the same message as a wrong password.
	_, unknownErr := svc.Login(ctx, "nobody@example.com", "whatever")
	require.Error(t, unknownErr)
	assert.Equal(t, err.Error(), unknownErr.Error())
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "tech@example.com", "s3cret-pass", "Mario Bianchi", RoleTechnician)
	require.NoError(t, err)
	repo.users[user.Email].Active = false

	_, err = svc.Login(ctx, "tech@example.com", "s3cret-pass")
	require.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	jwtService := NewJWTService(JWTConfig{Secret: "test-secret", TTL: time.Hour})
	user := &User{ID: 42, Email: "admin@example.com", FullName: "Anna Verdi", Role: RoleAdmin}

	token, _, err := jwtService.Generate(user)
	require.NoError(t, err)

	uc, err := jwtService.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), uc.UserID)
	assert.Equal(t, "admin@example.com", uc.Email)
	assert.Equal(t, RoleAdmin, uc.Role)

	// A token signed with a different secret is rejected.
	other := NewJWTService(JWTConfig{Secret: "other-secret", TTL: time.Hour})
	_, err = other.Validate(token)
	require.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "tech@example.com", "s3cret-pass", "Mario Bianchi", RoleTechnician)
	require.NoError(t, err)

	require.Error(t, svc.ChangePassword(ctx, user.ID, "wrong", "new-password"))
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret-pass", "new-password"))

	_, err = svc.Login(ctx, "tech@example.com", "new-password")
	require.NoError(t, err)
}
