package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danisatya/asset-management-api/internal/domain/entity"
	repo "github.com/danisatya/asset-management-api/internal/domain/repository"
	"github.com/danisatya/asset-management-api/pkg/helpers"
	"github.com/danisatya/asset-management-api/pkg/mailer"
)

type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]string // email -> id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entity.User{}, byEmail: map[string]string{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return repo.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[u.Email] = u.ID
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return f.GetByID(context.Background(), id)
}

func (f *fakeUserRepo) UpdateLastLoginIP(_ context.Context, id, ip string) error {
	u, ok := f.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.LastLoginIP = &ip
	return nil
}

type fakeNotifier struct {
	published []mailer.EmailJob
	err       error
}

func (f *fakeNotifier) PublishJSON(_ context.Context, body any) error {
	if f.err != nil {
		return f.err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	f.published = append(f.published, job)
	return nil
}

func newTestUserService(r repo.UserRepository, n Notifier) *UserService {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(r, jwt, n, nil)
}

func TestDetectIPChange(t *testing.T) {
	old := "1.1.1.1"
	tests := []struct {
		name    string
		last    *string
		current string
		want    *IPChange
	}{
		{name: "first login alerts with nil old", last: nil, current: "1.1.1.1", want: &IPChange{New: "1.1.1.1"}},
		{name: "same address is silent", last: &old, current: "1.1.1.1", want: nil},
		{name: "new address alerts with both", last: &old, current: "2.2.2.2", want: &IPChange{Old: &old, New: "2.2.2.2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIPChange(tt.last, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserServiceRegister(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestUserService(r, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.PasswordHash, "plaintext is never stored")
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "password123"))

	_, err = svc.Register(ctx, "user@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserServiceLoginInvalidCredentials(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestUserService(r, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, "user@example.com", "nope", "1.1.1.1")
	_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "password123", "1.1.1.1")

	// Unknown email and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownEmail)
}

func TestUserServiceLoginInactiveAccount(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestUserService(r, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)
	r.byID[u.ID].IsActive = false

	_, _, err = svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestUserServiceLoginIssuesToken(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestUserService(r, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	got, token, err := svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, token.AccessToken)

	uid, err := svc.JWT.ParseAccessToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
}

func TestUserServiceLoginIPAlertSequence(t *testing.T) {
	r := newFakeUserRepo()
	n := &fakeNotifier{}
	svc := newTestUserService(r, n)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	// First login: alert with no previous address.
	_, _, err = svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	require.NoError(t, err)
	require.Len(t, n.published, 1)
	assert.Equal(t, "user@example.com", n.published[0].To)
	assert.Contains(t, n.published[0].Text, "first login")
	assert.Contains(t, n.published[0].Text, "1.1.1.1")

	// Same address again: silent.
	_, _, err = svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	require.NoError(t, err)
	assert.Len(t, n.published, 1)

	// New address: alert names both old and new.
	_, _, err = svc.Login(ctx, "user@example.com", "password123", "2.2.2.2")
	require.NoError(t, err)
	require.Len(t, n.published, 2)
	assert.Contains(t, n.published[1].Text, "1.1.1.1")
	assert.Contains(t, n.published[1].Text, "2.2.2.2")
}

func TestUserServiceLoginRecordsIPAfterComparison(t *testing.T) {
	r := newFakeUserRepo()
	n := &fakeNotifier{}
	svc := newTestUserService(r, n)
	ctx := context.Background()

	u, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	require.NoError(t, err)

	stored, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginIP)
	assert.Equal(t, "1.1.1.1", *stored.LastLoginIP)
}

func TestUserServiceLoginPublishFailureDoesNotBlock(t *testing.T) {
	r := newFakeUserRepo()
	n := &fakeNotifier{err: assert.AnError}
	svc := newTestUserService(r, n)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, "user@example.com", "password123", "1.1.1.1")
	require.NoError(t, err, "alert delivery failure must not fail the login")
	assert.NotEmpty(t, token.AccessToken)
}

func TestUserServiceGetActiveUser(t *testing.T) {
	r := newFakeUserRepo()
	svc := newTestUserService(r, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.GetActiveUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.GetActiveUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	r.byID[u.ID].IsActive = false
	_, err = svc.GetActiveUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrInactiveAccount)
}
