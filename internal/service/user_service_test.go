package service

import (
	"context"
	"testing"

	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeUserStore struct {
	users       map[string]*models.User
	savedTokens map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}, savedTokens: map[string]string{}}
}

func (f *fakeUserStore) Create(user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return apierr.UserAlreadyExists()
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, nil
}

func (f *fakeUserStore) SaveToken(_ context.Context, userID, token string) error {
	f.savedTokens[userID] = token
	return nil
}

func staticSigner(token string) TokenSigner {
	return func(string) (string, error) { return token, nil }
}

// ---- tests ----

func TestRegisterLowercasesEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, staticSigner("tok"))

	view, err := svc.Register(context.Background(), Credentials{Email: "Alice@Example.COM", Password: "securepass123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", view.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, staticSigner("tok"))
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Email: "alice@example.com", Password: "securepass123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{Email: "ALICE@example.com", Password: "otherpass456"})
	require.Error(t, err)
	apiErr := apierr.As(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, apierr.CodeUserAlreadyExists, apiErr.Code)
}

func TestLoginIssuesAndPersistsToken(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, staticSigner("signed-token"))
	ctx := context.Background()

	registered, err := svc.Register(ctx, Credentials{Email: "alice@example.com", Password: "securepass123"})
	require.NoError(t, err)

	view, err := svc.Login(ctx, Credentials{Email: "alice@example.com", Password: "securepass123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, view.ID)
	assert.Equal(t, "signed-token", view.Token)
	assert.Equal(t, "signed-token", store.savedTokens[registered.ID])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, staticSigner("tok"))
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Email: "alice@example.com", Password: "securepass123"})
	require.NoError(t, err)

	// Wrong password and unknown email answer with the same error.
	for _, credentials := range []Credentials{
		{Email: "alice@example.com", Password: "wrongpass"},
		{Email: "nobody@example.com", Password: "securepass123"},
	} {
		_, err = svc.Login(ctx, credentials)
		require.Error(t, err)
		apiErr := apierr.As(err)
		require.NotNil(t, apiErr)
		assert.Equal(t, apierr.CodeUnauthorized, apiErr.Code)
	}
}
