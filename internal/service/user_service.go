package service

import (
	"context"
	"strings"
	"time"

	"github.com/salestrack/sales-api/internal/apierr"
	"github.com/salestrack/sales-api/internal/models"
	"github.com/salestrack/sales-api/internal/utils"
)

// UserStore defines the persistence operations UserService relies on.
type UserStore interface {
	Create(user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SaveToken(ctx context.Context, userID, token string) error
}

// TokenSigner issues an auth token for a user id.
type TokenSigner func(userID string) (string, error)

// UserService handles registration and login. Emails are stored lowercased.
type UserService struct {
	store     UserStore
	signToken TokenSigner
}

func NewUserService(store UserStore, signToken TokenSigner) *UserService {
	return &UserService{store: store, signToken: signToken}
}

type Credentials struct {
	Email    string
	Password string
}

func (s *UserService) Register(ctx context.Context, credentials Credentials) (*models.UserView, error) {
	email := strings.ToLower(credentials.Email)

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.UserAlreadyExists()
	}

	passwordHash, err := utils.HashPassword(credentials.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.GenerateID("usr"),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(user); err != nil {
		return nil, err
	}

	return &models.UserView{ID: user.ID, Email: user.Email}, nil
}

// Login answers every credential mismatch with the same UNAUTHORIZED error so
// callers cannot probe which emails are registered. The issued token is
// persisted as the user's last-issued token.
func (s *UserService) Login(ctx context.Context, credentials Credentials) (*models.LoginView, error) {
	email := strings.ToLower(credentials.Email)

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(credentials.Password, user.PasswordHash) {
		return nil, apierr.Unauthorized()
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveToken(ctx, user.ID, token); err != nil {
		return nil, err
	}

	return &models.LoginView{ID: user.ID, Email: user.Email, Token: token}, nil
}
