package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-account-portal/internal/model"
	"go-account-portal/internal/token"
	"go-account-portal/pkg/apierror"
)

const bcryptCost = 12

// UserStore is the credential store the service runs against. Implemented
// by repository.UserRepository; tests swap in an in-memory fake.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) error
}

type AuthService struct {
	users UserStore
	codec *token.Codec
}

func NewAuthService(users UserStore, codec *token.Codec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Register creates an account from a validated request and returns the new
// user id. Duplicate usernames conflict and leave the existing row alone.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	username := strings.TrimSpace(req.Username)

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apierror.Conflict("username already exists", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return "", err
	}

	birthday, err := req.BirthdayDate()
	if err != nil {
		return "", apierror.BadRequest("birthday must be a date in YYYY-MM-DD format", req.Birthday)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:            uuid.NewString(),
		Username:      username,
		PasswordHash:  string(hash),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		FavoriteColor: strings.TrimSpace(req.FavoriteColor),
		Nickname:      strings.TrimSpace(req.Nickname),
		Birthday:      birthday,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	return user.ID, nil
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords produce the same error so the two are not
// distinguishable from outside. Store failures are not credential failures
// and propagate unchanged.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.AuthUser, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound {
			return model.AuthUser{}, "", apierror.Unauthorized("invalid username or password")
		}
		return model.AuthUser{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthUser{}, "", apierror.Unauthorized("invalid username or password")
	}

	authUser := model.AuthUser{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	minted, err := s.codec.Mint(authUser)
	if err != nil {
		return model.AuthUser{}, "", err
	}

	return authUser, minted, nil
}

// Profile reads the full account record for an already-authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	return model.Profile{
		ID:            user.ID,
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		FavoriteColor: user.FavoriteColor,
		Nickname:      user.Nickname,
		Birthday:      user.Birthday.Format("2006-01-02"),
	}, nil
}
