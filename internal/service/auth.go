package service

// AuthService is the business logic layer for accounts and sessions:
//
//	UserHandler (HTTP) → AuthService (rules) → AccountRepository (MongoDB)
//	                   ↘ TokenService (JWT) ↘ PasswordService (bcrypt) ↘ Assets (S3)
//
// SESSION MODEL:
// A session is an access/refresh token pair. The refresh token is also
// stored on the account, and Refresh only accepts the exact stored value.
// Every successful Refresh rotates the pair, so a refresh token works once.
// Logout unsets the stored value, which invalidates every outstanding
// refresh token for that account at once.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// AuthService handles registration, login, token refresh and the account's
// own profile.
//
// DEPENDENCIES (injected via NewAuthService):
//   - accounts   repository.AccountRepository → users collection
//   - tokens     *auth.TokenService           → sign/verify both token kinds
//   - passwords  *auth.PasswordService        → bcrypt hashing
//   - assets     *Assets                      → avatar and cover uploads
//   - logger     *slog.Logger
type AuthService struct {
	accounts  repository.AccountRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	assets    *Assets
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	accounts repository.AccountRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	assets *Assets,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		assets:    assets,
		logger:    logger,
	}
}

// AuthService is the Authenticator behind RequireAuth.
var _ auth.Authenticator = (*AuthService)(nil)

// RegisterInput is the parsed registration form. Cover is optional.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Avatar   *media.File
	Cover    *media.File
}

// LoginInput identifies the account by username or email.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Session is a freshly issued token pair plus the account it belongs to.
type Session struct {
	User         *model.Account `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

// Register creates an account. Username and email are stored lowercase.
//
// The avatar upload is required and its failure aborts the registration.
// A failed cover upload is logged and the account is created without one.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	fields := []struct{ name, value string }{
		{"fullName", in.FullName},
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, apperror.ValidationFailed(f.name, "All fields are required")
		}
	}
	if in.Avatar == nil {
		return nil, apperror.ValidationFailed("avatar", "Avatar file is required")
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := s.accounts.ExistsByLogin(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking existing account: %w", err)
	}
	if exists {
		return nil, apperror.ConflictMessage("", "User with email or username already exists")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "Password is too long")
	}

	avatar, err := s.assets.Upload(ctx, in.Avatar, media.FolderAvatar, "avatar")
	if err != nil {
		return nil, err
	}

	var coverURL string
	if in.Cover != nil {
		cover, err := s.assets.Upload(ctx, in.Cover, media.FolderCover, "cover image")
		if err != nil {
			s.logger.Warn("cover image upload failed; registering without one",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		} else {
			coverURL = cover.URL
		}
	}

	account := &model.Account{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ConflictMessage("", "User with email or username already exists")
		}
		return nil, fmt.Errorf("service/auth: creating account: %w", err)
	}

	s.logger.Info("account registered",
		slog.String("userID", account.ID.Hex()),
		slog.String("username", account.Username),
	)
	return account, nil
}

// Login verifies the password and issues a new session. A wrong password
// leaves the stored refresh token untouched.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" && email == "" {
		return nil, apperror.ValidationFailed("username", "username or email is required")
	}

	account, err := s.accounts.FindByLogin(ctx, username, email)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.Verify(account.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash is unreadable",
				slog.String("userID", account.ID.Hex()),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized("Invalid user credentials")
	}

	session, err := s.issueSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", slog.String("userID", account.ID.Hex()))
	return session, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// be the one currently stored on the account.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}

	subject, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}
	id, err := callerID(subject)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}
	if account.RefreshToken == "" || account.RefreshToken != refreshToken {
		s.logger.Warn("refresh token reuse or revoked token", slog.String("userID", subject))
		return nil, apperror.Unauthorized("Refresh token is expired or used")
	}

	return s.issueSession(ctx, account)
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, caller string) error {
	id, err := callerID(caller)
	if err != nil {
		return err
	}
	if err := s.accounts.SetRefreshToken(ctx, id, ""); err != nil {
		return err
	}
	s.logger.Info("user logged out", slog.String("userID", caller))
	return nil
}

// ChangePassword replaces the password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, caller, oldPassword, newPassword string) error {
	id, err := callerID(caller)
	if err != nil {
		return err
	}
	if strings.TrimSpace(newPassword) == "" {
		return apperror.ValidationFailed("newPassword", "New password is required")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.passwords.Verify(account.PasswordHash, oldPassword); err != nil {
		return apperror.Unauthorized("Invalid old password")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return apperror.ValidationFailed("newPassword", "Password is too long")
	}
	return s.accounts.SetPassword(ctx, id, hash)
}

// Authenticate validates an access token and checks the account still
// exists.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (auth.Identity, error) {
	identity, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		return auth.Identity{}, apperror.Unauthorized("Invalid access token")
	}
	id, err := callerID(identity.UserID)
	if err != nil {
		return auth.Identity{}, err
	}
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return auth.Identity{}, apperror.Unauthorized("Invalid access token")
		}
		return auth.Identity{}, err
	}
	return identity, nil
}

// CurrentUser returns the caller's account.
func (s *AuthService) CurrentUser(ctx context.Context, caller string) (*model.Account, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}

// UpdateDetails changes the caller's full name and email.
func (s *AuthService) UpdateDetails(ctx context.Context, caller, fullName, email string) (*model.Account, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	fullName, err = required("fullName", fullName, "All fields are required")
	if err != nil {
		return nil, err
	}
	email, err = required("email", email, "All fields are required")
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.UpdateDetails(ctx, id, fullName, strings.ToLower(email))
	if errors.Is(err, apperror.ErrConflict) {
		return nil, apperror.ConflictMessage("email", "Email is already in use")
	}
	return account, err
}

// UpdateAvatar uploads a new avatar and removes the previous one.
func (s *AuthService) UpdateAvatar(ctx context.Context, caller string, f *media.File) (*model.Account, error) {
	return s.replaceImage(ctx, caller, f, "avatar", media.FolderAvatar,
		func(a *model.Account) string { return a.Avatar },
		s.accounts.SetAvatar,
	)
}

// UpdateCover uploads a new cover image and removes the previous one.
func (s *AuthService) UpdateCover(ctx context.Context, caller string, f *media.File) (*model.Account, error) {
	return s.replaceImage(ctx, caller, f, "coverImage", media.FolderCover,
		func(a *model.Account) string { return a.CoverImage },
		s.accounts.SetCoverImage,
	)
}

func (s *AuthService) replaceImage(
	ctx context.Context,
	caller string,
	f *media.File,
	field, folder string,
	current func(*model.Account) string,
	set func(context.Context, primitive.ObjectID, string) (*model.Account, error),
) (*model.Account, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperror.ValidationFailed(field, field+" file is missing")
	}

	before, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	asset, err := s.assets.Upload(ctx, f, folder, field)
	if err != nil {
		return nil, err
	}
	after, err := set(ctx, id, asset.URL)
	if err != nil {
		return nil, err
	}

	s.assets.RemoveLater(ctx, current(before), media.ResourceImage)
	return after, nil
}

// ChannelProfile returns the channel named username as seen by caller.
func (s *AuthService) ChannelProfile(ctx context.Context, caller, username string) (*model.ChannelProfile, error) {
	viewer, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	username, err = required("username", username, "username is missing")
	if err != nil {
		return nil, err
	}
	return s.accounts.ChannelProfile(ctx, strings.ToLower(username), viewer)
}

// WatchHistory returns the caller's watched videos in watch order.
func (s *AuthService) WatchHistory(ctx context.Context, caller string) ([]model.VideoListItem, error) {
	id, err := callerID(caller)
	if err != nil {
		return nil, err
	}
	return s.accounts.WatchHistory(ctx, id)
}

// issueSession mints a pair and stores the refresh half on the account.
func (s *AuthService) issueSession(ctx context.Context, account *model.Account) (*Session, error) {
	access, err := s.tokens.IssueAccess(auth.Identity{
		UserID:   account.ID.Hex(),
		Username: account.Username,
		Email:    account.Email,
		FullName: account.FullName,
	})
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}
	refresh, err := s.tokens.IssueRefresh(account.ID.Hex())
	if err != nil {
		return nil, apperror.Internal("Something went wrong while generating tokens", err)
	}

	if err := s.accounts.SetRefreshToken(ctx, account.ID, refresh); err != nil {
		return nil, err
	}
	account.RefreshToken = refresh

	return &Session{User: account, AccessToken: access, RefreshToken: refresh}, nil
}
