package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/media"
)

// =========================================================================
// REGISTER
// =========================================================================

func TestRegister_Success(t *testing.T) {
	e := newTestEnv(t)

	a, err := e.auth.Register(context.Background(), RegisterInput{
		Username: "  Ada ",
		Email:    "Ada@Example.com",
		Password: "secret123",
		FullName: "Ada Lovelace",
		Avatar:   testFile("me.png"),
		Cover:    testFile("cover.jpg"),
	})
	require.NoError(t, err)

	assert.Equal(t, "ada", a.Username)
	assert.Equal(t, "ada@example.com", a.Email)
	assert.Equal(t, testMediaBase+"/user-avatar/obj1.png", a.Avatar)
	assert.Equal(t, testMediaBase+"/user-cover/obj2.jpg", a.CoverImage)
	assert.NotEqual(t, "secret123", a.PasswordHash, "password must be stored hashed")
	assert.Empty(t, a.RefreshToken)
}

func TestRegister_MissingFields(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"blank username", RegisterInput{Username: "  ", Email: "a@x.com", Password: "p", FullName: "A", Avatar: testFile("a.png")}},
		{"blank email", RegisterInput{Username: "a", Password: "p", FullName: "A", Avatar: testFile("a.png")}},
		{"blank password", RegisterInput{Username: "a", Email: "a@x.com", FullName: "A", Avatar: testFile("a.png")}},
		{"blank full name", RegisterInput{Username: "a", Email: "a@x.com", Password: "p", Avatar: testFile("a.png")}},
		{"missing avatar", RegisterInput{Username: "a", Email: "a@x.com", Password: "p", FullName: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.auth.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
	assert.Empty(t, e.accounts.byID)
}

func TestRegister_Duplicate(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "ada")

	_, err := e.auth.Register(context.Background(), RegisterInput{
		Username: "someone-else",
		Email:    "ADA@example.com",
		Password: "pw",
		FullName: "Other",
		Avatar:   testFile("a.png"),
	})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "User with email or username already exists", err.Error())
}

func TestRegister_AvatarUploadFails(t *testing.T) {
	e := newTestEnv(t)
	e.media.failOn[media.FolderAvatar] = errors.New("s3 down")

	_, err := e.auth.Register(context.Background(), RegisterInput{
		Username: "ada", Email: "ada@x.com", Password: "pw", FullName: "Ada", Avatar: testFile("a.png"),
	})
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.Empty(t, e.accounts.byID)
}

func TestRegister_CoverUploadFailureIsNotFatal(t *testing.T) {
	e := newTestEnv(t)
	e.media.failOn[media.FolderCover] = errors.New("s3 down")

	a, err := e.auth.Register(context.Background(), RegisterInput{
		Username: "ada", Email: "ada@x.com", Password: "pw", FullName: "Ada",
		Avatar: testFile("a.png"), Cover: testFile("c.png"),
	})
	require.NoError(t, err)
	assert.Empty(t, a.CoverImage)
}

// =========================================================================
// LOGIN / REFRESH / LOGOUT
// =========================================================================

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")

	for _, in := range []LoginInput{
		{Username: "ada", Password: "secret123"},
		{Email: "ADA@example.com", Password: "secret123"},
	} {
		s, err := e.auth.Login(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, id, s.User.ID.Hex())
		assert.NotEmpty(t, s.AccessToken)

		identity, err := e.tokens.ValidateAccess(s.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, id, identity.UserID)
		assert.Equal(t, "ada", identity.Username)

		assert.Equal(t, s.RefreshToken, e.accounts.byID[s.User.ID].RefreshToken,
			"the issued refresh token must be persisted")
	}
}

func TestLogin_WrongPasswordKeepsStoredToken(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "ada")
	s, err := e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	_, err = e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "nope"})
	require.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Invalid user credentials", err.Error())
	assert.Equal(t, s.RefreshToken, e.accounts.byID[s.User.ID].RefreshToken)
}

func TestLogin_Errors(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.auth.Login(context.Background(), LoginInput{Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = e.auth.Login(context.Background(), LoginInput{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "ada")
	first, err := e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	second, err := e.auth.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, e.accounts.byID[second.User.ID].RefreshToken)

	_, err = e.auth.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized, "a rotated token must not be accepted again")

	_, err = e.auth.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_Rejections(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "ada")
	s, err := e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"access token", s.AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.auth.Refresh(context.Background(), tt.token)
			assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		})
	}

	t.Run("account deleted", func(t *testing.T) {
		delete(e.accounts.byID, s.User.ID)
		_, err := e.auth.Refresh(context.Background(), s.RefreshToken)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")
	s, err := e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(context.Background(), id))
	assert.Empty(t, e.accounts.byID[s.User.ID].RefreshToken)

	_, err = e.auth.Refresh(context.Background(), s.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

// =========================================================================
// PASSWORD / PROFILE
// =========================================================================

func TestChangePassword(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")
	ctx := context.Background()

	assert.ErrorIs(t, e.auth.ChangePassword(ctx, id, "wrong", "new-pass"), apperror.ErrUnauthorized)
	assert.ErrorIs(t, e.auth.ChangePassword(ctx, id, "secret123", "  "), apperror.ErrValidation)
	require.NoError(t, e.auth.ChangePassword(ctx, id, "secret123", "new-pass"))

	_, err := e.auth.Login(ctx, LoginInput{Username: "ada", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = e.auth.Login(ctx, LoginInput{Username: "ada", Password: "new-pass"})
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")
	s, err := e.auth.Login(context.Background(), LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)

	identity, err := e.auth.Authenticate(context.Background(), s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, identity.UserID)

	_, err = e.auth.Authenticate(context.Background(), s.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	delete(e.accounts.byID, s.User.ID)
	_, err = e.auth.Authenticate(context.Background(), s.AccessToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized, "a token for a deleted account must be refused")
}

func TestUpdateDetails(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")
	e.register(t, "bob")
	ctx := context.Background()

	a, err := e.auth.UpdateDetails(ctx, id, "Ada King", "Countess@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", a.FullName)
	assert.Equal(t, "countess@example.com", a.Email)

	_, err = e.auth.UpdateDetails(ctx, id, "", "x@y.com")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = e.auth.UpdateDetails(ctx, id, "Ada", "bob@example.com")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateAvatar_RemovesPreviousAsset(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")

	a, err := e.auth.UpdateAvatar(context.Background(), id, testFile("new.png"))
	require.NoError(t, err)
	assert.Equal(t, testMediaBase+"/user-avatar/obj2.png", a.Avatar)
	assert.Equal(t, []string{"user-avatar/obj1.png"}, e.media.removedIDs())
}

func TestUpdateCover_NoPreviousCover(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")

	a, err := e.auth.UpdateCover(context.Background(), id, testFile("c.jpg"))
	require.NoError(t, err)
	assert.NotEmpty(t, a.CoverImage)
	assert.Empty(t, e.media.removedIDs(), "nothing to remove when there was no cover")
}

func TestUpdateAvatar_RemovalFailureIsSwallowed(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "ada")
	e.media.failOn["remove"] = errors.New("s3 down")

	_, err := e.auth.UpdateAvatar(context.Background(), id, testFile("new.png"))
	assert.NoError(t, err)
}

func TestChannelProfileAndHistory(t *testing.T) {
	e := newTestEnv(t)
	ada := e.register(t, "ada")
	bob := e.register(t, "bob")
	ctx := context.Background()

	p, err := e.auth.ChannelProfile(ctx, bob, "ADA")
	require.NoError(t, err)
	assert.Equal(t, ada, p.ID.Hex())

	_, err = e.auth.ChannelProfile(ctx, bob, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	v1 := e.publish(t, ada)
	v2 := e.publish(t, ada)
	for _, v := range []string{v1, v2, v1} {
		_, err := e.video.GetByID(ctx, bob, v)
		require.NoError(t, err)
	}
	history, err := e.auth.WatchHistory(ctx, bob)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, v1, history[0].ID.Hex())
	assert.Equal(t, v2, history[1].ID.Hex())
}

func TestCallerMustBeObjectID(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.auth.CurrentUser(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
