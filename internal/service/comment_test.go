package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/model"
)

func TestComment_AddAndList(t *testing.T) {
	e := newTestEnv(t)
	owner := e.register(t, "ada")
	videoID := e.publish(t, owner)
	ctx := context.Background()

	c, err := e.comment.Add(ctx, owner, videoID, "  great  ")
	require.NoError(t, err)
	assert.Equal(t, "great", c.Content)

	page, err := e.comment.List(ctx, owner, videoID, model.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestComment_AddValidation(t *testing.T) {
	e := newTestEnv(t)
	owner := e.register(t, "ada")
	videoID := e.publish(t, owner)
	ctx := context.Background()

	_, err := e.comment.Add(ctx, owner, videoID, "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = e.comment.Add(ctx, owner, "123", "hi")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = e.comment.Add(ctx, owner, primitive.NewObjectID().Hex(), "hi")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = e.comment.List(ctx, owner, primitive.NewObjectID().Hex(), model.PageRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestComment_OwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	owner := e.register(t, "ada")
	intruder := e.register(t, "eve")
	videoID := e.publish(t, owner)
	ctx := context.Background()

	c, err := e.comment.Add(ctx, owner, videoID, "mine")
	require.NoError(t, err)

	_, err = e.comment.Update(ctx, intruder, c.ID.Hex(), "hijacked")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, e.comment.Delete(ctx, intruder, c.ID.Hex()), apperror.ErrForbidden)
	assert.Equal(t, "mine", e.comments.byID[c.ID].Content)

	updated, err := e.comment.Update(ctx, owner, c.ID.Hex(), "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, e.comment.Delete(ctx, owner, c.ID.Hex()))
	assert.ErrorIs(t, e.comment.Delete(ctx, owner, c.ID.Hex()), apperror.ErrNotFound)
}

func TestComment_DeleteKeepsLikes(t *testing.T) {
	e := newTestEnv(t)
	owner := e.register(t, "ada")
	videoID := e.publish(t, owner)
	ctx := context.Background()

	c, err := e.comment.Add(ctx, owner, videoID, "liked")
	require.NoError(t, err)
	_, err = e.like.ToggleCommentLike(ctx, owner, c.ID.Hex())
	require.NoError(t, err)

	require.NoError(t, e.comment.Delete(ctx, owner, c.ID.Hex()))
	assert.Equal(t, 1, e.likes.count(model.LikeTarget{Kind: model.LikeComment, ID: c.ID}))
}
