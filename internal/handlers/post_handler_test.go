package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/notify"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type postFixture struct {
	e        *echo.Echo
	posts    *memPosts
	comments *memComments
	notifier *recordingNotifier
	rewards  *recordingRewards
	post     models.Post
}

func newPostFixture() *postFixture {
	f := &postFixture{
		post:     models.Post{ID: primitive.NewObjectID(), AuthorID: 1, Content: "shipping it"},
		comments: newMemComments(),
		notifier: &recordingNotifier{},
		rewards:  newRecordingRewards(),
	}
	f.posts = newMemPosts(f.post)
	users := newMemUsers(
		models.User{ID: 1, Name: "Ada"},
		models.User{ID: 2, Name: "Linus"},
	)

	comments := NewCommentHandler(f.comments, f.posts, nil, nil, users, f.notifier)
	h := NewPostHandler(f.posts, comments, users, f.notifier, f.rewards)
	f.e = newTestEcho()
	h.RegisterPostRoutes(f.e.Group("/api/posts", asUser), requireUser)
	return f
}

// requireUser stands in for the JWT gate on protected routes.
func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := getUserIDFromContext(c); err != nil {
			return err
		}
		return next(c)
	}
}

func TestCreatePostNotifiesMentionsAndAwardsXP(t *testing.T) {
	f := newPostFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/posts", 2, echo.Map{
		"content":  "pairing with @ada",
		"mentions": []uint{1},
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "pairing with @ada", res.Body["content"])
	author, ok := res.Body["author"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Linus", author["name"])

	mentions := f.notifier.ofType(models.NotificationMention)
	require.Len(t, mentions, 1)
	assert.Equal(t, uint(1), mentions[0].RecipientID)
	assert.Contains(t, mentions[0].Message, "mentioned you in a post")
	assert.Equal(t, []rewardCall{{UserID: 2, Event: gamification.EventPostCreated}}, f.rewards.events)
}

func TestCreatePostRequiresAuthentication(t *testing.T) {
	f := newPostFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/posts", 0, echo.Map{"content": "anon"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCreatePostValidatesContent(t *testing.T) {
	f := newPostFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/posts", 2, echo.Map{"content": ""})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLikePostToggles(t *testing.T) {
	f := newPostFixture()
	url := "/api/posts/" + f.post.ID.Hex() + "/like"

	res := doRequest(t, f.e, http.MethodPost, url, 2, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["liked"])
	assert.EqualValues(t, 1, res.Body["likes"])

	likes := f.notifier.ofType(models.NotificationLikePost)
	require.Len(t, likes, 1)
	assert.Equal(t, uint(1), likes[0].RecipientID)
	assert.Equal(t, "/post/"+f.post.ID.Hex(), likes[0].Link)

	res = doRequest(t, f.e, http.MethodPost, url, 2, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, res.Body["liked"])
	assert.EqualValues(t, 0, res.Body["likes"])
	assert.Len(t, f.notifier.ofType(models.NotificationLikePost), 1, "unlike does not notify")
}

func TestLikePostMalformedIDIsNotFound(t *testing.T) {
	f := newPostFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/posts/not-an-id/like", 2, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Post not found", messageOf(res))
}

func TestCommentOnPostAndDelete(t *testing.T) {
	f := newPostFixture()
	base := "/api/posts/" + f.post.ID.Hex()

	res := doRequest(t, f.e, http.MethodPost, base+"/comment", 2, echo.Map{"content": "nice work"})
	require.Equal(t, http.StatusCreated, res.Code)
	commentID, _ := res.Body["id"].(string)
	require.NotEmpty(t, commentID)

	stored, err := f.posts.GetPostByID(context.Background(), f.post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)

	notes := f.notifier.ofType(models.NotificationCommentPost)
	require.Len(t, notes, 1)
	assert.Equal(t, "user2 commented on your post", notes[0].Message)

	// Replies are hidden from the top-level listing
	res = doRequest(t, f.e, http.MethodPost, base+"/comment", 1, echo.Map{"content": "thanks", "parent_id": commentID})
	require.Equal(t, http.StatusCreated, res.Code)
	list := doRequest(t, f.e, http.MethodGet, base+"/comments", 0, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, string(list.Raw), commentID)
	assert.NotContains(t, string(list.Raw), "thanks")

	res = doRequest(t, f.e, http.MethodDelete, "/api/posts/comments/"+commentID, 1, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = doRequest(t, f.e, http.MethodDelete, "/api/posts/comments/"+commentID, 2, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Comment removed", messageOf(res))

	stored, err = f.posts.GetPostByID(context.Background(), f.post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)
}

func TestCommentReplyMustShareTarget(t *testing.T) {
	f := newPostFixture()
	other := &models.Comment{AuthorID: 1, TargetType: models.TargetPost, TargetID: primitive.NewObjectID(), Content: "elsewhere"}
	require.NoError(t, f.comments.CreateComment(context.Background(), other))

	res := doRequest(t, f.e, http.MethodPost, "/api/posts/"+f.post.ID.Hex()+"/comment", 2, echo.Map{
		"content":   "reply",
		"parent_id": other.ID.Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	f := newPostFixture()
	url := "/api/posts/" + f.post.ID.Hex()

	res := doRequest(t, f.e, http.MethodDelete, url, 2, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = doRequest(t, f.e, http.MethodDelete, url, 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Post removed", messageOf(res))

	res = doRequest(t, f.e, http.MethodGet, url, 0, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestLikeNotificationsThroughDispatcher(t *testing.T) {
	post := models.Post{ID: primitive.NewObjectID(), AuthorID: 1, Content: "shipping it"}
	posts := newMemPosts(post)
	users := newMemUsers(models.User{ID: 1, Name: "Ada"}, models.User{ID: 2, Name: "Linus"})
	store := &memNotifications{}
	dispatcher := notify.NewDispatcher(store, 2, 16)
	dispatcher.Start()

	comments := NewCommentHandler(newMemComments(), posts, nil, nil, users, dispatcher)
	h := NewPostHandler(posts, comments, users, dispatcher, newRecordingRewards())
	e := newTestEcho()
	h.RegisterPostRoutes(e.Group("/api/posts", asUser), requireUser)
	url := "/api/posts/" + post.ID.Hex() + "/like"

	res := doRequest(t, e, http.MethodPost, url, 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["liked"])
	assert.EqualValues(t, 1, res.Body["likes"])

	res = doRequest(t, e, http.MethodPost, url, 2, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["liked"])
	assert.EqualValues(t, 2, res.Body["likes"])

	dispatcher.Close()

	stored, err := store.GetByRecipientID(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1, "liking your own post sends nothing")
	assert.Equal(t, models.NotificationLikePost, stored[0].Type)
	require.NotNil(t, stored[0].SenderID)
	assert.Equal(t, uint(2), *stored[0].SenderID)
	assert.Len(t, store.items, 1)
}
