package handlers

import (
	"net/http"
	"testing"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followFixture struct {
	e        *echo.Echo
	follows  *memFollows
	notifier *recordingNotifier
	rewards  *recordingRewards
}

func newFollowFixture() *followFixture {
	f := &followFixture{
		follows:  newMemFollows(),
		notifier: &recordingNotifier{},
		rewards:  newRecordingRewards(),
	}
	users := newMemUsers(
		models.User{ID: 1, Name: "Ada"},
		models.User{ID: 2, Name: "Grace"},
		models.User{ID: 3, Name: "Linus"},
	)
	h := NewFollowHandler(f.follows, users, f.notifier, f.rewards)
	f.e = newTestEcho()
	h.RegisterFollowRoutes(f.e.Group("/api/follow", asUser), requireUser)
	return f
}

func TestFollowUser(t *testing.T) {
	f := newFollowFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/follow/2", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Successfully followed user", messageOf(res))

	notes := f.notifier.ofType(models.NotificationFollow)
	require.Len(t, notes, 1)
	assert.Equal(t, uint(2), notes[0].RecipientID)
	assert.Equal(t, "user1 started following you", notes[0].Message)
	assert.Equal(t, "/profile/1", notes[0].Link)
	assert.Equal(t, int64(1), f.rewards.followers[2])

	res = doRequest(t, f.e, http.MethodGet, "/api/follow/2/check", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["isFollowing"])
}

func TestFollowRejections(t *testing.T) {
	f := newFollowFixture()

	res := doRequest(t, f.e, http.MethodPost, "/api/follow/1", 1, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Cannot follow yourself", messageOf(res))

	res = doRequest(t, f.e, http.MethodPost, "/api/follow/42", 1, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = doRequest(t, f.e, http.MethodPost, "/api/follow/abc", 1, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	require.Equal(t, http.StatusOK, doRequest(t, f.e, http.MethodPost, "/api/follow/2", 1, nil).Code)
	res = doRequest(t, f.e, http.MethodPost, "/api/follow/2", 1, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Already following this user", messageOf(res))
}

func TestUnfollowUser(t *testing.T) {
	f := newFollowFixture()

	res := doRequest(t, f.e, http.MethodDelete, "/api/follow/2", 1, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Not following this user", messageOf(res))

	require.Equal(t, http.StatusOK, doRequest(t, f.e, http.MethodPost, "/api/follow/2", 1, nil).Code)
	res = doRequest(t, f.e, http.MethodDelete, "/api/follow/2", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)

	res = doRequest(t, f.e, http.MethodGet, "/api/follow/2/followers", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "[]", string(trimmed(res.Raw)))
}

func TestSuggestionsExcludeSelfAndFollowed(t *testing.T) {
	f := newFollowFixture()
	require.Equal(t, http.StatusOK, doRequest(t, f.e, http.MethodPost, "/api/follow/2", 1, nil).Code)

	res := doRequest(t, f.e, http.MethodGet, "/api/follow/suggestions", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, string(res.Raw), "Linus")
	assert.NotContains(t, string(res.Raw), "Grace")
	assert.NotContains(t, string(res.Raw), "Ada")
}
