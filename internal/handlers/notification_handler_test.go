package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotifications struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (m *memNotifications) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uint(len(m.items) + 1)
	cp := *n
	m.items = append(m.items, &cp)
	return nil
}

func (m *memNotifications) GetNotificationByID(_ context.Context, id uint) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, errors.Wrap(repositories.ErrNotFound, "notification")
}

func (m *memNotifications) GetByRecipientID(_ context.Context, recipientID uint, skip, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []models.Notification
	for _, n := range m.items {
		if n.RecipientID == recipientID {
			mine = append(mine, *n)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID > mine[j].ID })
	if skip >= len(mine) {
		return nil, nil
	}
	mine = mine[skip:]
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func (m *memNotifications) GetUnreadCount(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, item := range m.items {
		if item.RecipientID == recipientID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) MarkAsRead(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.items {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return errors.Wrap(repositories.ErrNotFound, "notification")
}

func (m *memNotifications) MarkAllAsRead(_ context.Context, recipientID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changed int64
	for _, n := range m.items {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func seedNotifications(t *testing.T, store *memNotifications, recipient uint, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		require.NoError(t, store.CreateNotification(context.Background(), &models.Notification{
			RecipientID: recipient,
			SenderID:    uintPtr(2),
			Type:        models.NotificationLikePost,
			Message:     "user2 liked your post",
		}))
	}
}

func TestNotificationListAndCounts(t *testing.T) {
	store := &memNotifications{}
	seedNotifications(t, store, 1, 3)
	seedNotifications(t, store, 5, 1)

	h := NewNotificationHandler(store, newMemUsers(models.User{ID: 2, Name: "Grace"}))
	e := newTestEcho()
	h.RegisterNotificationRoutes(e.Group("/api/notifications", asUser, requireUser))

	res := doRequest(t, e, http.MethodGet, "/api/notifications?limit=2", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 3, res.Body["unreadCount"])
	assert.Equal(t, true, res.Body["hasMore"])
	items, ok := res.Body["notifications"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.EqualValues(t, 3, first["id"])
	assert.Equal(t, "Grace", first["sender"].(map[string]interface{})["name"])

	res = doRequest(t, e, http.MethodPatch, "/api/notifications/4/read", 1, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = doRequest(t, e, http.MethodPatch, "/api/notifications/1/read", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["read"])

	res = doRequest(t, e, http.MethodGet, "/api/notifications/unread-count", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.Body["unreadCount"])

	res = doRequest(t, e, http.MethodPatch, "/api/notifications/read-all", 1, nil)
	require.Equal(t, http.StatusOK, res.Code)
	res = doRequest(t, e, http.MethodGet, "/api/notifications/unread-count", 1, nil)
	assert.EqualValues(t, 0, res.Body["unreadCount"])

	res = doRequest(t, e, http.MethodGet, "/api/notifications/unread-count", 5, nil)
	assert.EqualValues(t, 1, res.Body["unreadCount"], "other recipients are untouched")
}

func TestNotificationsRequireAuthentication(t *testing.T) {
	h := NewNotificationHandler(&memNotifications{}, newMemUsers())
	e := newTestEcho()
	h.RegisterNotificationRoutes(e.Group("/api/notifications", asUser, requireUser))

	res := doRequest(t, e, http.MethodGet, "/api/notifications", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
