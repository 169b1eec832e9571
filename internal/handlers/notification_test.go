package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
)

func seedNotification(t *testing.T, env *testEnv, userID uint, createdAt time.Time, title string, read bool) models.Notification {
	t.Helper()

	notification := models.Notification{
		UserID:      userID,
		Type:        models.NotificationInfo,
		Title:       title,
		Description: "seeded",
		IsRead:      read,
	}
	notification.CreatedAt = createdAt

	require.NoError(t, env.DB.Create(&notification).Error)
	return notification
}

func listNotifications(t *testing.T, env *testEnv, token string) []map[string]interface{} {
	t.Helper()

	w := env.do(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func TestNotificationsCappedNewestFirst(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.register(t, "n@x.com", "patient")

	base := time.Now().Add(-25 * time.Hour)
	for i := 0; i < 25; i++ {
		seedNotification(t, env, userID, base.Add(time.Duration(i)*time.Hour), "n", false)
	}

	list := listNotifications(t, env, token)
	require.Len(t, list, 20)

	first, _ := time.Parse(time.RFC3339, list[0]["created_at"].(string))
	last, _ := time.Parse(time.RFC3339, list[19]["created_at"].(string))
	assert.True(t, first.After(last))
}

func TestMarkReadIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.register(t, "n@x.com", "patient")

	notification := seedNotification(t, env, userID, time.Now(), "once", false)

	w := env.do(t, http.MethodPut, "/api/notifications/1/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_read"])

	w = env.do(t, http.MethodPut, "/api/notifications/1/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_read"])

	var stored models.Notification
	require.NoError(t, env.DB.First(&stored, notification.ID).Error)
	assert.True(t, stored.IsRead)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	_, ownerID := env.register(t, "owner@x.com", "patient")
	otherToken, _ := env.register(t, "other@x.com", "patient")

	seedNotification(t, env, ownerID, time.Now(), "private", false)

	w := env.do(t, http.MethodPut, "/api/notifications/1/read", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllReadOnlyOwn(t *testing.T) {
	env := newTestEnv(t, nil)
	tokenA, idA := env.register(t, "a@x.com", "patient")
	_, idB := env.register(t, "b@x.com", "patient")

	seedNotification(t, env, idA, time.Now(), "a1", false)
	seedNotification(t, env, idA, time.Now(), "a2", false)
	seedNotification(t, env, idB, time.Now(), "b1", false)

	w := env.do(t, http.MethodPut, "/api/notifications/read-all", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unreadA, unreadB int64
	env.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", idA, false).Count(&unreadA)
	env.DB.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", idB, false).Count(&unreadB)
	assert.Equal(t, int64(0), unreadA)
	assert.Equal(t, int64(1), unreadB)
}

func TestDeleteNotification(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.register(t, "n@x.com", "patient")

	seedNotification(t, env, userID, time.Now(), "gone", false)

	w := env.do(t, http.MethodDelete, "/api/notifications/1", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, listNotifications(t, env, token))
}
