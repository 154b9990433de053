package api

import (
	"fmt"
	"net/http"
	"testing"

	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler(t *testing.T) {
	setupJWT(t)
	db := setupTestDB(t)
	anna := createMember(t, db, "Anna", "anna@example.com")
	ben := createMember(t, db, "Ben", "ben@example.com")

	first := models.Notification{MemberID: anna.ID, Message: "Ben hat Anderes (€3.00) für dich gebucht."}
	second := models.Notification{MemberID: anna.ID, Message: "Ben hat Alkoholisches Getränk (€2.50) für dich gebucht."}
	other := models.Notification{MemberID: ben.ID, Message: "Anna hat Anderes (€1.00) für dich gebucht."}
	for _, n := range []*models.Notification{&first, &second, &other} {
		require.NoError(t, db.Create(n).Error)
	}

	h := NewNotificationHandler(service.NewNotificationCenter(db, 20))
	r := gin.New()
	g := r.Group("/notifications", setMemberMiddleware(anna))
	g.GET("", h.List)
	g.POST("/:id/read", h.MarkAsRead)
	g.POST("/read-all", h.MarkAllAsRead)

	w := doJSON(t, r, "GET", "/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	var inbox InboxResponse
	decode(t, w, &inbox)
	require.Len(t, inbox.Notifications, 2)
	assert.Equal(t, 2, inbox.UnreadCount)

	w = doJSON(t, r, "POST", fmt.Sprintf("/notifications/%d/read", first.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &inbox)
	assert.Equal(t, 1, inbox.UnreadCount)

	// 重复标记不报错
	w = doJSON(t, r, "POST", fmt.Sprintf("/notifications/%d/read", first.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &inbox)
	assert.Equal(t, 1, inbox.UnreadCount)

	// 不能标记别人的通知
	w = doJSON(t, r, "POST", fmt.Sprintf("/notifications/%d/read", other.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Notification
	require.NoError(t, db.First(&stored, other.ID).Error)
	assert.False(t, stored.IsRead)

	w = doJSON(t, r, "POST", "/notifications/read-all", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &inbox)
	assert.Zero(t, inbox.UnreadCount)
	for _, n := range inbox.Notifications {
		assert.True(t, n.IsRead)
	}

	require.NoError(t, db.First(&stored, other.ID).Error)
	assert.False(t, stored.IsRead)
}
