package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
	"github.com/gamemates/server/internal/testutil"
)

func TestNotifications_List(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	notificationService := &mockNotificationService{
		ListFunc: func(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
			return []*models.Notification{
				{ID: uuid.New(), Type: models.NotificationTypeFollow},
				{ID: uuid.New(), Type: models.NotificationTypeMessage},
			}, nil
		},
	}
	handler := NewNotificationHandler(notificationService)

	req := authedRequest(http.MethodGet, "/api/notifications", user)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	response := decodeSuccess(t, rr, http.StatusOK)
	notifs, ok := response.Data.([]interface{})
	if !ok {
		t.Fatalf("expected array data, got %T", response.Data)
	}
	testutil.AssertEqual(t, 2, len(notifs), "notification count")
}

func TestNotifications_List_Unauthenticated(t *testing.T) {
	handler := NewNotificationHandler(&mockNotificationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	assertErrorResponse(t, rr, http.StatusUnauthorized, "Not authenticated")
}

func TestNotifications_MarkRead(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	notifID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var markedID uuid.UUID
		notificationService := &mockNotificationService{
			MarkReadFunc: func(ctx context.Context, userID, notificationID uuid.UUID) error {
				markedID = notificationID
				return nil
			},
		}
		handler := NewNotificationHandler(notificationService)

		req := authedRequest(http.MethodPut, "/api/notifications/"+notifID.String()+"/read", user)
		req.SetPathValue("id", notifID.String())
		rr := httptest.NewRecorder()

		handler.MarkRead(rr, req)

		decodeSuccess(t, rr, http.StatusOK)
		testutil.AssertEqual(t, notifID, markedID, "marked notification id")
	})

	t.Run("not found", func(t *testing.T) {
		notificationService := &mockNotificationService{
			MarkReadFunc: func(ctx context.Context, userID, notificationID uuid.UUID) error {
				return services.ErrNotificationNotFound
			},
		}
		handler := NewNotificationHandler(notificationService)

		req := authedRequest(http.MethodPut, "/api/notifications/"+notifID.String()+"/read", user)
		req.SetPathValue("id", notifID.String())
		rr := httptest.NewRecorder()

		handler.MarkRead(rr, req)

		assertErrorResponse(t, rr, http.StatusNotFound, "Notification not found")
	})

	t.Run("invalid id", func(t *testing.T) {
		handler := NewNotificationHandler(&mockNotificationService{})

		req := authedRequest(http.MethodPut, "/api/notifications/abc/read", user)
		req.SetPathValue("id", "abc")
		rr := httptest.NewRecorder()

		handler.MarkRead(rr, req)

		assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid notification ID")
	})
}

func TestNotifications_MarkAllRead(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	called := false
	notificationService := &mockNotificationService{
		MarkAllReadFunc: func(ctx context.Context, userID uuid.UUID) error {
			called = true
			return nil
		},
	}
	handler := NewNotificationHandler(notificationService)

	req := authedRequest(http.MethodPut, "/api/notifications/read-all", user)
	rr := httptest.NewRecorder()

	handler.MarkAllRead(rr, req)

	decodeSuccess(t, rr, http.StatusOK)
	testutil.AssertTrue(t, called, "mark all read called")
}

func TestNotifications_UnreadCount(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	notificationService := &mockNotificationService{
		UnreadCountFunc: func(ctx context.Context, userID uuid.UUID) (int, error) {
			return 3, nil
		},
	}
	handler := NewNotificationHandler(notificationService)

	req := authedRequest(http.MethodGet, "/api/notifications/unread-count", user)
	rr := httptest.NewRecorder()

	handler.UnreadCount(rr, req)

	response := decodeSuccess(t, rr, http.StatusOK)
	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", response.Data)
	}
	testutil.AssertEqual(t, float64(3), data["count"], "unread count")
}

func TestNotifications_UnreadCount_Error(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	notificationService := &mockNotificationService{
		UnreadCountFunc: func(ctx context.Context, userID uuid.UUID) (int, error) {
			return 0, errors.New("boom")
		},
	}
	handler := NewNotificationHandler(notificationService)

	req := authedRequest(http.MethodGet, "/api/notifications/unread-count", user)
	rr := httptest.NewRecorder()

	handler.UnreadCount(rr, req)

	assertErrorResponse(t, rr, http.StatusInternalServerError, "Internal server error")
}
