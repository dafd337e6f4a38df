package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func ListNotifications(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListNotifications"

	unreadOnly := r.URL.Query().Get("unread") == "true"
	page := parsePage(r)
	notifications, total, err := models.ListNotifications(database.DB, UserID(r), unreadOnly, page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	WriteList(w, notifications, total, page)
}

func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.MarkNotificationRead"

	if err := models.MarkNotificationRead(database.DB, UserID(r), mux.Vars(r)["notification_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.MarkAllNotificationsRead"

	updated, err := models.MarkAllNotificationsRead(database.DB, UserID(r))
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
