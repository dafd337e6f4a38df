package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meroboard/utilities"
)

// Notification types.
const (
	NotificationTaskAssigned   = "task_assigned"
	NotificationTaskUpdated    = "task_updated"
	NotificationCommentAdded   = "comment_added"
	NotificationDueDateChanged = "due_date_changed"
)

type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

// CreateNotification inserts one notification row for a user.
func CreateNotification(db DBTX, userID, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON interface{}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		dataJSON = b
	}
	_, err := db.Exec(`
		INSERT INTO notifications (id, user_id, type, title, body, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), userID, notifType, title, body, dataJSON)
	return err
}

// notify is the best-effort wrapper the mutation paths use. A failed
// notification never fails the mutation; it is logged and dropped.
func notify(db DBTX, userID, notifType, title, body string, data map[string]interface{}) {
	if err := CreateNotification(db, userID, notifType, title, body, data); err != nil {
		utilities.Log.WithField("op", "models.notify").
			WithField("user_id", userID).
			WithField("type", notifType).
			Warnf("failed to create notification: %v", err)
	}
}

// actorName resolves a display name for notification bodies. Lookup
// failures fall back to the nil-receiver placeholder.
func actorName(db DBTX, userID string) string {
	u, err := GetUser(db, userID)
	if err != nil {
		u = nil
	}
	return u.FullName()
}

// notifyTaskCreated tells the assignee about a new task, unless they
// created it themselves.
func notifyTaskCreated(db DBTX, actorID, orgID string, project *Project, t *Task) {
	if !t.AssigneeID.Valid || t.AssigneeID.String == actorID {
		return
	}
	notify(db, t.AssigneeID.String, NotificationTaskAssigned,
		"New task assigned to you",
		fmt.Sprintf("%s assigned you %q in project %q", actorName(db, actorID), t.Title, project.Name),
		map[string]interface{}{"task_id": t.ID, "project_id": project.ID})
}

// notifyTaskUpdated fans out on recognized changes. Each recipient gets
// exactly one notification per update: a fresh assignee hears about the
// assignment, everyone else hears about the most specific remaining
// change. The actor never notifies themselves.
func notifyTaskUpdated(db DBTX, actorID, orgID string, project *Project, before, after *Task, changes []taskChange) {
	if len(changes) == 0 {
		return
	}

	var assigned, dueDateChanged bool
	for _, c := range changes {
		switch c.Type {
		case ActivityAssigned:
			assigned = true
		case ActivityDueDateSet, ActivityDueDateChanged, ActivityDueDateRemoved:
			dueDateChanged = true
		}
	}

	recipients := map[string]bool{}
	if after.CreatedBy != actorID {
		recipients[after.CreatedBy] = true
	}
	if after.AssigneeID.Valid && after.AssigneeID.String != actorID {
		recipients[after.AssigneeID.String] = true
	}
	if len(recipients) == 0 {
		return
	}

	name := actorName(db, actorID)
	data := map[string]interface{}{"task_id": after.ID, "project_id": project.ID}

	if assigned && after.AssigneeID.Valid && recipients[after.AssigneeID.String] {
		notify(db, after.AssigneeID.String, NotificationTaskAssigned,
			"Task assigned to you",
			fmt.Sprintf("%s assigned you %q in project %q", name, after.Title, project.Name),
			data)
		delete(recipients, after.AssigneeID.String)
	}

	for userID := range recipients {
		if dueDateChanged {
			notify(db, userID, NotificationDueDateChanged,
				"Task due date changed",
				fmt.Sprintf("%s changed the due date on %q", name, after.Title),
				data)
			continue
		}
		notify(db, userID, NotificationTaskUpdated,
			"Task updated",
			fmt.Sprintf("%s updated %q", name, after.Title),
			data)
	}
}

// notifyCommentAdded tells the task creator, assignee and prior commenters
// about a new comment, excluding the commenter.
func notifyCommentAdded(db DBTX, actorID, orgID string, t *Task, c *TaskComment) {
	recipients := map[string]bool{}
	if t.CreatedBy != actorID {
		recipients[t.CreatedBy] = true
	}
	if t.AssigneeID.Valid && t.AssigneeID.String != actorID {
		recipients[t.AssigneeID.String] = true
	}

	rows, err := db.Query(`
		SELECT DISTINCT user_id FROM task_comments
		WHERE task_id = $1 AND is_deleted = FALSE AND user_id <> $2
	`, t.ID, actorID)
	if err != nil {
		utilities.Log.WithField("op", "models.notifyCommentAdded").
			Warnf("failed to load prior commenters: %v", err)
	} else {
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				break
			}
			recipients[id] = true
		}
	}
	name := actorName(db, actorID)
	for userID := range recipients {
		notify(db, userID, NotificationCommentAdded,
			"New comment",
			fmt.Sprintf("%s commented on %q", name, t.Title),
			map[string]interface{}{"task_id": t.ID, "comment_id": c.ID})
	}
}

// ListNotifications returns the caller's notifications, newest first.
// unreadOnly narrows the list to unread rows.
func ListNotifications(db DBTX, userID string, unreadOnly bool, page Page) ([]Notification, int, error) {
	where := `user_id = $1`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE `+where, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT id, user_id, type, title, body, data, is_read, created_at
		FROM notifications
		WHERE `+where+`
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, userID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var dataRaw []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &dataRaw, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(dataRaw) > 0 {
			if err := json.Unmarshal(dataRaw, &n.Data); err != nil {
				return nil, 0, err
			}
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(db DBTX, userID, notificationID string) error {
	res, err := db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("notification not found")
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification read and
// returns how many were touched.
func MarkAllNotificationsRead(db DBTX, userID string) (int64, error) {
	res, err := db.Exec(`
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
