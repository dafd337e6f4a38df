package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity types. Rows are append-only; nothing updates or deletes them
// short of the task cascade.
const (
	ActivityCreated           = "created"
	ActivityUpdated           = "updated"
	ActivityStatusChanged     = "status_changed"
	ActivityPriorityChanged   = "priority_changed"
	ActivityAssigned          = "assigned"
	ActivityUnassigned        = "unassigned"
	ActivityDueDateSet        = "due_date_set"
	ActivityDueDateChanged    = "due_date_changed"
	ActivityDueDateRemoved    = "due_date_removed"
	ActivityCommentAdded      = "comment_added"
	ActivityCommentEdited     = "comment_edited"
	ActivityCommentDeleted    = "comment_deleted"
	ActivityAttachmentAdded   = "attachment_added"
	ActivityAttachmentRemoved = "attachment_removed"
)

type TaskActivity struct {
	ID           string                 `json:"id"`
	TaskID       string                 `json:"task_id"`
	UserID       string                 `json:"user_id"`
	ActivityType string                 `json:"activity_type"`
	Description  string                 `json:"description"`
	OldValue     map[string]interface{} `json:"old_value,omitempty"`
	NewValue     map[string]interface{} `json:"new_value,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// ActivityDescription renders the human-readable line stored with each row.
func ActivityDescription(activityType string, newValue map[string]interface{}) string {
	str := func(key, fallback string) string {
		if v, ok := newValue[key].(string); ok && v != "" {
			return v
		}
		return fallback
	}

	switch activityType {
	case ActivityCreated:
		return "Task created"
	case ActivityStatusChanged:
		return fmt.Sprintf("Status changed to %s", str("new_status", "unknown"))
	case ActivityPriorityChanged:
		return fmt.Sprintf("Priority changed to %s", str("new_priority", "unknown"))
	case ActivityAssigned:
		return "Task assigned"
	case ActivityUnassigned:
		return "Task unassigned"
	case ActivityDueDateSet:
		return "Due date set"
	case ActivityDueDateChanged:
		return "Due date changed"
	case ActivityDueDateRemoved:
		return "Due date removed"
	case ActivityCommentAdded:
		return "Comment added"
	case ActivityCommentEdited:
		return "Comment edited"
	case ActivityCommentDeleted:
		return "Comment deleted"
	case ActivityAttachmentAdded:
		return fmt.Sprintf("Attachment added: %s", str("file_name", "file"))
	case ActivityAttachmentRemoved:
		return fmt.Sprintf("Attachment removed: %s", str("file_name", "file"))
	default:
		return "Task updated"
	}
}

// CreateActivity appends one audit row for a task mutation.
func CreateActivity(db DBTX, taskID, userID, activityType string, oldValue, newValue map[string]interface{}) error {
	var oldJSON, newJSON interface{}
	if oldValue != nil {
		b, err := json.Marshal(oldValue)
		if err != nil {
			return err
		}
		oldJSON = b
	}
	if newValue != nil {
		b, err := json.Marshal(newValue)
		if err != nil {
			return err
		}
		newJSON = b
	}

	_, err := db.Exec(`
		INSERT INTO task_activities (id, task_id, user_id, activity_type, description, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), taskID, userID, activityType,
		ActivityDescription(activityType, newValue), oldJSON, newJSON)
	return err
}

// ListActivities returns a task's audit trail, newest first.
func ListActivities(db DBTX, userID, orgID, projectID, taskID string, page Page) ([]TaskActivity, int, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM task_activities WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT id, task_id, user_id, activity_type, description, old_value, new_value, created_at
		FROM task_activities
		WHERE task_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, taskID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var activities []TaskActivity
	for rows.Next() {
		var a TaskActivity
		var oldRaw, newRaw []byte
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UserID, &a.ActivityType, &a.Description, &oldRaw, &newRaw, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(oldRaw) > 0 {
			if err := json.Unmarshal(oldRaw, &a.OldValue); err != nil {
				return nil, 0, err
			}
		}
		if len(newRaw) > 0 {
			if err := json.Unmarshal(newRaw, &a.NewValue); err != nil {
				return nil, 0, err
			}
		}
		activities = append(activities, a)
	}
	return activities, total, rows.Err()
}
