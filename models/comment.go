package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type TaskComment struct {
	ID              string         `json:"id"`
	TaskID          string         `json:"task_id"`
	UserID          string         `json:"user_id"`
	ParentCommentID sql.NullString `json:"-"`
	Content         string         `json:"content"`
	IsEdited        bool           `json:"is_edited"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (c TaskComment) ParentRef() *string {
	if !c.ParentCommentID.Valid {
		return nil
	}
	s := c.ParentCommentID.String
	return &s
}

const commentColumns = `id, task_id, user_id, parent_comment_id, content, is_edited, created_at, updated_at`

func scanComment(row interface{ Scan(...interface{}) error }) (*TaskComment, error) {
	var c TaskComment
	err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.ParentCommentID, &c.Content,
		&c.IsEdited, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment adds a comment, optionally threaded under a parent on the
// same task. Writes a COMMENT_ADDED activity and notifies watchers.
func CreateComment(db DBTX, userID, orgID, projectID, taskID, content string, parentCommentID *string) (*TaskComment, error) {
	if content == "" {
		return nil, validationf("comment content is required")
	}

	t, err := GetTask(db, userID, orgID, projectID, taskID)
	if err != nil {
		return nil, err
	}

	var parent sql.NullString
	if parentCommentID != nil && *parentCommentID != "" {
		var parentTask string
		err := db.QueryRow(`
			SELECT task_id FROM task_comments WHERE id = $1 AND is_deleted = FALSE
		`, *parentCommentID).Scan(&parentTask)
		if err == sql.ErrNoRows {
			return nil, notFoundf("parent comment not found")
		}
		if err != nil {
			return nil, err
		}
		if parentTask != taskID {
			return nil, validationf("parent comment belongs to a different task")
		}
		parent = sql.NullString{String: *parentCommentID, Valid: true}
	}

	c, err := scanComment(db.QueryRow(`
		INSERT INTO task_comments (id, task_id, user_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		uuid.NewString(), taskID, userID, parent, content))
	if err != nil {
		return nil, err
	}

	if err := CreateActivity(db, taskID, userID, ActivityCommentAdded, nil,
		map[string]interface{}{"comment_id": c.ID}); err != nil {
		return nil, err
	}

	notifyCommentAdded(db, userID, orgID, t, c)

	return c, nil
}

// ListComments returns non-deleted comments oldest first.
func ListComments(db DBTX, userID, orgID, projectID, taskID string, page Page) ([]TaskComment, int, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, 0, err
	}

	var total int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM task_comments WHERE task_id = $1 AND is_deleted = FALSE
	`, taskID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT `+commentColumns+` FROM task_comments
		WHERE task_id = $1 AND is_deleted = FALSE
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`, taskID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var comments []TaskComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, *c)
	}
	return comments, total, rows.Err()
}

// UpdateComment edits a comment's content. Author only; marks is_edited.
func UpdateComment(db DBTX, userID, orgID, projectID, taskID, commentID, content string) (*TaskComment, error) {
	if content == "" {
		return nil, validationf("comment content is required")
	}
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	c, err := scanComment(db.QueryRow(`
		SELECT `+commentColumns+` FROM task_comments
		WHERE id = $1 AND task_id = $2 AND is_deleted = FALSE
	`, commentID, taskID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("comment not found")
	}
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, forbiddenf("only the comment author can edit it")
	}

	updated, err := scanComment(db.QueryRow(`
		UPDATE task_comments SET content = $1, is_edited = TRUE, updated_at = NOW()
		WHERE id = $2
		RETURNING `+commentColumns,
		content, commentID))
	if err != nil {
		return nil, err
	}

	if err := CreateActivity(db, taskID, userID, ActivityCommentEdited, nil,
		map[string]interface{}{"comment_id": commentID}); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment soft-deletes a comment. Author only; replies stay visible.
func DeleteComment(db DBTX, userID, orgID, projectID, taskID, commentID string) error {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return err
	}

	var authorID string
	err := db.QueryRow(`
		SELECT user_id FROM task_comments
		WHERE id = $1 AND task_id = $2 AND is_deleted = FALSE
	`, commentID, taskID).Scan(&authorID)
	if err == sql.ErrNoRows {
		return notFoundf("comment not found")
	}
	if err != nil {
		return err
	}
	if authorID != userID {
		return forbiddenf("only the comment author can delete it")
	}

	_, err = db.Exec(`
		UPDATE task_comments SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1
	`, commentID)
	if err != nil {
		return err
	}

	return CreateActivity(db, taskID, userID, ActivityCommentDeleted, nil,
		map[string]interface{}{"comment_id": commentID})
}
