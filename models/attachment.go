package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type TaskAttachment struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UploadedBy string    `json:"uploaded_by"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateAttachmentInput struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

const attachmentColumns = `id, task_id, uploaded_by, file_name, file_url, file_size, mime_type, created_at`

func scanAttachment(row interface{ Scan(...interface{}) error }) (*TaskAttachment, error) {
	var a TaskAttachment
	err := row.Scan(&a.ID, &a.TaskID, &a.UploadedBy, &a.FileName, &a.FileURL,
		&a.FileSize, &a.MimeType, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AddAttachment records file metadata for a task. The file itself lives in
// external storage; only the URL is kept here.
func AddAttachment(db DBTX, userID, orgID, projectID, taskID string, in CreateAttachmentInput) (*TaskAttachment, error) {
	if in.FileName == "" || in.FileURL == "" {
		return nil, validationf("file_name and file_url are required")
	}

	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	a, err := scanAttachment(db.QueryRow(`
		INSERT INTO task_attachments (id, task_id, uploaded_by, file_name, file_url, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+attachmentColumns,
		uuid.NewString(), taskID, userID, in.FileName, in.FileURL, in.FileSize, in.MimeType))
	if err != nil {
		return nil, err
	}

	if err := CreateActivity(db, taskID, userID, ActivityAttachmentAdded, nil,
		map[string]interface{}{"attachment_id": a.ID, "file_name": a.FileName}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttachments returns a task's attachments, newest first.
func ListAttachments(db DBTX, userID, orgID, projectID, taskID string, page Page) ([]TaskAttachment, int, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM task_attachments WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT `+attachmentColumns+` FROM task_attachments
		WHERE task_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, taskID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var attachments []TaskAttachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, 0, err
		}
		attachments = append(attachments, *a)
	}
	return attachments, total, rows.Err()
}

// DeleteAttachment removes an attachment record. Uploader only.
func DeleteAttachment(db DBTX, userID, orgID, projectID, taskID, attachmentID string) error {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return err
	}

	var uploadedBy, fileName string
	err := db.QueryRow(`
		SELECT uploaded_by, file_name FROM task_attachments
		WHERE id = $1 AND task_id = $2
	`, attachmentID, taskID).Scan(&uploadedBy, &fileName)
	if err == sql.ErrNoRows {
		return notFoundf("attachment not found")
	}
	if err != nil {
		return err
	}
	if uploadedBy != userID {
		return forbiddenf("only the uploader can delete an attachment")
	}

	if _, err := db.Exec(`DELETE FROM task_attachments WHERE id = $1`, attachmentID); err != nil {
		return err
	}

	return CreateActivity(db, taskID, userID, ActivityAttachmentRemoved, nil,
		map[string]interface{}{"attachment_id": attachmentID, "file_name": fileName})
}
