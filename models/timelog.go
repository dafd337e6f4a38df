package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type TaskTimeLog struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Minutes     int       `json:"minutes"`
	Description string    `json:"description"`
	IsBillable  bool      `json:"is_billable"`
	LoggedDate  time.Time `json:"logged_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LogTimeInput struct {
	Minutes     int    `json:"minutes"`
	Description string `json:"description"`
	IsBillable  bool   `json:"is_billable"`
	LoggedDate  string `json:"logged_date"` // YYYY-MM-DD, defaults to today
}

type UpdateTimeLogInput struct {
	Minutes     *int    `json:"minutes"`
	Description *string `json:"description"`
	IsBillable  *bool   `json:"is_billable"`
	LoggedDate  *string `json:"logged_date"`
}

const timeLogColumns = `id, task_id, user_id, minutes, description, is_billable, logged_date, created_at, updated_at`

func scanTimeLog(row interface{ Scan(...interface{}) error }) (*TaskTimeLog, error) {
	var l TaskTimeLog
	err := row.Scan(&l.ID, &l.TaskID, &l.UserID, &l.Minutes, &l.Description,
		&l.IsBillable, &l.LoggedDate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LogTime records minutes spent on a task by the calling user.
func LogTime(db DBTX, userID, orgID, projectID, taskID string, in LogTimeInput) (*TaskTimeLog, error) {
	if in.Minutes <= 0 {
		return nil, validationf("minutes must be positive")
	}
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	loggedDate := time.Now().UTC().Truncate(24 * time.Hour)
	if in.LoggedDate != "" {
		d, err := time.Parse("2006-01-02", in.LoggedDate)
		if err != nil {
			return nil, validationf("logged_date must be YYYY-MM-DD")
		}
		loggedDate = d
	}

	return scanTimeLog(db.QueryRow(`
		INSERT INTO task_time_logs (id, task_id, user_id, minutes, description, is_billable, logged_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+timeLogColumns,
		uuid.NewString(), taskID, userID, in.Minutes, in.Description, in.IsBillable, loggedDate))
}

// ListTimeLogs returns a task's time entries, most recent date first.
func ListTimeLogs(db DBTX, userID, orgID, projectID, taskID string, page Page) ([]TaskTimeLog, int, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM task_time_logs WHERE task_id = $1`, taskID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT `+timeLogColumns+` FROM task_time_logs
		WHERE task_id = $1
		ORDER BY logged_date DESC, created_at DESC
		OFFSET $2 LIMIT $3
	`, taskID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []TaskTimeLog
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

// UpdateTimeLog edits an entry. Only the user who logged it may change it.
func UpdateTimeLog(db DBTX, userID, orgID, projectID, taskID, logID string, in UpdateTimeLogInput) (*TaskTimeLog, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}
	if in.Minutes != nil && *in.Minutes <= 0 {
		return nil, validationf("minutes must be positive")
	}

	var ownerID string
	err := db.QueryRow(`
		SELECT user_id FROM task_time_logs WHERE id = $1 AND task_id = $2
	`, logID, taskID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return nil, notFoundf("time log not found")
	}
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, forbiddenf("only the user who logged time can edit it")
	}

	var loggedDate interface{}
	if in.LoggedDate != nil {
		d, err := time.Parse("2006-01-02", *in.LoggedDate)
		if err != nil {
			return nil, validationf("logged_date must be YYYY-MM-DD")
		}
		loggedDate = d
	}

	return scanTimeLog(db.QueryRow(`
		UPDATE task_time_logs SET
			minutes     = COALESCE($1, minutes),
			description = COALESCE($2, description),
			is_billable = COALESCE($3, is_billable),
			logged_date = CASE WHEN $4 THEN $5::date ELSE logged_date END,
			updated_at  = NOW()
		WHERE id = $6
		RETURNING `+timeLogColumns,
		in.Minutes, in.Description, in.IsBillable, in.LoggedDate != nil, loggedDate, logID))
}

// DeleteTimeLog removes an entry. Only the user who logged it may delete it.
func DeleteTimeLog(db DBTX, userID, orgID, projectID, taskID, logID string) error {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return err
	}

	var ownerID string
	err := db.QueryRow(`
		SELECT user_id FROM task_time_logs WHERE id = $1 AND task_id = $2
	`, logID, taskID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return notFoundf("time log not found")
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return forbiddenf("only the user who logged time can delete it")
	}

	_, err = db.Exec(`DELETE FROM task_time_logs WHERE id = $1`, logID)
	return err
}

// UserTimeTotal is the per-user slice of a project time report.
type UserTimeTotal struct {
	UserID       string  `json:"user_id"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	EntryCount   int     `json:"entry_count"`
}

// TaskTimeTotal is the per-task slice of a project time report.
type TaskTimeTotal struct {
	TaskID       string  `json:"task_id"`
	TaskTitle    string  `json:"task_title"`
	TotalMinutes int     `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	EntryCount   int     `json:"entry_count"`
}

// ProjectTimeReport aggregates logged time across a project, optionally
// bounded by a date range.
type ProjectTimeReport struct {
	ProjectID       string          `json:"project_id"`
	TotalMinutes    int             `json:"total_minutes"`
	TotalHours      float64         `json:"total_hours"`
	BillableMinutes int             `json:"billable_minutes"`
	BillableHours   float64         `json:"billable_hours"`
	EntryCount      int             `json:"entry_count"`
	ByUser          []UserTimeTotal `json:"by_user"`
	ByTask          []TaskTimeTotal `json:"by_task"`
}

// GetProjectTimeReport builds time totals with SQL aggregation. from/to are
// inclusive YYYY-MM-DD bounds; empty means unbounded.
func GetProjectTimeReport(db DBTX, userID, orgID, projectID, from, to string) (*ProjectTimeReport, error) {
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, err
	}

	where := `t.project_id = $1`
	args := []interface{}{projectID}
	if from != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			return nil, validationf("from must be YYYY-MM-DD")
		}
		args = append(args, from)
		where += ` AND l.logged_date >= $` + itoa(len(args))
	}
	if to != "" {
		if _, err := time.Parse("2006-01-02", to); err != nil {
			return nil, validationf("to must be YYYY-MM-DD")
		}
		args = append(args, to)
		where += ` AND l.logged_date <= $` + itoa(len(args))
	}

	report := &ProjectTimeReport{
		ProjectID: projectID,
		ByUser:    []UserTimeTotal{},
		ByTask:    []TaskTimeTotal{},
	}

	err := db.QueryRow(`
		SELECT COALESCE(SUM(l.minutes), 0),
			COALESCE(SUM(l.minutes) FILTER (WHERE l.is_billable), 0),
			COUNT(l.id)
		FROM task_time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE `+where, args...).Scan(&report.TotalMinutes, &report.BillableMinutes, &report.EntryCount)
	if err != nil {
		return nil, err
	}
	report.TotalHours = minutesToHours(report.TotalMinutes)
	report.BillableHours = minutesToHours(report.BillableMinutes)

	userRows, err := db.Query(`
		SELECT l.user_id, SUM(l.minutes), COUNT(l.id)
		FROM task_time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE `+where+`
		GROUP BY l.user_id
		ORDER BY SUM(l.minutes) DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer userRows.Close()
	for userRows.Next() {
		var u UserTimeTotal
		if err := userRows.Scan(&u.UserID, &u.TotalMinutes, &u.EntryCount); err != nil {
			return nil, err
		}
		u.TotalHours = minutesToHours(u.TotalMinutes)
		report.ByUser = append(report.ByUser, u)
	}
	if err := userRows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := db.Query(`
		SELECT t.id, t.title, SUM(l.minutes), COUNT(l.id)
		FROM task_time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE `+where+`
		GROUP BY t.id, t.title
		ORDER BY SUM(l.minutes) DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var tt TaskTimeTotal
		if err := taskRows.Scan(&tt.TaskID, &tt.TaskTitle, &tt.TotalMinutes, &tt.EntryCount); err != nil {
			return nil, err
		}
		tt.TotalHours = minutesToHours(tt.TotalMinutes)
		report.ByTask = append(report.ByTask, tt)
	}
	return report, taskRows.Err()
}
