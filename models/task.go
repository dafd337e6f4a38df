package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusInReview   = "in_review"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	ProjectID      sql.NullString `json:"-"`
	EpicID         sql.NullString `json:"-"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	Priority       string         `json:"priority"`
	CreatedBy      string         `json:"created_by"`
	AssigneeID     sql.NullString `json:"-"`
	DueDate        *time.Time     `json:"due_date"`
	EstimatedHours *int           `json:"estimated_hours"`
	ActualHours    *int           `json:"actual_hours"`
	Tags           []string       `json:"tags"`
	SortOrder      int            `json:"sort_order"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CreateTaskInput struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *string    `json:"assignee_id"`
	EpicID         *string    `json:"epic_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *int       `json:"estimated_hours"`
	ActualHours    *int       `json:"actual_hours"`
	Tags           []string   `json:"tags"`
	SortOrder      int        `json:"sort_order"`
}

// UpdateTaskInput uses pointers for partial updates. For assignee_id and
// due_date an empty string clears the field; nil leaves it untouched.
type UpdateTaskInput struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	AssigneeID     *string  `json:"assignee_id"`
	EpicID         *string  `json:"epic_id"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *int     `json:"estimated_hours"`
	ActualHours    *int     `json:"actual_hours"`
	Tags           []string `json:"tags"`
	SortOrder      *int     `json:"sort_order"`
}

// TaskFilter mirrors the list endpoint's query parameters.
type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID string // user id or the literal "unassigned"
	Search     string
	DueDate    string // overdue | today | this_week | this_month | none
	Tags       []string
	SortBy     string // created_at | due_date | priority | status | title
	SortOrder  string // asc | desc
}

var validStatuses = map[string]bool{
	StatusTodo: true, StatusInProgress: true, StatusInReview: true, StatusDone: true,
}

var validPriorities = map[string]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

const taskColumns = `id, organization_id, project_id, epic_id, title, description, status, priority, created_by, assignee_id, due_date, estimated_hours, actual_hours, tags, sort_order, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.OrganizationID, &t.ProjectID, &t.EpicID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.CreatedBy, &t.AssigneeID, &t.DueDate,
		&t.EstimatedHours, &t.ActualHours, pq.Array(&t.Tags), &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

// CreateTask inserts a task under a project, records the CREATED activity
// and fans out best-effort notifications.
func CreateTask(db DBTX, userID, orgID, projectID string, in CreateTaskInput) (*Task, error) {
	if in.Title == "" {
		return nil, validationf("task title is required")
	}

	project, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = StatusTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validStatuses[status] {
		return nil, validationf("unknown status %q", status)
	}
	if !validPriorities[priority] {
		return nil, validationf("unknown priority %q", priority)
	}

	var assignee, epic sql.NullString
	if in.AssigneeID != nil && *in.AssigneeID != "" {
		assignee = sql.NullString{String: *in.AssigneeID, Valid: true}
	}
	if in.EpicID != nil && *in.EpicID != "" {
		epic = sql.NullString{String: *in.EpicID, Valid: true}
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	t, err := scanTask(db.QueryRow(`
		INSERT INTO tasks (id, organization_id, project_id, epic_id, title, description, status, priority, created_by, assignee_id, due_date, estimated_hours, actual_hours, tags, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+taskColumns,
		uuid.NewString(), orgID, projectID, epic, in.Title, in.Description, status, priority,
		userID, assignee, in.DueDate, in.EstimatedHours, in.ActualHours, pq.Array(tags), in.SortOrder))
	if err != nil {
		return nil, err
	}

	if err := CreateActivity(db, t.ID, userID, ActivityCreated, nil, nil); err != nil {
		return nil, fmt.Errorf("record creation activity: %w", err)
	}

	notifyTaskCreated(db, userID, orgID, project, t)

	return t, nil
}

// ListTasks applies the filter cascade and offset pagination.
func ListTasks(db DBTX, userID, orgID, projectID string, f TaskFilter, page Page) ([]Task, int, error) {
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, 0, err
	}

	where := []string{"project_id = $1", "organization_id = $2"}
	args := []interface{}{projectID, orgID}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.Priority != "" {
		where = append(where, "priority = "+arg(f.Priority))
	}
	if f.AssigneeID != "" {
		if f.AssigneeID == "unassigned" {
			where = append(where, "assignee_id IS NULL")
		} else {
			where = append(where, "assignee_id = "+arg(f.AssigneeID))
		}
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(title ILIKE "+p+" OR description ILIKE "+p+")")
	}
	switch f.DueDate {
	case "overdue":
		where = append(where, "due_date < CURRENT_DATE")
	case "today":
		where = append(where, "due_date = CURRENT_DATE")
	case "this_week":
		where = append(where, "due_date >= CURRENT_DATE", "due_date < CURRENT_DATE + INTERVAL '7 days'")
	case "this_month":
		where = append(where, "due_date >= CURRENT_DATE", "due_date < CURRENT_DATE + INTERVAL '1 month'")
	case "none":
		where = append(where, "due_date IS NULL")
	}
	if len(f.Tags) > 0 {
		where = append(where, "tags && "+arg(pq.Array(f.Tags)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tasks WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := taskOrderClause(f.SortBy, f.SortOrder)
	offsetP := arg(page.Offset())
	limitP := arg(page.Limit)

	rows, err := db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE `+whereClause+`
		ORDER BY `+order+`
		OFFSET `+offsetP+` LIMIT `+limitP,
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, total, rows.Err()
}

// taskOrderClause whitelists sortable columns. Priority and status sort by
// their semantic rank, not alphabetically; created_at DESC breaks ties.
func taskOrderClause(sortBy, sortOrder string) string {
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}

	switch sortBy {
	case "due_date":
		return "due_date " + dir + ", created_at DESC"
	case "priority":
		return `CASE priority
			WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 WHEN 'urgent' THEN 4
		END ` + dir + ", created_at DESC"
	case "status":
		return `CASE status
			WHEN 'todo' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'in_review' THEN 3 WHEN 'done' THEN 4
		END ` + dir + ", created_at DESC"
	case "title":
		return "title " + dir + ", created_at DESC"
	default:
		return "created_at " + dir
	}
}

// GetTask loads an org- and project-scoped task after the project access
// check.
func GetTask(db DBTX, userID, orgID, projectID, taskID string) (*Task, error) {
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, err
	}

	t, err := scanTask(db.QueryRow(`
		SELECT `+taskColumns+` FROM tasks
		WHERE id = $1 AND project_id = $2 AND organization_id = $3
	`, taskID, projectID, orgID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("task not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// taskChange is one recognized field transition produced by diffing an
// update against the current row.
type taskChange struct {
	Type     string
	OldValue map[string]interface{}
	NewValue map[string]interface{}
}

// diffTaskChanges computes the activity rows an update should produce.
// Pure so the diff semantics are testable without a database.
func diffTaskChanges(t *Task, in UpdateTaskInput) ([]taskChange, error) {
	var changes []taskChange

	if in.Status != nil && *in.Status != "" && *in.Status != t.Status {
		if !validStatuses[*in.Status] {
			return nil, validationf("unknown status %q", *in.Status)
		}
		changes = append(changes, taskChange{
			Type:     ActivityStatusChanged,
			OldValue: map[string]interface{}{"old_status": t.Status},
			NewValue: map[string]interface{}{"old_status": t.Status, "new_status": *in.Status},
		})
	}

	if in.Priority != nil && *in.Priority != "" && *in.Priority != t.Priority {
		if !validPriorities[*in.Priority] {
			return nil, validationf("unknown priority %q", *in.Priority)
		}
		changes = append(changes, taskChange{
			Type:     ActivityPriorityChanged,
			OldValue: map[string]interface{}{"old_priority": t.Priority},
			NewValue: map[string]interface{}{"old_priority": t.Priority, "new_priority": *in.Priority},
		})
	}

	if in.AssigneeID != nil {
		newAssignee := *in.AssigneeID
		switch {
		case newAssignee != "" && !t.AssigneeID.Valid:
			changes = append(changes, taskChange{
				Type:     ActivityAssigned,
				NewValue: map[string]interface{}{"assignee_id": newAssignee},
			})
		case newAssignee == "" && t.AssigneeID.Valid:
			changes = append(changes, taskChange{
				Type:     ActivityUnassigned,
				OldValue: map[string]interface{}{"assignee_id": t.AssigneeID.String},
			})
		case newAssignee != "" && t.AssigneeID.Valid && newAssignee != t.AssigneeID.String:
			changes = append(changes, taskChange{
				Type:     ActivityAssigned,
				OldValue: map[string]interface{}{"assignee_id": t.AssigneeID.String},
				NewValue: map[string]interface{}{"assignee_id": newAssignee},
			})
		}
	}

	if in.DueDate != nil {
		newDue, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		oldDue := t.DueDate
		switch {
		case newDue != nil && oldDue == nil:
			changes = append(changes, taskChange{
				Type:     ActivityDueDateSet,
				NewValue: map[string]interface{}{"due_date": newDue.Format("2006-01-02")},
			})
		case newDue != nil && oldDue != nil && !newDue.Equal(*oldDue):
			changes = append(changes, taskChange{
				Type:     ActivityDueDateChanged,
				OldValue: map[string]interface{}{"due_date": oldDue.Format("2006-01-02")},
				NewValue: map[string]interface{}{"due_date": newDue.Format("2006-01-02")},
			})
		case newDue == nil && oldDue != nil:
			changes = append(changes, taskChange{
				Type:     ActivityDueDateRemoved,
				OldValue: map[string]interface{}{"due_date": oldDue.Format("2006-01-02")},
			})
		}
	}

	if in.Title != nil || in.Description != nil || in.EpicID != nil ||
		in.EstimatedHours != nil || in.ActualHours != nil || in.Tags != nil || in.SortOrder != nil {
		changes = append(changes, taskChange{Type: ActivityUpdated})
	}

	return changes, nil
}

func parseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, validationf("due_date must be YYYY-MM-DD")
	}
	return &d, nil
}

// UpdateTask applies a partial update. Permission: creator, current
// assignee, or workspace admin/owner. Each recognized field change writes
// one activity row; notifications are best-effort.
func UpdateTask(db DBTX, userID, orgID, projectID, taskID string, in UpdateTaskInput) (*Task, error) {
	t, err := GetTask(db, userID, orgID, projectID, taskID)
	if err != nil {
		return nil, err
	}

	project, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(db, userID, []string{t.CreatedBy, t.AssigneeID.String}, project.WorkspaceID, RoleAdmin); err != nil {
		return nil, err
	}

	changes, err := diffTaskChanges(t, in)
	if err != nil {
		return nil, err
	}

	var assignee interface{}
	if in.AssigneeID != nil && *in.AssigneeID != "" {
		assignee = *in.AssigneeID
	}
	var epic interface{}
	if in.EpicID != nil && *in.EpicID != "" {
		epic = *in.EpicID
	}
	var due interface{}
	if in.DueDate != nil {
		if d, _ := parseDueDate(*in.DueDate); d != nil {
			due = *d
		}
	}
	var tags interface{}
	if in.Tags != nil {
		tags = pq.Array(in.Tags)
	}

	updated, err := scanTask(db.QueryRow(`
		UPDATE tasks SET
			title           = COALESCE($1, title),
			description     = COALESCE($2, description),
			status          = COALESCE($3, status),
			priority        = COALESCE($4, priority),
			assignee_id     = CASE WHEN $5 THEN $6::uuid ELSE assignee_id END,
			epic_id         = CASE WHEN $7 THEN $8::uuid ELSE epic_id END,
			due_date        = CASE WHEN $9 THEN $10::date ELSE due_date END,
			estimated_hours = COALESCE($11, estimated_hours),
			actual_hours    = COALESCE($12, actual_hours),
			tags            = CASE WHEN $13 THEN $14::text[] ELSE tags END,
			sort_order      = COALESCE($15, sort_order),
			updated_at      = NOW()
		WHERE id = $16
		RETURNING `+taskColumns,
		in.Title, in.Description, in.Status, in.Priority,
		in.AssigneeID != nil, assignee,
		in.EpicID != nil, epic,
		in.DueDate != nil, due,
		in.EstimatedHours, in.ActualHours,
		in.Tags != nil, tags,
		in.SortOrder, taskID))
	if err != nil {
		return nil, err
	}

	for _, c := range changes {
		if err := CreateActivity(db, taskID, userID, c.Type, c.OldValue, c.NewValue); err != nil {
			return nil, fmt.Errorf("record %s activity: %w", c.Type, err)
		}
	}

	notifyTaskUpdated(db, userID, orgID, project, t, updated, changes)

	return updated, nil
}

// DeleteTask removes the task; creator or workspace admin/owner. Comments,
// attachments, activities, dependencies and time logs cascade.
func DeleteTask(db DBTX, userID, orgID, projectID, taskID string) error {
	t, err := GetTask(db, userID, orgID, projectID, taskID)
	if err != nil {
		return err
	}

	project, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(db, userID, []string{t.CreatedBy}, project.WorkspaceID, RoleAdmin); err != nil {
		return err
	}

	_, err = db.Exec(`DELETE FROM tasks WHERE id = $1`, taskID)
	return err
}

// ListTaskAssignees returns the many-to-many assignee set.
func ListTaskAssignees(db DBTX, userID, orgID, projectID, taskID string) ([]User, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT u.id, u.email, u.first_name, u.last_name, u.created_at
		FROM task_assignees ta
		JOIN users u ON u.id = ta.user_id
		WHERE ta.task_id = $1
		ORDER BY u.email ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddTaskAssignee adds a user to the assignee set.
func AddTaskAssignee(db DBTX, userID, orgID, projectID, taskID, assigneeID string) error {
	t, err := GetTask(db, userID, orgID, projectID, taskID)
	if err != nil {
		return err
	}
	project, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(db, userID, []string{t.CreatedBy, t.AssigneeID.String}, project.WorkspaceID, RoleAdmin); err != nil {
		return err
	}

	if _, err := GetUser(db, assigneeID); err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO task_assignees (task_id, user_id) VALUES ($1, $2)
	`, taskID, assigneeID)
	return mapDBError(err)
}

// RemoveTaskAssignee removes a user from the assignee set.
func RemoveTaskAssignee(db DBTX, userID, orgID, projectID, taskID, assigneeID string) error {
	t, err := GetTask(db, userID, orgID, projectID, taskID)
	if err != nil {
		return err
	}
	project, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(db, userID, []string{t.CreatedBy, t.AssigneeID.String}, project.WorkspaceID, RoleAdmin); err != nil {
		return err
	}

	res, err := db.Exec(`DELETE FROM task_assignees WHERE task_id = $1 AND user_id = $2`, taskID, assigneeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("assignee not found on task")
	}
	return nil
}
