package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Epic statuses.
const (
	EpicPlanning   = "planning"
	EpicInProgress = "in_progress"
	EpicCompleted  = "completed"
	EpicCancelled  = "cancelled"
)

type Epic struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	ProjectID      string         `json:"project_id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	CreatedBy      string         `json:"created_by"`
	AssigneeID     sql.NullString `json:"-"`
	SortOrder      int            `json:"sort_order"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CreateEpicInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AssigneeID  *string    `json:"assignee_id"`
	SortOrder   int        `json:"sort_order"`
}

type UpdateEpicInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	AssigneeID  *string    `json:"assignee_id"`
	SortOrder   *int       `json:"sort_order"`
}

const epicColumns = `id, organization_id, project_id, name, description, status, start_date, end_date, created_by, assignee_id, sort_order, created_at, updated_at`

func scanEpic(row interface{ Scan(...interface{}) error }) (*Epic, error) {
	var e Epic
	err := row.Scan(&e.ID, &e.OrganizationID, &e.ProjectID, &e.Name, &e.Description, &e.Status,
		&e.StartDate, &e.EndDate, &e.CreatedBy, &e.AssigneeID, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func CreateEpic(db DBTX, userID, orgID, projectID string, in CreateEpicInput) (*Epic, error) {
	if in.Name == "" {
		return nil, validationf("epic name is required")
	}
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = EpicPlanning
	}

	var assignee sql.NullString
	if in.AssigneeID != nil && *in.AssigneeID != "" {
		assignee = sql.NullString{String: *in.AssigneeID, Valid: true}
	}

	e, err := scanEpic(db.QueryRow(`
		INSERT INTO epics (id, organization_id, project_id, name, description, status, start_date, end_date, created_by, assignee_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+epicColumns,
		uuid.NewString(), orgID, projectID, in.Name, in.Description, status,
		in.StartDate, in.EndDate, userID, assignee, in.SortOrder))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func ListEpics(db DBTX, userID, orgID, projectID string, page Page) ([]Epic, int, error) {
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, 0, err
	}

	var total int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM epics WHERE project_id = $1 AND organization_id = $2
	`, projectID, orgID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT `+epicColumns+` FROM epics
		WHERE project_id = $1 AND organization_id = $2
		ORDER BY sort_order ASC, created_at DESC
		OFFSET $3 LIMIT $4
	`, projectID, orgID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var epics []Epic
	for rows.Next() {
		e, err := scanEpic(rows)
		if err != nil {
			return nil, 0, err
		}
		epics = append(epics, *e)
	}
	return epics, total, rows.Err()
}

func GetEpic(db DBTX, userID, orgID, projectID, epicID string) (*Epic, error) {
	if _, err := GetProject(db, userID, orgID, projectID); err != nil {
		return nil, err
	}

	e, err := scanEpic(db.QueryRow(`
		SELECT `+epicColumns+` FROM epics
		WHERE id = $1 AND project_id = $2 AND organization_id = $3
	`, epicID, projectID, orgID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("epic not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEpic applies the provided fields; creator or workspace admin/owner.
func UpdateEpic(db DBTX, userID, orgID, projectID, epicID string, in UpdateEpicInput) (*Epic, error) {
	e, err := GetEpic(db, userID, orgID, projectID, epicID)
	if err != nil {
		return nil, err
	}

	p, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(db, userID, []string{e.CreatedBy}, p.WorkspaceID, RoleAdmin); err != nil {
		return nil, err
	}

	var assignee interface{}
	if in.AssigneeID != nil {
		if *in.AssigneeID == "" {
			assignee = nil
		} else {
			assignee = *in.AssigneeID
		}
	}

	updated, err := scanEpic(db.QueryRow(`
		UPDATE epics SET
			name        = COALESCE($1, name),
			description = COALESCE($2, description),
			status      = COALESCE($3, status),
			start_date  = COALESCE($4, start_date),
			end_date    = COALESCE($5, end_date),
			assignee_id = CASE WHEN $6 THEN $7::uuid ELSE assignee_id END,
			sort_order  = COALESCE($8, sort_order),
			updated_at  = NOW()
		WHERE id = $9
		RETURNING `+epicColumns,
		in.Name, in.Description, in.Status, in.StartDate, in.EndDate,
		in.AssigneeID != nil, assignee, in.SortOrder, epicID))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEpic removes the epic; creator or workspace owner only. Tasks keep
// their rows with epic_id nulled by the schema.
func DeleteEpic(db DBTX, userID, orgID, projectID, epicID string) error {
	e, err := GetEpic(db, userID, orgID, projectID, epicID)
	if err != nil {
		return err
	}

	p, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return err
	}
	if err := Authorize(db, userID, []string{e.CreatedBy}, p.WorkspaceID, RoleOwner); err != nil {
		return err
	}

	_, err = db.Exec(`DELETE FROM epics WHERE id = $1`, epicID)
	return err
}
