package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Project statuses.
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectArchived  = "archived"
)

type Project struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	WorkspaceID    sql.NullString `json:"-"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	CreatedBy      string         `json:"created_by"`
	OwnerID        string         `json:"owner_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// MarshalJSON-friendly view of the nullable workspace reference.
func (p Project) WorkspaceRef() *string {
	if !p.WorkspaceID.Valid {
		return nil
	}
	s := p.WorkspaceID.String
	return &s
}

type CreateProjectInput struct {
	WorkspaceID *string `json:"workspace_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	OwnerID     string  `json:"owner_id"`
}

type UpdateProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

const projectColumns = `id, organization_id, workspace_id, name, description, status, created_by, owner_id, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.OrganizationID, &p.WorkspaceID, &p.Name, &p.Description,
		&p.Status, &p.CreatedBy, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func CreateProject(db DBTX, userID, orgID string, in CreateProjectInput) (*Project, error) {
	if in.Name == "" {
		return nil, validationf("project name is required")
	}

	var workspaceID sql.NullString
	if in.WorkspaceID != nil && *in.WorkspaceID != "" {
		workspaceID = sql.NullString{String: *in.WorkspaceID, Valid: true}
		if _, err := ActiveMembership(db, workspaceID.String, userID); err != nil {
			return nil, err
		}
	}

	status := in.Status
	if status == "" {
		status = ProjectPlanning
	}
	ownerID := in.OwnerID
	if ownerID == "" {
		ownerID = userID
	}

	p, err := scanProject(db.QueryRow(`
		INSERT INTO projects (id, organization_id, workspace_id, name, description, status, created_by, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		uuid.NewString(), orgID, workspaceID, in.Name, in.Description, status, userID, ownerID))
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects lists projects in the organization, optionally scoped to a
// workspace (which then requires membership).
func ListProjects(db DBTX, userID, orgID string, workspaceID *string, page Page) ([]Project, int, error) {
	where := `organization_id = $1`
	args := []interface{}{orgID}
	if workspaceID != nil && *workspaceID != "" {
		if _, err := ActiveMembership(db, *workspaceID, userID); err != nil {
			return nil, 0, err
		}
		where += ` AND workspace_id = $2`
		args = append(args, *workspaceID)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM projects WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offsetArg := len(args) + 1
	args = append(args, page.Offset(), page.Limit)
	rows, err := db.Query(`
		SELECT `+projectColumns+` FROM projects
		WHERE `+where+`
		ORDER BY created_at DESC
		OFFSET $`+itoa(offsetArg)+` LIMIT $`+itoa(offsetArg+1),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, *p)
	}
	return projects, total, rows.Err()
}

// GetProject loads an organization-scoped project and enforces workspace
// membership when the project sits in a workspace.
func GetProject(db DBTX, userID, orgID, projectID string) (*Project, error) {
	p, err := scanProject(db.QueryRow(`
		SELECT `+projectColumns+` FROM projects
		WHERE id = $1 AND organization_id = $2
	`, projectID, orgID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("project not found")
	}
	if err != nil {
		return nil, err
	}

	if err := RequireMember(db, p.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return p, nil
}

func UpdateProject(db DBTX, userID, orgID, projectID string, in UpdateProjectInput) (*Project, error) {
	p, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return nil, err
	}

	if err := Authorize(db, userID, []string{p.OwnerID}, p.WorkspaceID, RoleAdmin); err != nil {
		return nil, err
	}

	updated, err := scanProject(db.QueryRow(`
		UPDATE projects SET
			name        = COALESCE($1, name),
			description = COALESCE($2, description),
			status      = COALESCE($3, status),
			updated_at  = NOW()
		WHERE id = $4 AND organization_id = $5
		RETURNING `+projectColumns,
		in.Name, in.Description, in.Status, projectID, orgID))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes the project; only the project owner or the
// workspace owner may do this. Tasks and epics cascade.
func DeleteProject(db DBTX, userID, orgID, projectID string) error {
	p, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return err
	}

	if err := Authorize(db, userID, []string{p.OwnerID}, p.WorkspaceID, RoleOwner); err != nil {
		return err
	}

	_, err = db.Exec(`DELETE FROM projects WHERE id = $1 AND organization_id = $2`, projectID, orgID)
	return err
}
