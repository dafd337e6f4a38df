package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	CreatedBy      string    `json:"created_by"`
	OwnerID        string    `json:"owner_id"`
	IsActive       bool      `json:"is_active"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type WorkspaceMember struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	UserID      string         `json:"user_id"`
	Role        string         `json:"role"`
	InvitedBy   sql.NullString `json:"-"`
	IsActive    bool           `json:"is_active"`
	JoinedAt    time.Time      `json:"joined_at"`
	User        *User          `json:"user,omitempty"`
}

type CreateWorkspaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	OwnerID     string `json:"owner_id"`
}

type UpdateWorkspaceInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	SortOrder   *int    `json:"sort_order"`
}

const workspaceColumns = `id, organization_id, name, description, category, created_by, owner_id, is_active, sort_order, created_at, updated_at`

func scanWorkspace(row interface{ Scan(...interface{}) error }) (*Workspace, error) {
	var w Workspace
	err := row.Scan(&w.ID, &w.OrganizationID, &w.Name, &w.Description, &w.Category,
		&w.CreatedBy, &w.OwnerID, &w.IsActive, &w.SortOrder, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkspace inserts the workspace and seeds the creator as its owner
// member in one transaction.
func CreateWorkspace(db *sql.DB, userID, orgID string, in CreateWorkspaceInput) (*Workspace, error) {
	if in.Name == "" {
		return nil, validationf("workspace name is required")
	}

	ownerID := in.OwnerID
	if ownerID == "" {
		ownerID = userID
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := createWorkspaceInTx(tx, userID, orgID, ownerID, in.Name, in.Description, in.Category)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

// createWorkspaceInTx does the workspace insert plus owner membership seed
// inside an open transaction.
func createWorkspaceInTx(tx DBTX, userID, orgID, ownerID, name, description, category string) (*Workspace, error) {
	id := uuid.NewString()
	w, err := scanWorkspace(tx.QueryRow(`
		INSERT INTO workspaces (id, organization_id, name, description, category, created_by, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+workspaceColumns,
		id, orgID, name, description, category, userID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("insert workspace: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO workspace_members (id, workspace_id, user_id, role, invited_by, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, uuid.NewString(), id, userID, RoleOwner, userID)
	if err != nil {
		return nil, fmt.Errorf("seed owner membership: %w", err)
	}
	return w, nil
}

// ListWorkspaces returns active workspaces the user is an active member of.
func ListWorkspaces(db DBTX, userID, orgID string, page Page) ([]Workspace, int, error) {
	var total int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1 AND m.is_active = TRUE
		  AND w.organization_id = $2 AND w.is_active = TRUE
	`, userID, orgID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Query(`
		SELECT `+prefixColumns("w", workspaceColumns)+`
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1 AND m.is_active = TRUE
		  AND w.organization_id = $2 AND w.is_active = TRUE
		ORDER BY w.sort_order ASC, w.created_at DESC
		OFFSET $3 LIMIT $4
	`, userID, orgID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var workspaces []Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, 0, err
		}
		workspaces = append(workspaces, *w)
	}
	return workspaces, total, rows.Err()
}

// GetWorkspace returns the workspace after verifying active membership.
func GetWorkspace(db DBTX, userID, orgID, workspaceID string) (*Workspace, error) {
	if _, err := ActiveMembership(db, workspaceID, userID); err != nil {
		return nil, err
	}

	w, err := scanWorkspace(db.QueryRow(`
		SELECT `+workspaceColumns+` FROM workspaces
		WHERE id = $1 AND organization_id = $2
	`, workspaceID, orgID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("workspace not found")
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWorkspace applies the provided fields; owner or admin only.
func UpdateWorkspace(db DBTX, userID, orgID, workspaceID string, in UpdateWorkspaceInput) (*Workspace, error) {
	if err := Authorize(db, userID, nil, sql.NullString{String: workspaceID, Valid: true}, RoleAdmin); err != nil {
		return nil, err
	}

	w, err := scanWorkspace(db.QueryRow(`
		UPDATE workspaces SET
			name        = COALESCE($1, name),
			description = COALESCE($2, description),
			category    = COALESCE($3, category),
			sort_order  = COALESCE($4, sort_order),
			updated_at  = NOW()
		WHERE id = $5 AND organization_id = $6
		RETURNING `+workspaceColumns,
		in.Name, in.Description, in.Category, in.SortOrder, workspaceID, orgID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("workspace not found")
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkspace hard-deletes the workspace; only the owner role may do
// this. Members, projects and tasks cascade through foreign keys.
func DeleteWorkspace(db DBTX, userID, orgID, workspaceID string) error {
	m, err := ActiveMembership(db, workspaceID, userID)
	if err != nil {
		return err
	}
	if m.Role != RoleOwner {
		return forbiddenf("only the workspace owner can delete the workspace")
	}

	res, err := db.Exec(`DELETE FROM workspaces WHERE id = $1 AND organization_id = $2`, workspaceID, orgID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("workspace not found")
	}
	return nil
}

// ListWorkspaceMembers returns active members with user details; caller
// must be a member.
func ListWorkspaceMembers(db DBTX, userID, workspaceID string) ([]WorkspaceMember, error) {
	if _, err := ActiveMembership(db, workspaceID, userID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT m.id, m.workspace_id, m.user_id, m.role, m.is_active, m.joined_at,
		       u.id, u.email, u.first_name, u.last_name, u.created_at
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1 AND m.is_active = TRUE
		ORDER BY m.joined_at ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []WorkspaceMember
	for rows.Next() {
		var m WorkspaceMember
		var u User
		err := rows.Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt,
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		m.User = &u
		members = append(members, m)
	}
	return members, rows.Err()
}

type InviteMemberInput struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// InviteMember adds a user to the workspace by email. An inactive prior
// membership is reactivated with the new role; an active one is a conflict.
func InviteMember(db DBTX, userID, workspaceID string, in InviteMemberInput) (*WorkspaceMember, error) {
	if err := Authorize(db, userID, nil, sql.NullString{String: workspaceID, Valid: true}, RoleAdmin); err != nil {
		return nil, err
	}
	if in.Role != RoleAdmin && in.Role != RoleMember {
		in.Role = RoleMember
	}

	invitee, err := GetUserByEmail(db, in.Email)
	if err != nil {
		return nil, err
	}

	var existing WorkspaceMember
	err = db.QueryRow(`
		SELECT id, workspace_id, user_id, role, is_active, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2
	`, workspaceID, invitee.ID).Scan(&existing.ID, &existing.WorkspaceID, &existing.UserID,
		&existing.Role, &existing.IsActive, &existing.JoinedAt)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, conflictf("user is already a member of this workspace")
		}
		_, err = db.Exec(`
			UPDATE workspace_members SET is_active = TRUE, role = $1 WHERE id = $2
		`, in.Role, existing.ID)
		if err != nil {
			return nil, err
		}
		existing.IsActive = true
		existing.Role = in.Role
		existing.User = invitee
		return &existing, nil
	case err != sql.ErrNoRows:
		return nil, err
	}

	m := WorkspaceMember{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		UserID:      invitee.ID,
		Role:        in.Role,
		IsActive:    true,
		User:        invitee,
	}
	err = db.QueryRow(`
		INSERT INTO workspace_members (id, workspace_id, user_id, role, invited_by, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING joined_at
	`, m.ID, workspaceID, invitee.ID, in.Role, userID).Scan(&m.JoinedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &m, nil
}

// UpdateMemberRole changes a member's role; the owner's role is immutable.
func UpdateMemberRole(db DBTX, userID, workspaceID, memberID, role string) (*WorkspaceMember, error) {
	if err := Authorize(db, userID, nil, sql.NullString{String: workspaceID, Valid: true}, RoleAdmin); err != nil {
		return nil, err
	}
	if _, ok := roleRank[role]; !ok {
		return nil, validationf("unknown role %q", role)
	}

	var m WorkspaceMember
	err := db.QueryRow(`
		SELECT id, workspace_id, user_id, role, is_active, joined_at
		FROM workspace_members
		WHERE id = $1 AND workspace_id = $2
	`, memberID, workspaceID).Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, notFoundf("member not found")
	}
	if err != nil {
		return nil, err
	}

	if m.Role == RoleOwner && role != RoleOwner {
		return nil, forbiddenf("cannot change owner role")
	}

	if _, err := db.Exec(`UPDATE workspace_members SET role = $1 WHERE id = $2`, role, memberID); err != nil {
		return nil, err
	}
	m.Role = role
	return &m, nil
}

// RemoveMember removes a member; the owner cannot be removed.
func RemoveMember(db DBTX, userID, workspaceID, memberID string) error {
	if err := Authorize(db, userID, nil, sql.NullString{String: workspaceID, Valid: true}, RoleAdmin); err != nil {
		return err
	}

	var role string
	err := db.QueryRow(`
		SELECT role FROM workspace_members WHERE id = $1 AND workspace_id = $2
	`, memberID, workspaceID).Scan(&role)
	if err == sql.ErrNoRows {
		return notFoundf("member not found")
	}
	if err != nil {
		return err
	}
	if role == RoleOwner {
		return forbiddenf("cannot remove workspace owner")
	}

	_, err = db.Exec(`DELETE FROM workspace_members WHERE id = $1`, memberID)
	return err
}
