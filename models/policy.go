package models

import "database/sql"

// Workspace roles, in ascending order of authority.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

var roleRank = map[string]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// ActiveMembership returns the caller's active membership row for a
// workspace, or ErrForbidden when none exists.
func ActiveMembership(db DBTX, workspaceID, userID string) (*WorkspaceMember, error) {
	var m WorkspaceMember
	err := db.QueryRow(`
		SELECT id, workspace_id, user_id, role, is_active, joined_at
		FROM workspace_members
		WHERE workspace_id = $1 AND user_id = $2 AND is_active = TRUE
	`, workspaceID, userID).Scan(&m.ID, &m.WorkspaceID, &m.UserID, &m.Role, &m.IsActive, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, forbiddenf("you are not a member of this workspace")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Authorize is the single policy check used by every mutating path.
// The caller is allowed when it matches one of the directly privileged
// principals (creator, owner, assignee — whichever the resource has), or
// when it holds an active workspace membership of at least minRole. A
// resource outside any workspace grants access only to the direct
// principals.
func Authorize(db DBTX, userID string, directPrincipals []string, workspaceID sql.NullString, minRole string) error {
	for _, p := range directPrincipals {
		if p != "" && p == userID {
			return nil
		}
	}

	if !workspaceID.Valid {
		return forbiddenf("you do not have permission to perform this action")
	}

	m, err := ActiveMembership(db, workspaceID.String, userID)
	if err != nil {
		return err
	}
	if roleRank[m.Role] < roleRank[minRole] {
		return forbiddenf("you do not have permission to perform this action")
	}
	return nil
}

// RequireMember verifies plain active membership when the resource sits in
// a workspace; resources without a workspace are open within their
// organization.
func RequireMember(db DBTX, workspaceID sql.NullString, userID string) error {
	if !workspaceID.Valid {
		return nil
	}
	_, err := ActiveMembership(db, workspaceID.String, userID)
	return err
}
