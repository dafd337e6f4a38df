package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows(id, email string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "created_at"}).
		AddRow(id, email, "Ana", "Silva", time.Now())
}

func TestInviteMemberAlreadyActiveConflicts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// Caller is a workspace admin.
	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-1", "ws-1", "u-1", RoleAdmin, true, time.Now()))

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, created_at`).
		WithArgs("ana@example.com").
		WillReturnRows(userRows("u-2", "ana@example.com"))

	// Invitee already holds an active membership.
	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-2", "ws-1", "u-2", RoleMember, true, time.Now()))

	_, err = InviteMember(db, "u-1", "ws-1", InviteMemberInput{Email: "ana@example.com", Role: RoleMember})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInviteMemberReactivatesInactive(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-1", "ws-1", "u-1", RoleOwner, true, time.Now()))

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, created_at`).
		WithArgs("ana@example.com").
		WillReturnRows(userRows("u-2", "ana@example.com"))

	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-2", "ws-1", "u-2", RoleMember, false, time.Now()))

	mock.ExpectExec(`UPDATE workspace_members SET is_active = TRUE, role = \$1 WHERE id = \$2`).
		WithArgs(RoleAdmin, "m-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	m, err := InviteMember(db, "u-1", "ws-1", InviteMemberInput{Email: "ana@example.com", Role: RoleAdmin})
	require.NoError(t, err)
	assert.True(t, m.IsActive)
	assert.Equal(t, RoleAdmin, m.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveMemberProtectsOwner(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-1", "ws-1", "u-1", RoleAdmin, true, time.Now()))

	mock.ExpectQuery(`SELECT role FROM workspace_members`).
		WithArgs("m-owner", "ws-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(RoleOwner))

	err = RemoveMember(db, "u-1", "ws-1", "m-owner")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMemberRoleUnknownRole(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
			AddRow("m-1", "ws-1", "u-1", RoleOwner, true, time.Now()))

	_, err = UpdateMemberRole(db, "u-1", "ws-1", "m-2", "superuser")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
