package models

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func membershipRows(role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "workspace_id", "user_id", "role", "is_active", "joined_at"}).
		AddRow("m-1", "ws-1", "u-1", role, true, time.Now())
}

func TestAuthorizeDirectPrincipalSkipsMembership(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No query expectations registered: a direct principal match must not
	// touch the database.
	err = Authorize(db, "u-1", []string{"u-1"}, sql.NullString{}, RoleOwner)
	assert.NoError(t, err)
}

func TestAuthorizeEmptyPrincipalNeverMatches(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Authorize(db, "", []string{""}, sql.NullString{}, RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeNoWorkspaceForbidsOutsiders(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Authorize(db, "u-2", []string{"u-1"}, sql.NullString{}, RoleMember)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeRoleRank(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		minRole string
		allowed bool
	}{
		{"member below admin", RoleMember, RoleAdmin, false},
		{"admin meets admin", RoleAdmin, RoleAdmin, true},
		{"admin below owner", RoleAdmin, RoleOwner, false},
		{"owner meets everything", RoleOwner, RoleOwner, true},
		{"member meets member", RoleMember, RoleMember, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
				WithArgs("ws-1", "u-1").
				WillReturnRows(membershipRows(tc.role))

			err = Authorize(db, "u-1", nil, sql.NullString{String: "ws-1", Valid: true}, tc.minRole)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActiveMembershipNoRowsIsForbidden(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WithArgs("ws-1", "u-9").
		WillReturnError(sql.ErrNoRows)

	_, err = ActiveMembership(db, "ws-1", "u-9")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireMemberNoWorkspaceIsOpen(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, RequireMember(db, sql.NullString{}, "anyone"))
}

func TestActiveMembershipPassthroughError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(`SELECT id, workspace_id, user_id, role, is_active, joined_at`).
		WillReturnError(dbErr)

	_, err = ActiveMembership(db, "ws-1", "u-1")
	assert.ErrorIs(t, err, dbErr)
}
