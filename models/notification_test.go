package models

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifTask(creator, assignee string) *Task {
	t := &Task{ID: "t-1", Title: "Task", CreatedBy: creator}
	if assignee != "" {
		t.AssigneeID = sql.NullString{String: assignee, Valid: true}
	}
	return t
}

// A due-date change arriving alongside other changes must not swallow
// the fan-out: the fresh assignee hears about the assignment and the
// creator still gets exactly one notification.
func TestNotifyTaskUpdatedDueDateWithOtherChanges(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u-actor").
		WillReturnRows(userRows("u-actor", "mia@example.com"))

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "u-2", NotificationTaskAssigned,
			"Task assigned to you", `Ana Silva assigned you "Task" in project "Board"`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "u-1", NotificationDueDateChanged,
			"Task due date changed", `Ana Silva changed the due date on "Task"`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	project := &Project{ID: "p-1", Name: "Board"}
	changes := []taskChange{
		{Type: ActivityAssigned},
		{Type: ActivityDueDateChanged},
		{Type: ActivityStatusChanged},
	}
	notifyTaskUpdated(db, "u-actor", "org-1", project,
		notifTask("u-1", ""), notifTask("u-1", "u-2"), changes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyTaskUpdatedGenericFanOut(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	// Unknown actor falls back to the placeholder name.
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u-actor").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "u-1", NotificationTaskUpdated,
			"Task updated", `Someone updated "Task"`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	project := &Project{ID: "p-1", Name: "Board"}
	changes := []taskChange{{Type: ActivityStatusChanged}}
	notifyTaskUpdated(db, "u-actor", "org-1", project,
		notifTask("u-1", ""), notifTask("u-1", ""), changes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyTaskUpdatedNoChangesNoQueries(t *testing.T) {
	// With nothing recognized there is nothing to send, so a nil handle
	// is safe.
	notifyTaskUpdated(nil, "u-actor", "org-1", &Project{ID: "p-1"},
		notifTask("u-1", ""), notifTask("u-1", ""), nil)
}
