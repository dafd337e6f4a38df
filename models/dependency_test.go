package models

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Project without a workspace, so no membership check fires.
func depProjectRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "organization_id", "workspace_id", "name", "description", "status", "created_by", "owner_id", "created_at", "updated_at"}).
		AddRow("p-1", "org-1", nil, "Board", "", "active", "u-1", "u-1", time.Now(), time.Now())
}

func depTaskRows(id string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "organization_id", "project_id", "epic_id", "title", "description", "status", "priority", "created_by", "assignee_id", "due_date", "estimated_hours", "actual_hours", "tags", "sort_order", "created_at", "updated_at"}).
		AddRow(id, "org-1", "p-1", nil, "Task", "", "todo", "medium", "u-1", nil, nil, nil, nil, "{}", 0, time.Now(), time.Now())
}

// Expectations for loading both ends of the edge, up to the duplicate check.
func expectDependencyLookups(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id, organization_id, workspace_id`).
		WithArgs("p-1", "org-1").
		WillReturnRows(depProjectRows())
	mock.ExpectQuery(`WHERE id = \$1 AND project_id = \$2`).
		WithArgs("t-1", "p-1", "org-1").
		WillReturnRows(depTaskRows("t-1"))
	mock.ExpectQuery(`SELECT project_id FROM tasks`).
		WithArgs("t-2", "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow("p-1"))
	mock.ExpectQuery(`SELECT id, organization_id, workspace_id`).
		WithArgs("p-1", "org-1").
		WillReturnRows(depProjectRows())
	mock.ExpectQuery(`WHERE id = \$1 AND project_id = \$2`).
		WithArgs("t-2", "p-1", "org-1").
		WillReturnRows(depTaskRows("t-2"))
}

func TestAddDependencySelfRejected(t *testing.T) {
	// The self check runs before any query, so a nil handle is safe.
	_, err := AddDependency(nil, "u-1", "org-1", "p-1", "t-1", "t-1", DependencyBlocks)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddDependencyUnknownType(t *testing.T) {
	_, err := AddDependency(nil, "u-1", "org-1", "p-1", "t-1", "t-2", "requires")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddDependencyAcceptsBlockedBy(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectDependencyLookups(mock)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t-1", "t-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t-2", "t-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO task_dependencies`).
		WithArgs(sqlmock.AnyArg(), "t-1", "t-2", DependencyBlockedBy).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "depends_on_task_id", "dependency_type", "created_at"}).
			AddRow("d-1", "t-1", "t-2", DependencyBlockedBy, time.Now()))

	d, err := AddDependency(db, "u-1", "org-1", "p-1", "t-1", "t-2", DependencyBlockedBy)
	require.NoError(t, err)
	assert.Equal(t, DependencyBlockedBy, d.DependencyType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDependencyDuplicateConflicts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectDependencyLookups(mock)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t-1", "t-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = AddDependency(db, "u-1", "org-1", "p-1", "t-1", "t-2", DependencyBlocks)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDependencyReverseEdgeConflicts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	expectDependencyLookups(mock)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t-1", "t-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("t-2", "t-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err = AddDependency(db, "u-1", "org-1", "p-1", "t-1", "t-2", DependencyBlocks)
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorContains(t, err, "circular dependency")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveDependencyByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, organization_id, workspace_id`).
		WithArgs("p-1", "org-1").
		WillReturnRows(depProjectRows())
	mock.ExpectQuery(`WHERE id = \$1 AND project_id = \$2`).
		WithArgs("t-1", "p-1", "org-1").
		WillReturnRows(depTaskRows("t-1"))
	mock.ExpectExec(`DELETE FROM task_dependencies`).
		WithArgs("d-1", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = RemoveDependency(db, "u-1", "org-1", "p-1", "t-1", "d-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveDependencyUnknownID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, organization_id, workspace_id`).
		WithArgs("p-1", "org-1").
		WillReturnRows(depProjectRows())
	mock.ExpectQuery(`WHERE id = \$1 AND project_id = \$2`).
		WithArgs("t-1", "p-1", "org-1").
		WillReturnRows(depTaskRows("t-1"))
	mock.ExpectExec(`DELETE FROM task_dependencies`).
		WithArgs("d-404", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = RemoveDependency(db, "u-1", "org-1", "p-1", "t-1", "d-404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSplitDependencies(t *testing.T) {
	edges := []TaskDependency{
		{ID: "d-1", TaskID: "t-1", DependsOnTaskID: "t-2", DependencyType: DependencyBlocks},
		{ID: "d-2", TaskID: "t-3", DependsOnTaskID: "t-1", DependencyType: DependencyBlocks},
		{ID: "d-3", TaskID: "t-1", DependsOnTaskID: "t-4", DependencyType: DependencyRelated},
		{ID: "d-4", TaskID: "t-5", DependsOnTaskID: "t-1", DependencyType: DependencyRelated},
		// Stored as-is but never shown as blocking.
		{ID: "d-5", TaskID: "t-1", DependsOnTaskID: "t-6", DependencyType: DependencyBlockedBy},
	}

	out := SplitDependencies("t-1", edges)

	require.Len(t, out.Blocking, 1)
	assert.Equal(t, "d-1", out.Blocking[0].ID)

	require.Len(t, out.BlockedBy, 1)
	assert.Equal(t, "d-2", out.BlockedBy[0].ID)

	// Related edges land in one bucket regardless of direction.
	require.Len(t, out.Related, 2)
}

func TestSplitDependenciesEmpty(t *testing.T) {
	out := SplitDependencies("t-1", nil)
	assert.NotNil(t, out.Blocking)
	assert.NotNil(t, out.BlockedBy)
	assert.NotNil(t, out.Related)
	assert.Empty(t, out.Blocking)
}
