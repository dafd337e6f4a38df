package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseTask() *Task {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &Task{
		ID:         "t-1",
		Title:      "Ship the thing",
		Status:     StatusTodo,
		Priority:   PriorityMedium,
		CreatedBy:  "u-1",
		AssigneeID: sql.NullString{String: "u-2", Valid: true},
		DueDate:    &due,
	}
}

func TestDiffNoChanges(t *testing.T) {
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffStatusChange(t *testing.T) {
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{Status: strPtr(StatusDone)})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, ActivityStatusChanged, changes[0].Type)
	assert.Equal(t, StatusTodo, changes[0].NewValue["old_status"])
	assert.Equal(t, StatusDone, changes[0].NewValue["new_status"])
}

func TestDiffSameStatusIsNoop(t *testing.T) {
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{Status: strPtr(StatusTodo)})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestDiffUnknownStatusRejected(t *testing.T) {
	_, err := diffTaskChanges(baseTask(), UpdateTaskInput{Status: strPtr("archived")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDiffPriorityChange(t *testing.T) {
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{Priority: strPtr(PriorityUrgent)})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, ActivityPriorityChanged, changes[0].Type)
}

func TestDiffAssigneeTransitions(t *testing.T) {
	t.Run("reassign", func(t *testing.T) {
		changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{AssigneeID: strPtr("u-3")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityAssigned, changes[0].Type)
		assert.Equal(t, "u-2", changes[0].OldValue["assignee_id"])
		assert.Equal(t, "u-3", changes[0].NewValue["assignee_id"])
	})

	t.Run("unassign", func(t *testing.T) {
		changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{AssigneeID: strPtr("")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityUnassigned, changes[0].Type)
	})

	t.Run("first assignment", func(t *testing.T) {
		task := baseTask()
		task.AssigneeID = sql.NullString{}
		changes, err := diffTaskChanges(task, UpdateTaskInput{AssigneeID: strPtr("u-5")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityAssigned, changes[0].Type)
		assert.Nil(t, changes[0].OldValue)
	})

	t.Run("same assignee is noop", func(t *testing.T) {
		changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{AssigneeID: strPtr("u-2")})
		require.NoError(t, err)
		assert.Empty(t, changes)
	})
}

func TestDiffDueDateTransitions(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		task := baseTask()
		task.DueDate = nil
		changes, err := diffTaskChanges(task, UpdateTaskInput{DueDate: strPtr("2026-10-01")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityDueDateSet, changes[0].Type)
		assert.Equal(t, "2026-10-01", changes[0].NewValue["due_date"])
	})

	t.Run("change", func(t *testing.T) {
		changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{DueDate: strPtr("2026-10-01")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityDueDateChanged, changes[0].Type)
		assert.Equal(t, "2026-09-15", changes[0].OldValue["due_date"])
	})

	t.Run("remove", func(t *testing.T) {
		changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{DueDate: strPtr("")})
		require.NoError(t, err)
		require.Len(t, changes, 1)
		assert.Equal(t, ActivityDueDateRemoved, changes[0].Type)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := diffTaskChanges(baseTask(), UpdateTaskInput{DueDate: strPtr("01/10/2026")})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDiffGenericUpdateCollapses(t *testing.T) {
	// Title and description edits produce one generic UPDATED row, not one
	// per field.
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{
		Title:       strPtr("New title"),
		Description: strPtr("New description"),
	})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, ActivityUpdated, changes[0].Type)
}

func TestDiffMixedChanges(t *testing.T) {
	changes, err := diffTaskChanges(baseTask(), UpdateTaskInput{
		Status: strPtr(StatusInProgress),
		Title:  strPtr("Renamed"),
	})
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, ActivityStatusChanged, changes[0].Type)
	assert.Equal(t, ActivityUpdated, changes[1].Type)
}

func TestTaskOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC", taskOrderClause("", ""))
	assert.Equal(t, "created_at ASC", taskOrderClause("created_at", "asc"))
	assert.Equal(t, "title ASC, created_at DESC", taskOrderClause("title", "asc"))
	assert.Contains(t, taskOrderClause("priority", "desc"), "WHEN 'urgent' THEN 4")
	assert.Contains(t, taskOrderClause("status", "asc"), "WHEN 'done' THEN 4")
	// Unknown columns fall back to creation order.
	assert.Equal(t, "created_at DESC", taskOrderClause("evil; DROP TABLE", ""))
}
