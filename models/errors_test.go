package models

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestMapDBErrorUniqueViolation(t *testing.T) {
	err := mapDBError(&pq.Error{Code: "23505", Constraint: "workspace_members_workspace_id_user_id_key"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMapDBErrorPassthrough(t *testing.T) {
	assert.NoError(t, mapDBError(nil))

	plain := errors.New("disk on fire")
	assert.Equal(t, plain, mapDBError(plain))

	fk := &pq.Error{Code: "23503"}
	assert.NotErrorIs(t, mapDBError(fk), ErrConflict)
}

func TestErrorConstructorsWrapSentinels(t *testing.T) {
	assert.ErrorIs(t, notFoundf("task not found"), ErrNotFound)
	assert.ErrorIs(t, forbiddenf("nope"), ErrForbidden)
	assert.ErrorIs(t, conflictf("duplicate"), ErrConflict)
	assert.ErrorIs(t, validationf("bad %q", "input"), ErrValidation)
	assert.Contains(t, validationf("bad %q", "input").Error(), `bad "input"`)
}
