package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meroboard/models"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", validationError("bad input"), 400},
		{"forbidden", wrap(models.ErrForbidden), 403},
		{"not found", wrap(models.ErrNotFound), 404},
		{"conflict", wrap(models.ErrConflict), 409},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, "handlers.test", tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "handlers.test", errors.New("password=hunter2 leaked"))

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, []string{"a", "b"}, 12, models.NewPage(2, 5, 20))

	var envelope struct {
		Data []string        `json:"data"`
		Meta models.ListMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"a", "b"}, envelope.Data)
	assert.Equal(t, 12, envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.Page)
	assert.Equal(t, 5, envelope.Meta.Limit)
	assert.Equal(t, 3, envelope.Meta.TotalPages)
}

func TestParsePage(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?page=3&limit=50", nil)
	p := parsePage(r)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 50, p.Limit)

	r = httptest.NewRequest("GET", "/x", nil)
	p = parsePage(r)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, defaultPageLimit, p.Limit)

	r = httptest.NewRequest("GET", "/x?page=-1&limit=9999", nil)
	p = parsePage(r)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 100, p.Limit)
}

func wrap(sentinel error) error {
	return &wrappedError{msg: "wrapped", sentinel: sentinel}
}
