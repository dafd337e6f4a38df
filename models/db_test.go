package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClamping(t *testing.T) {
	p := NewPage(0, 0, 20)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 20, p.Limit)

	p = NewPage(-3, -1, 20)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 20, p.Limit)

	p = NewPage(2, 500, 20)
	assert.Equal(t, 100, p.Limit)

	p = NewPage(3, 10, 20)
	assert.Equal(t, 20, p.Offset())
}

func TestNewListMeta(t *testing.T) {
	m := NewListMeta(0, 1, 20)
	assert.Equal(t, 0, m.TotalPages)

	m = NewListMeta(41, 1, 20)
	assert.Equal(t, 3, m.TotalPages)

	m = NewListMeta(40, 2, 20)
	assert.Equal(t, 2, m.TotalPages)
	assert.Equal(t, 2, m.Page)
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, "w.id, w.name", prefixColumns("w", "id, name"))
	assert.Equal(t, "t.id", prefixColumns("t", "id"))
}
