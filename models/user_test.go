package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"}
	assert.Equal(t, "Ana Silva", u.FullName())

	// Users without a name fall back to the email.
	u = &User{Email: "ana@example.com"}
	assert.Equal(t, "ana@example.com", u.FullName())

	var missing *User
	assert.Equal(t, "Someone", missing.FullName())
}
