package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, completionRate(0, 0))
	assert.Equal(t, 0.0, completionRate(0, 10))
	assert.Equal(t, 100.0, completionRate(10, 10))
	assert.Equal(t, 50.0, completionRate(5, 10))
	assert.Equal(t, 33.33, completionRate(1, 3))
	assert.Equal(t, 66.67, completionRate(2, 3))
}

func TestMinutesToHours(t *testing.T) {
	assert.Equal(t, 0.0, minutesToHours(0))
	assert.Equal(t, 1.0, minutesToHours(60))
	assert.Equal(t, 1.5, minutesToHours(90))
	assert.Equal(t, 0.17, minutesToHours(10))
	assert.Equal(t, 2.25, minutesToHours(135))
}
