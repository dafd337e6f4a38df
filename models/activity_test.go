package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityDescription(t *testing.T) {
	assert.Equal(t, "Task created", ActivityDescription(ActivityCreated, nil))
	assert.Equal(t, "Status changed to done",
		ActivityDescription(ActivityStatusChanged, map[string]interface{}{"new_status": "done"}))
	assert.Equal(t, "Status changed to unknown",
		ActivityDescription(ActivityStatusChanged, nil))
	assert.Equal(t, "Priority changed to urgent",
		ActivityDescription(ActivityPriorityChanged, map[string]interface{}{"new_priority": "urgent"}))
	assert.Equal(t, "Attachment added: spec.pdf",
		ActivityDescription(ActivityAttachmentAdded, map[string]interface{}{"file_name": "spec.pdf"}))
	assert.Equal(t, "Attachment removed: file",
		ActivityDescription(ActivityAttachmentRemoved, nil))
	assert.Equal(t, "Task updated", ActivityDescription("something_new", nil))
}
