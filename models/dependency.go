package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Dependency types.
const (
	DependencyBlocks    = "blocks"
	DependencyBlockedBy = "blocked_by"
	DependencyRelated   = "related"
)

type TaskDependency struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	DependsOnTaskID string    `json:"depends_on_task_id"`
	DependencyType  string    `json:"dependency_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// TaskDependencies is the three-bucket view returned by the list endpoint.
type TaskDependencies struct {
	Blocking  []TaskDependency `json:"blocking"`
	BlockedBy []TaskDependency `json:"blocked_by"`
	Related   []TaskDependency `json:"related"`
}

// AddDependency links task -> dependsOn. Self-links are invalid, duplicates
// conflict, and a link that already exists in the opposite direction is
// rejected as a cycle. Only direct two-node cycles are detected.
func AddDependency(db DBTX, userID, orgID, projectID, taskID, dependsOnTaskID, dependencyType string) (*TaskDependency, error) {
	if taskID == dependsOnTaskID {
		return nil, validationf("a task cannot depend on itself")
	}
	if dependencyType == "" {
		dependencyType = DependencyBlocks
	}
	switch dependencyType {
	case DependencyBlocks, DependencyBlockedBy, DependencyRelated:
	default:
		return nil, validationf("unknown dependency type %q", dependencyType)
	}

	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	// The target task may live in another project of the same org; the
	// caller still needs access to it.
	var targetProject string
	err := db.QueryRow(`
		SELECT project_id FROM tasks WHERE id = $1 AND organization_id = $2
	`, dependsOnTaskID, orgID).Scan(&targetProject)
	if err == sql.ErrNoRows {
		return nil, notFoundf("dependency target task not found")
	}
	if err != nil {
		return nil, err
	}
	if _, err := GetTask(db, userID, orgID, targetProject, dependsOnTaskID); err != nil {
		return nil, err
	}

	var exists bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM task_dependencies
			WHERE task_id = $1 AND depends_on_task_id = $2
		)
	`, taskID, dependsOnTaskID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictf("dependency already exists")
	}

	var reverse bool
	err = db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM task_dependencies
			WHERE task_id = $1 AND depends_on_task_id = $2
		)
	`, dependsOnTaskID, taskID).Scan(&reverse)
	if err != nil {
		return nil, err
	}
	if reverse {
		return nil, conflictf("circular dependency detected")
	}

	var d TaskDependency
	err = db.QueryRow(`
		INSERT INTO task_dependencies (id, task_id, depends_on_task_id, dependency_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, task_id, depends_on_task_id, dependency_type, created_at
	`, uuid.NewString(), taskID, dependsOnTaskID, dependencyType).
		Scan(&d.ID, &d.TaskID, &d.DependsOnTaskID, &d.DependencyType, &d.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &d, nil
}

// GetDependencies returns every edge touching the task, split into
// blocking, blocked_by and related.
func GetDependencies(db DBTX, userID, orgID, projectID, taskID string) (*TaskDependencies, error) {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id, task_id, depends_on_task_id, dependency_type, created_at
		FROM task_dependencies
		WHERE task_id = $1 OR depends_on_task_id = $1
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []TaskDependency
	for rows.Next() {
		var d TaskDependency
		if err := rows.Scan(&d.ID, &d.TaskID, &d.DependsOnTaskID, &d.DependencyType, &d.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return SplitDependencies(taskID, edges), nil
}

// SplitDependencies buckets edges relative to the given task. Only
// "blocks" edges feed the blocking and blocked_by buckets: where the
// task is the source it blocks the target, where it is the target it is
// blocked by the source. "related" edges land in one bucket regardless
// of direction; edges of other types are left out of the view.
func SplitDependencies(taskID string, edges []TaskDependency) *TaskDependencies {
	out := &TaskDependencies{
		Blocking:  []TaskDependency{},
		BlockedBy: []TaskDependency{},
		Related:   []TaskDependency{},
	}
	for _, e := range edges {
		switch {
		case e.DependencyType == DependencyRelated:
			out.Related = append(out.Related, e)
		case e.DependencyType != DependencyBlocks:
		case e.TaskID == taskID:
			out.Blocking = append(out.Blocking, e)
		default:
			out.BlockedBy = append(out.BlockedBy, e)
		}
	}
	return out
}

// RemoveDependency deletes the edge by its row id. The edge must touch
// the task named in the path, in either direction.
func RemoveDependency(db DBTX, userID, orgID, projectID, taskID, dependencyID string) error {
	if _, err := GetTask(db, userID, orgID, projectID, taskID); err != nil {
		return err
	}

	res, err := db.Exec(`
		DELETE FROM task_dependencies
		WHERE id = $1 AND (task_id = $2 OR depends_on_task_id = $2)
	`, dependencyID, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFoundf("dependency not found")
	}
	return nil
}
