package models

import "math"

// minutesToHours converts logged minutes to hours rounded to two decimals.
func minutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// completionRate is done/total as a percentage, 0 when total is zero.
func completionRate(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*10000) / 100
}

// ProjectReport summarizes one project's tasks and logged time.
type ProjectReport struct {
	ProjectID       string         `json:"project_id"`
	ProjectName     string         `json:"project_name"`
	TotalTasks      int            `json:"total_tasks"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	TasksByPriority map[string]int `json:"tasks_by_priority"`
	CompletionRate  float64        `json:"completion_rate"`
	OverdueTasks    int            `json:"overdue_tasks"`
	TotalMinutes    int            `json:"total_minutes"`
	TotalHours      float64        `json:"total_hours"`
	ActiveAssignees int            `json:"active_assignees"`
}

// GetProjectReport builds the per-project summary with SQL aggregation.
func GetProjectReport(db DBTX, userID, orgID, projectID string) (*ProjectReport, error) {
	p, err := GetProject(db, userID, orgID, projectID)
	if err != nil {
		return nil, err
	}

	report := &ProjectReport{
		ProjectID:       p.ID,
		ProjectName:     p.Name,
		TasksByStatus:   map[string]int{},
		TasksByPriority: map[string]int{},
	}

	statusRows, err := db.Query(`
		SELECT status, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY status
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		report.TasksByStatus[status] = count
		report.TotalTasks += count
	}
	if err := statusRows.Err(); err != nil {
		return nil, err
	}

	priorityRows, err := db.Query(`
		SELECT priority, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY priority
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer priorityRows.Close()
	for priorityRows.Next() {
		var priority string
		var count int
		if err := priorityRows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		report.TasksByPriority[priority] = count
	}
	if err := priorityRows.Err(); err != nil {
		return nil, err
	}

	report.CompletionRate = completionRate(report.TasksByStatus[StatusDone], report.TotalTasks)

	err = db.QueryRow(`
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1 AND due_date < CURRENT_DATE AND status <> 'done'
	`, projectID).Scan(&report.OverdueTasks)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow(`
		SELECT COALESCE(SUM(l.minutes), 0)
		FROM task_time_logs l
		JOIN tasks t ON t.id = l.task_id
		WHERE t.project_id = $1
	`, projectID).Scan(&report.TotalMinutes)
	if err != nil {
		return nil, err
	}
	report.TotalHours = minutesToHours(report.TotalMinutes)

	err = db.QueryRow(`
		SELECT COUNT(DISTINCT assignee_id) FROM tasks
		WHERE project_id = $1 AND assignee_id IS NOT NULL
	`, projectID).Scan(&report.ActiveAssignees)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// WorkspaceReport rolls project summaries up across a workspace.
type WorkspaceReport struct {
	WorkspaceID    string          `json:"workspace_id"`
	WorkspaceName  string          `json:"workspace_name"`
	ProjectCount   int             `json:"project_count"`
	MemberCount    int             `json:"member_count"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	CompletionRate float64         `json:"completion_rate"`
	TotalMinutes   int             `json:"total_minutes"`
	TotalHours     float64         `json:"total_hours"`
	Projects       []ProjectReport `json:"projects"`
}

// GetWorkspaceReport aggregates every project in the workspace. Requires
// membership.
func GetWorkspaceReport(db DBTX, userID, orgID, workspaceID string) (*WorkspaceReport, error) {
	w, err := GetWorkspace(db, userID, orgID, workspaceID)
	if err != nil {
		return nil, err
	}

	report := &WorkspaceReport{
		WorkspaceID:   w.ID,
		WorkspaceName: w.Name,
		Projects:      []ProjectReport{},
	}

	err = db.QueryRow(`
		SELECT COUNT(*) FROM workspace_members WHERE workspace_id = $1 AND is_active = TRUE
	`, workspaceID).Scan(&report.MemberCount)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id FROM projects WHERE workspace_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`, workspaceID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projectIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		projectIDs = append(projectIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range projectIDs {
		pr, err := GetProjectReport(db, userID, orgID, id)
		if err != nil {
			return nil, err
		}
		report.Projects = append(report.Projects, *pr)
		report.TotalTasks += pr.TotalTasks
		report.CompletedTasks += pr.TasksByStatus[StatusDone]
		report.TotalMinutes += pr.TotalMinutes
	}

	report.ProjectCount = len(projectIDs)
	report.CompletionRate = completionRate(report.CompletedTasks, report.TotalTasks)
	report.TotalHours = minutesToHours(report.TotalMinutes)
	return report, nil
}

// MemberProductivity is one active member's slice of the team report.
type MemberProductivity struct {
	UserID         string  `json:"user_id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Role           string  `json:"role"`
	AssignedTasks  int     `json:"assigned_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	LoggedMinutes  int     `json:"logged_minutes"`
	LoggedHours    float64 `json:"logged_hours"`
}

// GetTeamProductivity reports per-member task and time totals for every
// active workspace member.
func GetTeamProductivity(db DBTX, userID, orgID, workspaceID string) ([]MemberProductivity, error) {
	if _, err := GetWorkspace(db, userID, orgID, workspaceID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT m.user_id, u.email, u.first_name, u.last_name, m.role,
			COUNT(t.id),
			COUNT(t.id) FILTER (WHERE t.status = 'done')
		FROM workspace_members m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN projects p ON p.workspace_id = m.workspace_id
		LEFT JOIN tasks t ON t.project_id = p.id AND t.assignee_id = m.user_id
		WHERE m.workspace_id = $1 AND m.is_active = TRUE
		GROUP BY m.user_id, u.email, u.first_name, u.last_name, m.role
		ORDER BY u.email ASC
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []MemberProductivity{}
	for rows.Next() {
		var m MemberProductivity
		if err := rows.Scan(&m.UserID, &m.Email, &m.FirstName, &m.LastName, &m.Role,
			&m.AssignedTasks, &m.CompletedTasks); err != nil {
			return nil, err
		}
		m.CompletionRate = completionRate(m.CompletedTasks, m.AssignedTasks)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logRows, err := db.Query(`
		SELECT l.user_id, SUM(l.minutes)
		FROM task_time_logs l
		JOIN tasks t ON t.id = l.task_id
		JOIN projects p ON p.id = t.project_id
		WHERE p.workspace_id = $1
		GROUP BY l.user_id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer logRows.Close()

	minutesByUser := map[string]int{}
	for logRows.Next() {
		var id string
		var minutes int
		if err := logRows.Scan(&id, &minutes); err != nil {
			return nil, err
		}
		minutesByUser[id] = minutes
	}
	if err := logRows.Err(); err != nil {
		return nil, err
	}

	for i := range members {
		members[i].LoggedMinutes = minutesByUser[members[i].UserID]
		members[i].LoggedHours = minutesToHours(members[i].LoggedMinutes)
	}
	return members, nil
}
