package models

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"meroboard/utilities"
)

// TemplateTask is one task blueprint inside a project template. Offsets are
// days relative to instantiation time.
type TemplateTask struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      string   `json:"priority"`
	Tags          []string `json:"tags"`
	DueDateOffset *int     `json:"due_date_offset"`
	SortOrder     int      `json:"sort_order"`
}

type ProjectTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Keywords    []string       `json:"keywords"`
	Tasks       []TemplateTask `json:"tasks"`
	CreatedBy   sql.NullString `json:"-"`
	IsBuiltin   bool           `json:"is_builtin"`
	UsageCount  int            `json:"usage_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

type CreateProjectTemplateInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Keywords    []string       `json:"keywords"`
	Tasks       []TemplateTask `json:"tasks"`
}

// TemplateProject is one project blueprint inside a workspace template.
type TemplateProject struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	ProjectTemplateID string `json:"project_template_id,omitempty"`
}

type WorkspaceTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Projects    []TemplateProject `json:"projects"`
	CreatedBy   sql.NullString    `json:"-"`
	IsBuiltin   bool              `json:"is_builtin"`
	UsageCount  int               `json:"usage_count"`
	CreatedAt   time.Time         `json:"created_at"`
}

type CreateWorkspaceTemplateInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Projects    []TemplateProject `json:"projects"`
}

// keywordMappings routes free-text project names to a template name when no
// exact match exists. First hit wins, in declaration order.
var keywordMappings = []struct {
	Keyword  string
	Template string
}{
	{"backlog", "Product Backlog"},
	{"sprint", "Sprint Board"},
	{"kanban", "Kanban Board"},
	{"bug", "Bug Tracking"},
	{"feature", "Feature Development"},
	{"content", "Content Calendar"},
	{"event", "Event Planning"},
}

// categoryMappings routes a requested category to its default template.
var categoryMappings = map[string]string{
	"scrum":     "Sprint Board",
	"kanban":    "Kanban Board",
	"agile":     "Product Backlog",
	"marketing": "Content Calendar",
	"product":   "Feature Development",
}

// MatchProjectTemplate resolves which template to instantiate. The cascade:
// explicit id, exact name, keyword in the name, category default, then a
// fuzzy substring match either direction. Returns nil when nothing fits.
func MatchProjectTemplate(templates []ProjectTemplate, templateID, name, category string) *ProjectTemplate {
	if templateID != "" {
		for i := range templates {
			if templates[i].ID == templateID {
				return &templates[i]
			}
		}
		return nil
	}

	lowerName := strings.ToLower(name)

	for i := range templates {
		if strings.EqualFold(templates[i].Name, name) {
			return &templates[i]
		}
	}

	for _, m := range keywordMappings {
		if strings.Contains(lowerName, m.Keyword) {
			if t := findTemplateByName(templates, m.Template); t != nil {
				return t
			}
		}
	}

	if target, ok := categoryMappings[strings.ToLower(category)]; ok {
		if t := findTemplateByName(templates, target); t != nil {
			return t
		}
	}

	for i := range templates {
		tn := strings.ToLower(templates[i].Name)
		if lowerName != "" && (strings.Contains(tn, lowerName) || strings.Contains(lowerName, tn)) {
			return &templates[i]
		}
	}
	return nil
}

func findTemplateByName(templates []ProjectTemplate, name string) *ProjectTemplate {
	for i := range templates {
		if strings.EqualFold(templates[i].Name, name) {
			return &templates[i]
		}
	}
	return nil
}

const projectTemplateColumns = `id, name, description, category, keywords, tasks, created_by, is_builtin, usage_count, created_at`

func scanProjectTemplate(row interface{ Scan(...interface{}) error }) (*ProjectTemplate, error) {
	var t ProjectTemplate
	var keywordsRaw, tasksRaw []byte
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &keywordsRaw, &tasksRaw,
		&t.CreatedBy, &t.IsBuiltin, &t.UsageCount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Keywords = []string{}
	t.Tasks = []TemplateTask{}
	if len(keywordsRaw) > 0 {
		if err := json.Unmarshal(keywordsRaw, &t.Keywords); err != nil {
			return nil, err
		}
	}
	if len(tasksRaw) > 0 {
		if err := json.Unmarshal(tasksRaw, &t.Tasks); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// CreateProjectTemplate stores a user-defined template.
func CreateProjectTemplate(db DBTX, userID string, in CreateProjectTemplateInput) (*ProjectTemplate, error) {
	if in.Name == "" {
		return nil, validationf("template name is required")
	}
	keywords := in.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	tasks := in.Tasks
	if tasks == nil {
		tasks = []TemplateTask{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, err
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return nil, err
	}

	t, err := scanProjectTemplate(db.QueryRow(`
		INSERT INTO project_templates (id, name, description, category, keywords, tasks, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+projectTemplateColumns,
		uuid.NewString(), in.Name, in.Description, in.Category, keywordsJSON, tasksJSON, userID))
	if err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

// ListProjectTemplates returns builtin templates plus the caller's own.
func ListProjectTemplates(db DBTX, userID string) ([]ProjectTemplate, error) {
	rows, err := db.Query(`
		SELECT `+projectTemplateColumns+` FROM project_templates
		WHERE is_builtin = TRUE OR created_by = $1
		ORDER BY usage_count DESC, name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []ProjectTemplate{}
	for rows.Next() {
		t, err := scanProjectTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetProjectTemplate loads one template visible to the caller.
func GetProjectTemplate(db DBTX, userID, templateID string) (*ProjectTemplate, error) {
	t, err := scanProjectTemplate(db.QueryRow(`
		SELECT `+projectTemplateColumns+` FROM project_templates
		WHERE id = $1 AND (is_builtin = TRUE OR created_by = $2)
	`, templateID, userID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("template not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteProjectTemplate removes a user template. Builtins are immutable.
func DeleteProjectTemplate(db DBTX, userID, templateID string) error {
	t, err := GetProjectTemplate(db, userID, templateID)
	if err != nil {
		return err
	}
	if t.IsBuiltin {
		return forbiddenf("builtin templates cannot be deleted")
	}
	if !t.CreatedBy.Valid || t.CreatedBy.String != userID {
		return forbiddenf("only the template creator can delete it")
	}
	_, err = db.Exec(`DELETE FROM project_templates WHERE id = $1`, templateID)
	return err
}

// UseProjectTemplate instantiates a template into a new project with its
// tasks, inside one transaction. Template resolution follows the matching
// cascade when template_id is empty.
func UseProjectTemplate(db *sql.DB, userID, orgID string, templateID, name, category string, workspaceID *string) (*Project, error) {
	templates, err := ListProjectTemplates(db, userID)
	if err != nil {
		return nil, err
	}

	tmpl := MatchProjectTemplate(templates, templateID, name, category)
	if tmpl == nil {
		return nil, notFoundf("no matching template")
	}

	projectName := name
	if projectName == "" {
		projectName = tmpl.Name
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := CreateProject(tx, userID, orgID, CreateProjectInput{
		WorkspaceID: workspaceID,
		Name:        projectName,
		Description: tmpl.Description,
		Status:      ProjectActive,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, tt := range tmpl.Tasks {
		priority := tt.Priority
		if priority == "" {
			priority = PriorityMedium
		}
		var due *time.Time
		if tt.DueDateOffset != nil {
			d := now.AddDate(0, 0, *tt.DueDateOffset)
			due = &d
		}
		if _, err := CreateTask(tx, userID, orgID, p.ID, CreateTaskInput{
			Title:       tt.Title,
			Description: tt.Description,
			Priority:    priority,
			Tags:        tt.Tags,
			DueDate:     due,
			SortOrder:   tt.SortOrder,
		}); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(`
		UPDATE project_templates SET usage_count = usage_count + 1 WHERE id = $1
	`, tmpl.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

const workspaceTemplateColumns = `id, name, description, category, projects, created_by, is_builtin, usage_count, created_at`

func scanWorkspaceTemplate(row interface{ Scan(...interface{}) error }) (*WorkspaceTemplate, error) {
	var t WorkspaceTemplate
	var projectsRaw []byte
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &projectsRaw,
		&t.CreatedBy, &t.IsBuiltin, &t.UsageCount, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Projects = []TemplateProject{}
	if len(projectsRaw) > 0 {
		if err := json.Unmarshal(projectsRaw, &t.Projects); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// CreateWorkspaceTemplate stores a user-defined workspace template.
func CreateWorkspaceTemplate(db DBTX, userID string, in CreateWorkspaceTemplateInput) (*WorkspaceTemplate, error) {
	if in.Name == "" {
		return nil, validationf("template name is required")
	}
	projects := in.Projects
	if projects == nil {
		projects = []TemplateProject{}
	}
	projectsJSON, err := json.Marshal(projects)
	if err != nil {
		return nil, err
	}

	t, err := scanWorkspaceTemplate(db.QueryRow(`
		INSERT INTO workspace_templates (id, name, description, category, projects, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+workspaceTemplateColumns,
		uuid.NewString(), in.Name, in.Description, in.Category, projectsJSON, userID))
	if err != nil {
		return nil, mapDBError(err)
	}
	return t, nil
}

// ListWorkspaceTemplates returns builtin templates plus the caller's own.
func ListWorkspaceTemplates(db DBTX, userID string) ([]WorkspaceTemplate, error) {
	rows, err := db.Query(`
		SELECT `+workspaceTemplateColumns+` FROM workspace_templates
		WHERE is_builtin = TRUE OR created_by = $1
		ORDER BY usage_count DESC, name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []WorkspaceTemplate{}
	for rows.Next() {
		t, err := scanWorkspaceTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetWorkspaceTemplate loads one template visible to the caller.
func GetWorkspaceTemplate(db DBTX, userID, templateID string) (*WorkspaceTemplate, error) {
	t, err := scanWorkspaceTemplate(db.QueryRow(`
		SELECT `+workspaceTemplateColumns+` FROM workspace_templates
		WHERE id = $1 AND (is_builtin = TRUE OR created_by = $2)
	`, templateID, userID))
	if err == sql.ErrNoRows {
		return nil, notFoundf("template not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteWorkspaceTemplate removes a user template. Builtins are immutable.
func DeleteWorkspaceTemplate(db DBTX, userID, templateID string) error {
	t, err := GetWorkspaceTemplate(db, userID, templateID)
	if err != nil {
		return err
	}
	if t.IsBuiltin {
		return forbiddenf("builtin templates cannot be deleted")
	}
	if !t.CreatedBy.Valid || t.CreatedBy.String != userID {
		return forbiddenf("only the template creator can delete it")
	}
	_, err = db.Exec(`DELETE FROM workspace_templates WHERE id = $1`, templateID)
	return err
}

// UseWorkspaceTemplate creates a workspace and its template projects in one
// transaction. Project entries that reference a project template also get
// that template's tasks.
func UseWorkspaceTemplate(db *sql.DB, userID, orgID, templateID, name string) (*Workspace, error) {
	tmpl, err := GetWorkspaceTemplate(db, userID, templateID)
	if err != nil {
		return nil, err
	}

	workspaceName := name
	if workspaceName == "" {
		workspaceName = tmpl.Name
	}

	projectTemplates, err := ListProjectTemplates(db, userID)
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := createWorkspaceInTx(tx, userID, orgID, userID, workspaceName, tmpl.Description, tmpl.Category)
	if err != nil {
		return nil, err
	}

	for _, tp := range tmpl.Projects {
		wsID := w.ID
		p, err := CreateProject(tx, userID, orgID, CreateProjectInput{
			WorkspaceID: &wsID,
			Name:        tp.Name,
			Description: tp.Description,
			Status:      ProjectActive,
		})
		if err != nil {
			return nil, err
		}

		pt := MatchProjectTemplate(projectTemplates, tp.ProjectTemplateID, tp.Name, tmpl.Category)
		if pt == nil {
			// An unmatched entry still gets its project, just empty.
			utilities.Log.WithField("op", "models.UseWorkspaceTemplate").
				WithField("project", tp.Name).
				Warn("no project template matched, leaving project empty")
			continue
		}
		now := time.Now().UTC()
		for _, tt := range pt.Tasks {
			priority := tt.Priority
			if priority == "" {
				priority = PriorityMedium
			}
			var due *time.Time
			if tt.DueDateOffset != nil {
				d := now.AddDate(0, 0, *tt.DueDateOffset)
				due = &d
			}
			if _, err := CreateTask(tx, userID, orgID, p.ID, CreateTaskInput{
				Title:       tt.Title,
				Description: tt.Description,
				Priority:    priority,
				Tags:        tt.Tags,
				DueDate:     due,
				SortOrder:   tt.SortOrder,
			}); err != nil {
				return nil, err
			}
		}
	}

	if _, err := tx.Exec(`
		UPDATE workspace_templates SET usage_count = usage_count + 1 WHERE id = $1
	`, tmpl.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}
