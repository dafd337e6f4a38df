package database

import "database/sql"

// Schema holds the full DDL for the board tables. Task child rows
// (comments, attachments, activities, dependencies, time logs, assignees)
// cascade on task deletion; workspace members cascade on workspace deletion.
const Schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id         UUID PRIMARY KEY,
	name       VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id         UUID PRIMARY KEY,
	email      VARCHAR(255) NOT NULL UNIQUE,
	first_name VARCHAR(100) NOT NULL DEFAULT '',
	last_name  VARCHAR(100) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS workspaces (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	name            VARCHAR(255) NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	category        VARCHAR(100) NOT NULL DEFAULT '',
	created_by      UUID NOT NULL REFERENCES users(id),
	owner_id        UUID NOT NULL REFERENCES users(id),
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	sort_order      INT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_workspaces_org ON workspaces(organization_id);

CREATE TABLE IF NOT EXISTS workspace_members (
	id           UUID PRIMARY KEY,
	workspace_id UUID NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
	user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role         VARCHAR(20) NOT NULL DEFAULT 'member',
	invited_by   UUID REFERENCES users(id),
	is_active    BOOLEAN NOT NULL DEFAULT TRUE,
	joined_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (workspace_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_members_user ON workspace_members(user_id);

CREATE TABLE IF NOT EXISTS projects (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	workspace_id    UUID REFERENCES workspaces(id) ON DELETE CASCADE,
	name            VARCHAR(255) NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	status          VARCHAR(20) NOT NULL DEFAULT 'planning',
	created_by      UUID NOT NULL REFERENCES users(id),
	owner_id        UUID NOT NULL REFERENCES users(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_projects_workspace ON projects(workspace_id);
CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id);

CREATE TABLE IF NOT EXISTS epics (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	project_id      UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	name            VARCHAR(255) NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	status          VARCHAR(20) NOT NULL DEFAULT 'planning',
	start_date      DATE,
	end_date        DATE,
	created_by      UUID NOT NULL REFERENCES users(id),
	assignee_id     UUID REFERENCES users(id),
	sort_order      INT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_epics_project ON epics(project_id);

CREATE TABLE IF NOT EXISTS tasks (
	id              UUID PRIMARY KEY,
	organization_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	project_id      UUID REFERENCES projects(id) ON DELETE CASCADE,
	epic_id         UUID REFERENCES epics(id) ON DELETE SET NULL,
	title           VARCHAR(255) NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	status          VARCHAR(20) NOT NULL DEFAULT 'todo',
	priority        VARCHAR(20) NOT NULL DEFAULT 'medium',
	created_by      UUID NOT NULL REFERENCES users(id),
	assignee_id     UUID REFERENCES users(id),
	due_date        DATE,
	estimated_hours INT,
	actual_hours    INT,
	tags            TEXT[] NOT NULL DEFAULT '{}',
	sort_order      INT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_org ON tasks(organization_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS task_assignees (
	task_id UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	PRIMARY KEY (task_id, user_id)
);

CREATE TABLE IF NOT EXISTS task_dependencies (
	id                 UUID PRIMARY KEY,
	task_id            UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	depends_on_task_id UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	dependency_type    VARCHAR(20) NOT NULL DEFAULT 'blocks',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (task_id, depends_on_task_id)
);

CREATE TABLE IF NOT EXISTS task_comments (
	id                UUID PRIMARY KEY,
	task_id           UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id           UUID NOT NULL REFERENCES users(id),
	parent_comment_id UUID REFERENCES task_comments(id) ON DELETE SET NULL,
	content           TEXT NOT NULL,
	is_edited         BOOLEAN NOT NULL DEFAULT FALSE,
	is_deleted        BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_comments_task ON task_comments(task_id);

CREATE TABLE IF NOT EXISTS task_attachments (
	id          UUID PRIMARY KEY,
	task_id     UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	uploaded_by UUID NOT NULL REFERENCES users(id),
	file_name   VARCHAR(255) NOT NULL,
	file_url    TEXT NOT NULL,
	file_size   BIGINT NOT NULL DEFAULT 0,
	mime_type   VARCHAR(100) NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS task_activities (
	id            UUID PRIMARY KEY,
	task_id       UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id       UUID NOT NULL REFERENCES users(id),
	activity_type VARCHAR(50) NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	old_value     JSONB,
	new_value     JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_activities_task ON task_activities(task_id);

CREATE TABLE IF NOT EXISTS task_time_logs (
	id          UUID PRIMARY KEY,
	task_id     UUID NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id     UUID NOT NULL REFERENCES users(id),
	minutes     INT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_billable BOOLEAN NOT NULL DEFAULT FALSE,
	logged_date DATE NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_time_logs_task ON task_time_logs(task_id);

CREATE TABLE IF NOT EXISTS project_templates (
	id          UUID PRIMARY KEY,
	name        VARCHAR(255) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	category    VARCHAR(100) NOT NULL DEFAULT '',
	keywords    JSONB NOT NULL DEFAULT '[]',
	tasks       JSONB NOT NULL DEFAULT '[]',
	created_by  UUID REFERENCES users(id) ON DELETE SET NULL,
	is_builtin  BOOLEAN NOT NULL DEFAULT FALSE,
	usage_count INT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS workspace_templates (
	id          UUID PRIMARY KEY,
	name        VARCHAR(255) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	category    VARCHAR(100) NOT NULL DEFAULT '',
	projects    JSONB NOT NULL DEFAULT '[]',
	created_by  UUID REFERENCES users(id) ON DELETE SET NULL,
	is_builtin  BOOLEAN NOT NULL DEFAULT FALSE,
	usage_count INT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	type       VARCHAR(50) NOT NULL,
	title      VARCHAR(255) NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	data       JSONB,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
`

// EnsureSchema applies the DDL. Statements are idempotent so it is safe to
// run on every startup; real deployments run migrations out of band.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
