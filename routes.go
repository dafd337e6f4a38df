package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/handlers"
)

// NewRouter wires the full HTTP surface. Everything under /apps/{app_slug}
// requires a valid token; the health check does not.
func NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/apps/{app_slug}").Subrouter()
	api.Use(handlers.AuthMiddleware)

	api.HandleFunc("/users", handlers.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/me", handlers.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/users/{user_id}", handlers.GetUser).Methods(http.MethodGet)

	api.HandleFunc("/workspaces", handlers.CreateWorkspace).Methods(http.MethodPost)
	api.HandleFunc("/workspaces", handlers.ListWorkspaces).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspace_id}", handlers.GetWorkspace).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspace_id}", handlers.UpdateWorkspace).Methods(http.MethodPatch)
	api.HandleFunc("/workspaces/{workspace_id}", handlers.DeleteWorkspace).Methods(http.MethodDelete)
	api.HandleFunc("/workspaces/{workspace_id}/members", handlers.ListWorkspaceMembers).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspace_id}/members", handlers.InviteMember).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{workspace_id}/members/{member_id}", handlers.UpdateMemberRole).Methods(http.MethodPatch)
	api.HandleFunc("/workspaces/{workspace_id}/members/{member_id}", handlers.RemoveMember).Methods(http.MethodDelete)
	api.HandleFunc("/workspaces/{workspace_id}/report", handlers.GetWorkspaceReport).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{workspace_id}/productivity", handlers.GetTeamProductivity).Methods(http.MethodGet)

	api.HandleFunc("/projects", handlers.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects", handlers.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}", handlers.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}", handlers.UpdateProject).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{project_id}", handlers.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{project_id}/report", handlers.GetProjectReport).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/time-report", handlers.GetProjectTimeReport).Methods(http.MethodGet)

	api.HandleFunc("/projects/{project_id}/epics", handlers.CreateEpic).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/epics", handlers.ListEpics).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/epics/{epic_id}", handlers.GetEpic).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/epics/{epic_id}", handlers.UpdateEpic).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{project_id}/epics/{epic_id}", handlers.DeleteEpic).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks", handlers.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks", handlers.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}", handlers.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}", handlers.UpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}", handlers.DeleteTask).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/assignees", handlers.ListTaskAssignees).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/assignees", handlers.AddTaskAssignee).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/assignees/{user_id}", handlers.RemoveTaskAssignee).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/comments", handlers.CreateComment).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/comments", handlers.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/comments/{comment_id}", handlers.UpdateComment).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/comments/{comment_id}", handlers.DeleteComment).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/attachments", handlers.AddAttachment).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/attachments", handlers.ListAttachments).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/attachments/{attachment_id}", handlers.DeleteAttachment).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/dependencies", handlers.AddDependency).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/dependencies", handlers.GetDependencies).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/dependencies/{dependency_id}", handlers.RemoveDependency).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/time-logs", handlers.LogTime).Methods(http.MethodPost)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/time-logs", handlers.ListTimeLogs).Methods(http.MethodGet)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/time-logs/{log_id}", handlers.UpdateTimeLog).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/time-logs/{log_id}", handlers.DeleteTimeLog).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{project_id}/tasks/{task_id}/activities", handlers.ListTaskActivities).Methods(http.MethodGet)

	api.HandleFunc("/project-templates", handlers.CreateProjectTemplate).Methods(http.MethodPost)
	api.HandleFunc("/project-templates", handlers.ListProjectTemplates).Methods(http.MethodGet)
	api.HandleFunc("/project-templates/use", handlers.UseProjectTemplate).Methods(http.MethodPost)
	api.HandleFunc("/project-templates/{template_id}", handlers.GetProjectTemplate).Methods(http.MethodGet)
	api.HandleFunc("/project-templates/{template_id}", handlers.DeleteProjectTemplate).Methods(http.MethodDelete)

	api.HandleFunc("/workspace-templates", handlers.CreateWorkspaceTemplate).Methods(http.MethodPost)
	api.HandleFunc("/workspace-templates", handlers.ListWorkspaceTemplates).Methods(http.MethodGet)
	api.HandleFunc("/workspace-templates/{template_id}", handlers.GetWorkspaceTemplate).Methods(http.MethodGet)
	api.HandleFunc("/workspace-templates/{template_id}", handlers.DeleteWorkspaceTemplate).Methods(http.MethodDelete)
	api.HandleFunc("/workspace-templates/{template_id}/use", handlers.UseWorkspaceTemplate).Methods(http.MethodPost)

	api.HandleFunc("/notifications", handlers.ListNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", handlers.MarkAllNotificationsRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{notification_id}/read", handlers.MarkNotificationRead).Methods(http.MethodPost)

	return r
}
