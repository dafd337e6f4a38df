package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func CreateProjectTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateProjectTemplate"

	var in models.CreateProjectTemplateInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	t, err := models.CreateProjectTemplate(database.DB, UserID(r), in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, t)
}

func ListProjectTemplates(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListProjectTemplates"

	templates, err := models.ListProjectTemplates(database.DB, UserID(r))
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, templates)
}

func GetProjectTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetProjectTemplate"

	t, err := models.GetProjectTemplate(database.DB, UserID(r), mux.Vars(r)["template_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func DeleteProjectTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteProjectTemplate"

	if err := models.DeleteProjectTemplate(database.DB, UserID(r), mux.Vars(r)["template_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

// UseProjectTemplate creates a project from a template. Resolution falls
// back from explicit id to name and category matching.
func UseProjectTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UseProjectTemplate"

	var in struct {
		TemplateID  string  `json:"template_id"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		WorkspaceID *string `json:"workspace_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	p, err := models.UseProjectTemplate(database.DB, UserID(r), OrgID(r), in.TemplateID, in.Name, in.Category, in.WorkspaceID)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, viewProject(p))
}

func CreateWorkspaceTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateWorkspaceTemplate"

	var in models.CreateWorkspaceTemplateInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	t, err := models.CreateWorkspaceTemplate(database.DB, UserID(r), in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, t)
}

func ListWorkspaceTemplates(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListWorkspaceTemplates"

	templates, err := models.ListWorkspaceTemplates(database.DB, UserID(r))
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, templates)
}

func GetWorkspaceTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetWorkspaceTemplate"

	t, err := models.GetWorkspaceTemplate(database.DB, UserID(r), mux.Vars(r)["template_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func DeleteWorkspaceTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteWorkspaceTemplate"

	if err := models.DeleteWorkspaceTemplate(database.DB, UserID(r), mux.Vars(r)["template_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

// UseWorkspaceTemplate creates a workspace plus its template projects.
func UseWorkspaceTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UseWorkspaceTemplate"

	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	ws, err := models.UseWorkspaceTemplate(database.DB, UserID(r), OrgID(r), mux.Vars(r)["template_id"], in.Name)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ws)
}
