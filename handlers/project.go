package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

// projectView attaches the nullable workspace reference to the JSON shape.
type projectView struct {
	models.Project
	WorkspaceID *string `json:"workspace_id"`
}

func viewProject(p *models.Project) projectView {
	return projectView{Project: *p, WorkspaceID: p.WorkspaceRef()}
}

func CreateProject(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateProject"

	var in models.CreateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	p, err := models.CreateProject(database.DB, UserID(r), OrgID(r), in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, viewProject(p))
}

func ListProjects(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListProjects"

	var workspaceID *string
	if ws := r.URL.Query().Get("workspace_id"); ws != "" {
		workspaceID = &ws
	}

	page := parsePage(r)
	projects, total, err := models.ListProjects(database.DB, UserID(r), OrgID(r), workspaceID, page)
	if err != nil {
		WriteError(w, op, err)
		return
	}

	views := make([]projectView, 0, len(projects))
	for i := range projects {
		views = append(views, viewProject(&projects[i]))
	}
	WriteList(w, views, total, page)
}

func GetProject(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetProject"

	p, err := models.GetProject(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewProject(p))
}

func UpdateProject(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateProject"

	var in models.UpdateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	p, err := models.UpdateProject(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewProject(p))
}

func DeleteProject(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteProject"

	if err := models.DeleteProject(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func GetProjectReport(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetProjectReport"

	report, err := models.GetProjectReport(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func GetProjectTimeReport(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetProjectTimeReport"

	q := r.URL.Query()
	report, err := models.GetProjectTimeReport(database.DB, UserID(r), OrgID(r),
		mux.Vars(r)["project_id"], q.Get("from"), q.Get("to"))
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
