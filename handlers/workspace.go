package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateWorkspace"

	var in models.CreateWorkspaceInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	ws, err := models.CreateWorkspace(database.DB, UserID(r), OrgID(r), in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ws)
}

func ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListWorkspaces"

	page := parsePage(r)
	workspaces, total, err := models.ListWorkspaces(database.DB, UserID(r), OrgID(r), page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if workspaces == nil {
		workspaces = []models.Workspace{}
	}
	WriteList(w, workspaces, total, page)
}

func GetWorkspace(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetWorkspace"

	ws, err := models.GetWorkspace(database.DB, UserID(r), OrgID(r), mux.Vars(r)["workspace_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

func UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateWorkspace"

	var in models.UpdateWorkspaceInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	ws, err := models.UpdateWorkspace(database.DB, UserID(r), OrgID(r), mux.Vars(r)["workspace_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, ws)
}

func DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteWorkspace"

	if err := models.DeleteWorkspace(database.DB, UserID(r), OrgID(r), mux.Vars(r)["workspace_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func ListWorkspaceMembers(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListWorkspaceMembers"

	members, err := models.ListWorkspaceMembers(database.DB, UserID(r), mux.Vars(r)["workspace_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if members == nil {
		members = []models.WorkspaceMember{}
	}
	WriteJSON(w, http.StatusOK, members)
}

func InviteMember(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.InviteMember"

	var in models.InviteMemberInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	m, err := models.InviteMember(database.DB, UserID(r), mux.Vars(r)["workspace_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, m)
}

func UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateMemberRole"

	var in struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	m, err := models.UpdateMemberRole(database.DB, UserID(r), vars["workspace_id"], vars["member_id"], in.Role)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

func RemoveMember(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.RemoveMember"

	vars := mux.Vars(r)
	if err := models.RemoveMember(database.DB, UserID(r), vars["workspace_id"], vars["member_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func GetWorkspaceReport(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetWorkspaceReport"

	report, err := models.GetWorkspaceReport(database.DB, UserID(r), OrgID(r), mux.Vars(r)["workspace_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

func GetTeamProductivity(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetTeamProductivity"

	members, err := models.GetTeamProductivity(database.DB, UserID(r), OrgID(r), mux.Vars(r)["workspace_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, members)
}
