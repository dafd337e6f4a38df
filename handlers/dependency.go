package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func AddDependency(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.AddDependency"

	var in struct {
		DependsOnTaskID string `json:"depends_on_task_id"`
		DependencyType  string `json:"dependency_type"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	d, err := models.AddDependency(database.DB, UserID(r), OrgID(r),
		vars["project_id"], vars["task_id"], in.DependsOnTaskID, in.DependencyType)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, d)
}

func GetDependencies(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetDependencies"

	vars := mux.Vars(r)
	deps, err := models.GetDependencies(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, deps)
}

func RemoveDependency(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.RemoveDependency"

	vars := mux.Vars(r)
	if err := models.RemoveDependency(database.DB, UserID(r), OrgID(r),
		vars["project_id"], vars["task_id"], vars["dependency_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}
