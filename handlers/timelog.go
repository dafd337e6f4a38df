package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func LogTime(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.LogTime"

	var in models.LogTimeInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	l, err := models.LogTime(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, l)
}

func ListTimeLogs(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListTimeLogs"

	vars := mux.Vars(r)
	page := parsePage(r)
	logs, total, err := models.ListTimeLogs(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if logs == nil {
		logs = []models.TaskTimeLog{}
	}
	WriteList(w, logs, total, page)
}

func UpdateTimeLog(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateTimeLog"

	var in models.UpdateTimeLogInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	l, err := models.UpdateTimeLog(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["log_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, l)
}

func DeleteTimeLog(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteTimeLog"

	vars := mux.Vars(r)
	if err := models.DeleteTimeLog(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["log_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}
