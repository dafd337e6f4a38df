package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func CreateEpic(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateEpic"

	var in models.CreateEpicInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	e, err := models.CreateEpic(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, e)
}

func ListEpics(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListEpics"

	page := parsePage(r)
	epics, total, err := models.ListEpics(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"], page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if epics == nil {
		epics = []models.Epic{}
	}
	WriteList(w, epics, total, page)
}

func GetEpic(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetEpic"

	vars := mux.Vars(r)
	e, err := models.GetEpic(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["epic_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

func UpdateEpic(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateEpic"

	var in models.UpdateEpicInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	e, err := models.UpdateEpic(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["epic_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

func DeleteEpic(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteEpic"

	vars := mux.Vars(r)
	if err := models.DeleteEpic(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["epic_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}
