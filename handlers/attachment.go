package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func AddAttachment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.AddAttachment"

	var in models.CreateAttachmentInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	a, err := models.AddAttachment(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, a)
}

func ListAttachments(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListAttachments"

	vars := mux.Vars(r)
	page := parsePage(r)
	attachments, total, err := models.ListAttachments(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if attachments == nil {
		attachments = []models.TaskAttachment{}
	}
	WriteList(w, attachments, total, page)
}

func DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteAttachment"

	vars := mux.Vars(r)
	if err := models.DeleteAttachment(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["attachment_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}
