package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

type commentView struct {
	models.TaskComment
	ParentCommentID *string `json:"parent_comment_id"`
}

func viewComment(c *models.TaskComment) commentView {
	return commentView{TaskComment: *c, ParentCommentID: c.ParentRef()}
}

func CreateComment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateComment"

	var in struct {
		Content         string  `json:"content"`
		ParentCommentID *string `json:"parent_comment_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	c, err := models.CreateComment(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], in.Content, in.ParentCommentID)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, viewComment(c))
}

func ListComments(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListComments"

	vars := mux.Vars(r)
	page := parsePage(r)
	comments, total, err := models.ListComments(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], page)
	if err != nil {
		WriteError(w, op, err)
		return
	}

	views := make([]commentView, 0, len(comments))
	for i := range comments {
		views = append(views, viewComment(&comments[i]))
	}
	WriteList(w, views, total, page)
}

func UpdateComment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateComment"

	var in struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	c, err := models.UpdateComment(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["comment_id"], in.Content)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewComment(c))
}

func DeleteComment(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteComment"

	vars := mux.Vars(r)
	if err := models.DeleteComment(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["comment_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}
