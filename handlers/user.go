package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

func ListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListUsers"

	page := parsePage(r)
	users, total, err := models.ListUsers(database.DB, page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteList(w, users, total, page)
}

// GetMe returns the authenticated user's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetMe"

	u, err := models.GetUser(database.DB, UserID(r))
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetUser"

	u, err := models.GetUser(database.DB, mux.Vars(r)["user_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, u)
}
