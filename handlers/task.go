package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"meroboard/database"
	"meroboard/models"
)

// taskView exposes the nullable columns as JSON-friendly fields.
type taskView struct {
	models.Task
	ProjectID  *string `json:"project_id"`
	EpicID     *string `json:"epic_id"`
	AssigneeID *string `json:"assignee_id"`
}

func viewTask(t *models.Task) taskView {
	v := taskView{Task: *t}
	if t.ProjectID.Valid {
		s := t.ProjectID.String
		v.ProjectID = &s
	}
	if t.EpicID.Valid {
		s := t.EpicID.String
		v.EpicID = &s
	}
	if t.AssigneeID.Valid {
		s := t.AssigneeID.String
		v.AssigneeID = &s
	}
	return v
}

func CreateTask(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateTask"

	var in models.CreateTaskInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	t, err := models.CreateTask(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, viewTask(t))
}

func ListTasks(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListTasks"

	q := r.URL.Query()
	filter := models.TaskFilter{
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssigneeID: q.Get("assignee_id"),
		Search:     q.Get("search"),
		DueDate:    q.Get("due_date"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	page := parsePage(r)
	tasks, total, err := models.ListTasks(database.DB, UserID(r), OrgID(r), mux.Vars(r)["project_id"], filter, page)
	if err != nil {
		WriteError(w, op, err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, viewTask(&tasks[i]))
	}
	WriteList(w, views, total, page)
}

func GetTask(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.GetTask"

	vars := mux.Vars(r)
	t, err := models.GetTask(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewTask(t))
}

func UpdateTask(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateTask"

	var in models.UpdateTaskInput
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	t, err := models.UpdateTask(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], in)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusOK, viewTask(t))
}

func DeleteTask(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteTask"

	vars := mux.Vars(r)
	if err := models.DeleteTask(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func ListTaskAssignees(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListTaskAssignees"

	vars := mux.Vars(r)
	users, err := models.ListTaskAssignees(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"])
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	WriteJSON(w, http.StatusOK, users)
}

func AddTaskAssignee(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.AddTaskAssignee"

	var in struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &in); err != nil {
		WriteError(w, op, err)
		return
	}

	vars := mux.Vars(r)
	if err := models.AddTaskAssignee(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], in.UserID); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusCreated, nil)
}

func RemoveTaskAssignee(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.RemoveTaskAssignee"

	vars := mux.Vars(r)
	if err := models.RemoveTaskAssignee(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], vars["user_id"]); err != nil {
		WriteError(w, op, err)
		return
	}
	WriteJSON(w, http.StatusNoContent, nil)
}

func ListTaskActivities(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListTaskActivities"

	vars := mux.Vars(r)
	page := parsePage(r)
	activities, total, err := models.ListActivities(database.DB, UserID(r), OrgID(r), vars["project_id"], vars["task_id"], page)
	if err != nil {
		WriteError(w, op, err)
		return
	}
	if activities == nil {
		activities = []models.TaskActivity{}
	}
	WriteList(w, activities, total, page)
}
