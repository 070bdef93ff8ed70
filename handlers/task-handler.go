package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HamimSaadAlRaji/task-scheduler/middleware"
	"github.com/HamimSaadAlRaji/task-scheduler/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// sessionUser pulls the authenticated identity attached by the middleware.
func sessionUser(w http.ResponseWriter, r *http.Request) (middleware.AuthenticatedUser, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return user, ok
}

func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID format")
		return primitive.NilObjectID, false
	}
	return taskID, true
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.GetTasksForUser(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := services.AuthorizeOwner(r.Context(), h.service.OwnerOf, taskID, user.ID); err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	task, err := h.service.CreateTask(r.Context(), input, user.ID)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := services.AuthorizeOwner(r.Context(), h.service.OwnerOf, taskID, user.ID); err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	var patch services.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), taskID, patch)
	if err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := services.AuthorizeOwner(r.Context(), h.service.OwnerOf, taskID, user.ID); err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		handleServiceError(w, err, "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
