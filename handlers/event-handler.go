package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HamimSaadAlRaji/task-scheduler/services"
)

type EventHandler struct {
	service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func eventIDFromRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	eventID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID format")
		return primitive.NilObjectID, false
	}
	return eventID, true
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	events, err := h.service.GetEventsForUser(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var input services.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	event, err := h.service.CreateEvent(r.Context(), input, user.ID)
	if err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	respondJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := services.AuthorizeOwner(r.Context(), h.service.OwnerOf, eventID, user.ID); err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	var patch services.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), eventID, patch, user.ID)
	if err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	respondJSON(w, http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}
	eventID, ok := eventIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := services.AuthorizeOwner(r.Context(), h.service.OwnerOf, eventID, user.ID); err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		handleServiceError(w, err, "Event not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}
