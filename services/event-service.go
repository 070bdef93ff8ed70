package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HamimSaadAlRaji/task-scheduler/logging"
	"github.com/HamimSaadAlRaji/task-scheduler/models"
)

type EventService struct {
	EventsCollection *mongo.Collection
	TasksCollection  *mongo.Collection
	StoreBreaker     *gobreaker.CircuitBreaker
}

func NewEventService(eventsCollection, tasksCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *EventService {
	return &EventService{
		EventsCollection: eventsCollection,
		TasksCollection:  tasksCollection,
		StoreBreaker:     storeBreaker,
	}
}

// EventInput carries the client-supplied fields for creating an event.
// The owner is stamped from the session, never taken from the client.
type EventInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     time.Time            `json:"endDate"`
	Tasks       []primitive.ObjectID `json:"tasks"`
}

// Validate checks the required fields and the date range.
func (in EventInput) Validate() error {
	if in.Title == "" || in.Description == "" {
		return fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrValidation)
	}
	return nil
}

// EventUpdate carries the partial update for an event; nil fields are left
// untouched. A non-nil Tasks value replaces the full reference set.
type EventUpdate struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	StartDate   *time.Time            `json:"startDate"`
	EndDate     *time.Time            `json:"endDate"`
	Tasks       *[]primitive.ObjectID `json:"tasks"`
}

// SetDocument builds the $set document for the patch.
func (u EventUpdate) SetDocument() (bson.M, error) {
	set := bson.M{}
	if u.Title != nil {
		if *u.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		set["title"] = *u.Title
	}
	if u.Description != nil {
		if *u.Description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", ErrValidation)
		}
		set["description"] = *u.Description
	}
	if u.StartDate != nil {
		set["startDate"] = *u.StartDate
	}
	if u.EndDate != nil {
		set["endDate"] = *u.EndDate
	}
	if u.Tasks != nil {
		set["tasks"] = *u.Tasks
	}
	return set, nil
}

// validateTaskRefs rejects task references that do not exist or belong to a
// different user. Duplicate ids in the list are allowed to repeat.
func (s *EventService) validateTaskRefs(ctx context.Context, taskIDs []primitive.ObjectID, ownerID primitive.ObjectID) error {
	if len(taskIDs) == 0 {
		return nil
	}

	unique := make(map[primitive.ObjectID]struct{}, len(taskIDs))
	ids := make([]primitive.ObjectID, 0, len(taskIDs))
	for _, id := range taskIDs {
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		ids = append(ids, id)
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.TasksCollection.CountDocuments(ctx, bson.M{
			"_id":       bson.M{"$in": ids},
			"createdBy": ownerID,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to verify task references: %v", err)
	}
	if result.(int64) != int64(len(ids)) {
		return fmt.Errorf("%w: one or more referenced tasks do not exist or are not owned by you", ErrValidation)
	}
	return nil
}

// GetEventsForUser returns the user's events with their referenced tasks
// materialized, preserving attachment order.
func (s *EventService) GetEventsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.PopulatedEvent, error) {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		cursor, err := s.EventsCollection.Find(ctx, bson.M{"createdBy": userID})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		events := []models.Event{}
		if err := cursor.All(ctx, &events); err != nil {
			return nil, err
		}
		return events, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %v", err)
	}
	events := result.([]models.Event)

	idSet := make(map[primitive.ObjectID]struct{})
	for _, event := range events {
		for _, taskID := range event.Tasks {
			idSet[taskID] = struct{}{}
		}
	}

	tasksByID := make(map[primitive.ObjectID]models.Task, len(idSet))
	if len(idSet) > 0 {
		ids := make([]primitive.ObjectID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
			cursor, err := s.TasksCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
			if err != nil {
				return nil, err
			}
			defer cursor.Close(ctx)

			tasks := []models.Task{}
			if err := cursor.All(ctx, &tasks); err != nil {
				return nil, err
			}
			return tasks, nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve event tasks: %v", err)
		}
		for _, task := range result.([]models.Task) {
			tasksByID[task.ID] = task
		}
	}

	populated := make([]models.PopulatedEvent, 0, len(events))
	for _, event := range events {
		tasks := make([]models.Task, 0, len(event.Tasks))
		for _, taskID := range event.Tasks {
			if task, ok := tasksByID[taskID]; ok {
				tasks = append(tasks, task)
			}
		}
		populated = append(populated, models.PopulatedEvent{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			StartDate:   event.StartDate,
			EndDate:     event.EndDate,
			CreatedBy:   event.CreatedBy,
			Tasks:       tasks,
		})
	}
	return populated, nil
}

func (s *EventService) GetEventByID(ctx context.Context, eventID primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	_, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return nil, s.EventsCollection.FindOne(ctx, bson.M{"_id": eventID}).Decode(&event)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve event: %v", err)
	}
	return &event, nil
}

// OwnerOf resolves the stored owner of an event, for the ownership gate.
func (s *EventService) OwnerOf(ctx context.Context, eventID primitive.ObjectID) (primitive.ObjectID, error) {
	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return event.CreatedBy, nil
}

// CreateEvent stores a new event owned by the session user. Any referenced
// tasks must exist and belong to that user.
func (s *EventService) CreateEvent(ctx context.Context, input EventInput, ownerID primitive.ObjectID) (*models.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateTaskRefs(ctx, input.Tasks, ownerID); err != nil {
		return nil, err
	}

	if input.Tasks == nil {
		input.Tasks = []primitive.ObjectID{}
	}
	event := &models.Event{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedBy:   ownerID,
		Tasks:       input.Tasks,
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.EventsCollection.InsertOne(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %v", err)
	}

	event.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	logging.Logger.Infof("Event ID: EVENT_CREATED, Description: Event %s created by user %s", event.ID.Hex(), ownerID.Hex())
	return event, nil
}

// UpdateEvent applies a partial update and returns the updated event. A
// supplied task list replaces the full reference set after validation.
// Ownership is checked by the caller before this runs.
func (s *EventService) UpdateEvent(ctx context.Context, eventID primitive.ObjectID, patch EventUpdate, ownerID primitive.ObjectID) (*models.Event, error) {
	set, err := patch.SetDocument()
	if err != nil {
		return nil, err
	}
	if patch.Tasks != nil {
		if err := s.validateTaskRefs(ctx, *patch.Tasks, ownerID); err != nil {
			return nil, err
		}
	}
	if len(set) == 0 {
		return s.GetEventByID(ctx, eventID)
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.EventsCollection.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": set})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %v", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return s.GetEventByID(ctx, eventID)
}

// DeleteEvent removes an event. Referenced tasks are left untouched; the
// relation does not imply ownership of the tasks. Ownership is checked by
// the caller before this runs.
func (s *EventService) DeleteEvent(ctx context.Context, eventID primitive.ObjectID) error {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.EventsCollection.DeleteOne(ctx, bson.M{"_id": eventID})
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return ErrNotFound
	}

	logging.Logger.Infof("Event ID: EVENT_DELETED, Description: Event %s deleted", eventID.Hex())
	return nil
}
