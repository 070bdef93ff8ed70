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

type TaskService struct {
	TasksCollection  *mongo.Collection
	EventsCollection *mongo.Collection
	StoreBreaker     *gobreaker.CircuitBreaker
}

func NewTaskService(tasksCollection, eventsCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *TaskService {
	return &TaskService{
		TasksCollection:  tasksCollection,
		EventsCollection: eventsCollection,
		StoreBreaker:     storeBreaker,
	}
}

// TaskInput carries the client-supplied fields for creating a task. The
// owner never comes from the client; it is stamped from the session.
type TaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"dueDate"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
}

// TaskUpdate carries the partial update for a task; nil fields are left
// untouched.
type TaskUpdate struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	DueDate     *time.Time           `json:"dueDate"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
}

// SetDocument builds the $set document for the patch, validating the
// enumerated fields. updatedAt is always refreshed.
func (u TaskUpdate) SetDocument(now time.Time) (bson.M, error) {
	set := bson.M{"updatedAt": now}
	if u.Title != nil {
		if *u.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.DueDate != nil {
		set["dueDate"] = *u.DueDate
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *u.Status)
		}
		set["status"] = *u.Status
	}
	if u.Priority != nil {
		if !u.Priority.IsValid() {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *u.Priority)
		}
		set["priority"] = *u.Priority
	}
	return set, nil
}

// GetTasksForUser returns only the tasks owned by the given user. The
// filter is applied server-side, never taken from the client.
func (s *TaskService) GetTasksForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		cursor, err := s.TasksCollection.Find(ctx, bson.M{"createdBy": userID})
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
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	return result.([]models.Task), nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	_, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return nil, s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}
	return &task, nil
}

// OwnerOf resolves the stored owner of a task, for the ownership gate.
func (s *TaskService) OwnerOf(ctx context.Context, taskID primitive.ObjectID) (primitive.ObjectID, error) {
	task, err := s.GetTaskByID(ctx, taskID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return task.CreatedBy, nil
}

// CreateTask stores a new task owned by the session user. Missing status
// and priority fall back to their defaults.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput, ownerID primitive.ObjectID) (*models.Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, input.Status)
	}
	if !input.Priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, input.Priority)
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
		Priority:    input.Priority,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.TasksCollection.InsertOne(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	task.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by user %s", task.ID.Hex(), ownerID.Hex())
	return task, nil
}

// UpdateTask applies a partial update and returns the updated task.
// Ownership is checked by the caller before this runs.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, patch TaskUpdate) (*models.Task, error) {
	set, err := patch.SetDocument(time.Now())
	if err != nil {
		return nil, err
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result.(*mongo.UpdateResult).MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return s.GetTaskByID(ctx, taskID)
}

// DeleteTask removes a task and pulls its id from every event's task list
// so events never hold dangling references. Ownership is checked by the
// caller before this runs.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return ErrNotFound
	}

	_, err = s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.EventsCollection.UpdateMany(ctx, bson.M{"tasks": taskID}, bson.M{"$pull": bson.M{"tasks": taskID}})
	})
	if err != nil {
		return fmt.Errorf("failed to detach task from events: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	return nil
}
