package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	StartDate   time.Time            `bson:"startDate" json:"startDate"`
	EndDate     time.Time            `bson:"endDate" json:"endDate"`
	CreatedBy   primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Tasks       []primitive.ObjectID `bson:"tasks" json:"tasks"`
}

// PopulatedEvent is the list representation of an event with its referenced
// tasks materialized in attachment order.
type PopulatedEvent struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     time.Time          `json:"endDate"`
	CreatedBy   primitive.ObjectID `json:"createdBy"`
	Tasks       []Task             `json:"tasks"`
}
