package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerLookup resolves the stored owner of an entity by id. Implementations
// return ErrNotFound when the entity is absent.
type OwnerLookup func(ctx context.Context, id primitive.ObjectID) (primitive.ObjectID, error)

// AuthorizeOwner is the ownership gate applied before any mutation of a task
// or event: load the entity, then require strict equality between its stored
// creator and the session identity.
func AuthorizeOwner(ctx context.Context, lookup OwnerLookup, entityID, userID primitive.ObjectID) error {
	owner, err := lookup(ctx, entityID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	return nil
}
