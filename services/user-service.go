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
	"github.com/HamimSaadAlRaji/task-scheduler/utils"
)

type UserService struct {
	UserCollection *mongo.Collection
	StoreBreaker   *gobreaker.CircuitBreaker
}

func NewUserService(userCollection *mongo.Collection, storeBreaker *gobreaker.CircuitBreaker) *UserService {
	return &UserService{
		UserCollection: userCollection,
		StoreBreaker:   storeBreaker,
	}
}

// Register stores a new user with a hashed password. The email address is
// the uniqueness key; registering it twice fails with ErrDuplicateUser.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	_, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		var existing models.User
		return nil, s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	})
	if err == nil {
		return nil, ErrDuplicateUser
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check existing user: %v", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return s.UserCollection.InsertOne(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %v", err)
	}

	user.ID = result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered user %s", user.Email)
	return user, nil
}

// Authenticate verifies the login credentials and issues a signed session
// token. Unknown email fails with ErrNotFound, a failed hash comparison
// with ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	_, err := s.StoreBreaker.Execute(func() (interface{}, error) {
		return nil, s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to look up user: %v", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign access token: %v", err)
	}

	logging.Logger.Infof("Event ID: USER_LOGIN, Description: User %s logged in", user.Email)
	return &user, token, nil
}
