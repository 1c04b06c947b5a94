package services

import (
	"estatehub_backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated caller as seen by services.
type Actor struct {
	ID   primitive.ObjectID
	Type models.UserType
}

func (a Actor) IsAdmin() bool {
	return a.Type == models.UserTypeAdmin
}

// Anonymous is the zero Actor.
var Anonymous = Actor{}

func (a Actor) Authenticated() bool {
	return !a.ID.IsZero()
}
