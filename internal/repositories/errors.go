package repositories

import (
	"errors"
	"time"

	"estatehub_backend/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrDuplicate     = errors.New("duplicate key")
	ErrHasDependents = errors.New("document still has dependents")
)

// parseID converts a hex id. Malformed ids are reported as ErrNotFound so
// they surface as 404 like any other missing document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func observe(operation, collection string, start time.Time, err error) {
	if err != nil && (errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrHasDependents)) {
		logger.DBLog(operation, collection, time.Since(start), nil)
		return
	}
	logger.DBLog(operation, collection, time.Since(start), err)
}

func skipLimit(page, pageSize int) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return int64((page - 1) * pageSize), int64(pageSize)
}
