package repositories

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a document or row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned for identifiers that are not valid ObjectIDs.
	ErrInvalidID = errors.New("invalid id")
	// ErrConcurrentUpdate is returned when a conditional update keeps losing to other writers.
	ErrConcurrentUpdate = errors.New("concurrent update")
	// ErrConflict is returned when a conditional write's precondition no longer holds.
	ErrConflict = errors.New("conflict")
)

// IsNotFound reports whether err means the entity is missing or unaddressable.
func IsNotFound(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrNotFound || cause == ErrInvalidID
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return oid, nil
}

// mongoErr maps driver errors onto the package sentinels.
func mongoErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}

// gormErr maps GORM errors onto the package sentinels.
func gormErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}
