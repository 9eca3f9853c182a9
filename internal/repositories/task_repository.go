package repositories

import (
	"context"
	"time"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
	DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error)
}

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection("tasks")}
}

func (r *MongoTaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	_, err := r.collection.InsertOne(ctx, task)
	return errors.Wrap(err, "insert task")
}

func (r *MongoTaskRepository) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&task); err != nil {
		return nil, mongoErr(err, "task")
	}
	return &task, nil
}

func (r *MongoTaskRepository) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(newestFirst())
	return findMany[models.Task](ctx, r.collection, bson.M{"team_id": teamID}, opts)
}

func (r *MongoTaskRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"status":      task.Status,
		"priority":    task.Priority,
		"assigned_to": task.AssignedTo,
		"deadline":    task.Deadline,
		"updated_at":  task.UpdatedAt,
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "update task")
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "task")
	}
	return nil
}

func (r *MongoTaskRepository) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete task")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "task")
	}
	return nil
}

// DeleteByTeam removes the board of a deleted team.
func (r *MongoTaskRepository) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, errors.Wrap(err, "delete team tasks")
	}
	return res.DeletedCount, nil
}
