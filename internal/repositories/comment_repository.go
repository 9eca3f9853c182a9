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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteByTarget(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID) (int64, error)
	// ListByTarget returns comments newest first; topLevelOnly skips replies.
	ListByTarget(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID, topLevelOnly bool) ([]models.Comment, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Mentions == nil {
		comment.Mentions = []uint{}
	}
	if comment.Likes == nil {
		comment.Likes = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return errors.Wrap(err, "insert comment")
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment); err != nil {
		return nil, mongoErr(err, "comment")
	}
	return &comment, nil
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete comment")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "comment")
	}
	return nil
}

// DeleteByTarget removes every comment attached to a deleted post, reel or project.
func (r *MongoCommentRepository) DeleteByTarget(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"target_type": targetType, "target_id": targetID})
	if err != nil {
		return 0, errors.Wrap(err, "delete comments")
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) ListByTarget(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID, topLevelOnly bool) ([]models.Comment, error) {
	filter := bson.M{"target_type": targetType, "target_id": targetID}
	if topLevelOnly {
		filter["parent_id"] = nil
	}
	return findMany[models.Comment](ctx, r.collection, filter, options.Find().SetSort(newestFirst()))
}
