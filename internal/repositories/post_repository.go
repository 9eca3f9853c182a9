package repositories

import (
	"context"
	"time"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error)
	IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error)
	ListRecent(ctx context.Context, skip, limit int64) ([]models.Post, error)
	ListSince(ctx context.Context, since time.Time, limit int64) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Images == nil {
		post.Images = []string{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Mentions == nil {
		post.Mentions = []uint{}
	}
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return errors.Wrap(err, "insert post")
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&post); err != nil {
		return nil, mongoErr(err, "post")
	}
	return &post, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete post")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "post")
	}
	return nil
}

// ToggleLike flips actor's like on a post.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error) {
	return toggleLike(ctx, r.collection, id, actor)
}

// IncrementCommentCount adjusts the denormalized comment counter.
func (r *MongoPostRepository) IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error) {
	return incrementField(ctx, r.collection, id, "comment_count", delta)
}

// ListRecent pages through all posts, newest first.
func (r *MongoPostRepository) ListRecent(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return findMany[models.Post](ctx, r.collection, bson.M{}, page(skip, limit))
}

// ListSince returns up to limit posts created at or after since, newest first.
func (r *MongoPostRepository) ListSince(ctx context.Context, since time.Time, limit int64) ([]models.Post, error) {
	filter := bson.M{"created_at": bson.M{"$gte": since}}
	return findMany[models.Post](ctx, r.collection, filter, page(0, limit))
}

// ListByAuthors pages through posts written by any of authorIDs, newest first.
func (r *MongoPostRepository) ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	filter := bson.M{"author_id": bson.M{"$in": authorIDs}}
	return findMany[models.Post](ctx, r.collection, filter, page(skip, limit))
}
