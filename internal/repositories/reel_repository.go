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

type ReelRepository interface {
	CreateReel(ctx context.Context, reel *models.Reel) error
	GetReelByID(ctx context.Context, id string) (*models.Reel, error)
	DeleteReel(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error)
	IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error)
	IncrementViews(ctx context.Context, id string) (*models.Reel, error)
	ListReels(ctx context.Context, skip, limit int64) ([]models.Reel, error)
	ListTrending(ctx context.Context, since time.Time, skip, limit int64) ([]models.Reel, error)
	ListByCreator(ctx context.Context, creatorID uint) ([]models.Reel, error)
}

type MongoReelRepository struct {
	collection *mongo.Collection
}

func NewMongoReelRepository(db *mongo.Database) *MongoReelRepository {
	return &MongoReelRepository{collection: db.Collection("reels")}
}

func (r *MongoReelRepository) CreateReel(ctx context.Context, reel *models.Reel) error {
	now := time.Now().UTC()
	reel.ID = primitive.NewObjectID()
	reel.CreatedAt = now
	reel.UpdatedAt = now
	if reel.Likes == nil {
		reel.Likes = []uint{}
	}
	if reel.Tags == nil {
		reel.Tags = []string{}
	}
	_, err := r.collection.InsertOne(ctx, reel)
	return errors.Wrap(err, "insert reel")
}

func (r *MongoReelRepository) GetReelByID(ctx context.Context, id string) (*models.Reel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var reel models.Reel
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&reel); err != nil {
		return nil, mongoErr(err, "reel")
	}
	return &reel, nil
}

func (r *MongoReelRepository) DeleteReel(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "delete reel")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "reel")
	}
	return nil
}

func (r *MongoReelRepository) ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error) {
	return toggleLike(ctx, r.collection, id, actor)
}

func (r *MongoReelRepository) IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error) {
	return incrementField(ctx, r.collection, id, "comment_count", delta)
}

// IncrementViews bumps the view counter and returns the updated reel.
func (r *MongoReelRepository) IncrementViews(ctx context.Context, id string) (*models.Reel, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var reel models.Reel
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&reel)
	if err != nil {
		return nil, mongoErr(err, "reel")
	}
	return &reel, nil
}

func (r *MongoReelRepository) ListReels(ctx context.Context, skip, limit int64) ([]models.Reel, error) {
	return findMany[models.Reel](ctx, r.collection, bson.M{}, page(skip, limit))
}

// ListTrending pages through reels created since, most viewed first.
func (r *MongoReelRepository) ListTrending(ctx context.Context, since time.Time, skip, limit int64) ([]models.Reel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return findMany[models.Reel](ctx, r.collection, bson.M{"created_at": bson.M{"$gte": since}}, opts)
}

func (r *MongoReelRepository) ListByCreator(ctx context.Context, creatorID uint) ([]models.Reel, error) {
	opts := options.Find().SetSort(newestFirst())
	return findMany[models.Reel](ctx, r.collection, bson.M{"creator_id": creatorID}, opts)
}
