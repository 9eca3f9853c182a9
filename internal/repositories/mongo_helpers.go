package repositories

import (
	"context"
	"time"

	"github.com/anonto42/hackmate/backend/internal/engagement"
	"github.com/anonto42/hackmate/backend/internal/metrics"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxToggleAttempts = 5

// LikeOutcome is the result of a like toggle.
type LikeOutcome struct {
	Count   int
	Liked   bool
	OwnerID uint
}

// likeDoc is the projection read by toggleLike. Posts carry author_id,
// reels and projects carry creator_id.
type likeDoc struct {
	Likes     []uint `bson:"likes"`
	AuthorID  uint   `bson:"author_id"`
	CreatorID uint   `bson:"creator_id"`
}

func (d likeDoc) owner() uint {
	if d.AuthorID != 0 {
		return d.AuthorID
	}
	return d.CreatorID
}

// toggleLike flips actor's membership in the document's likes array. The write
// only applies if likes still equals what was read, so concurrent toggles
// retry instead of overwriting each other.
func toggleLike(ctx context.Context, coll *mongo.Collection, id string, actor uint) (*LikeOutcome, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	projection := options.FindOne().SetProjection(bson.M{"likes": 1, "author_id": 1, "creator_id": 1})

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		var doc likeDoc
		if err := coll.FindOne(ctx, bson.M{"_id": oid}, projection).Decode(&doc); err != nil {
			return nil, mongoErr(err, coll.Name())
		}

		next, liked := engagement.ToggleLike(doc.Likes, actor)
		filter := bson.M{"_id": oid, "likes": likesEqual(doc.Likes)}
		update := bson.M{"$set": bson.M{"likes": next, "updated_at": time.Now().UTC()}}

		res, err := coll.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, errors.Wrapf(err, "toggle like on %s", coll.Name())
		}
		if res.MatchedCount == 1 {
			return &LikeOutcome{Count: len(next), Liked: liked, OwnerID: doc.owner()}, nil
		}
		metrics.LikeToggleRetries.WithLabelValues(coll.Name()).Inc()
	}
	return nil, errors.Wrap(ErrConcurrentUpdate, coll.Name())
}

// likesEqual matches a likes field holding exactly likes. An empty read may
// come from a missing field, a null or an empty array.
func likesEqual(likes []uint) interface{} {
	if len(likes) == 0 {
		return bson.M{"$in": bson.A{nil, bson.A{}}}
	}
	return likes
}

// counterUpdate adds delta to field. Decrements go through an update pipeline
// that floors the result at zero.
func counterUpdate(field string, delta int) interface{} {
	if delta >= 0 {
		return bson.M{"$inc": bson.M{field: delta}}
	}
	current := bson.M{"$ifNull": bson.A{"$" + field, 0}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{current, delta}}}},
		}}},
	}
}

// incrementField adds delta to a numeric counter and returns the new value.
// The counter never drops below zero.
func incrementField(ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, field string, delta int) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{field: 1})

	var out bson.M
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, counterUpdate(field, delta), opts).Decode(&out)
	if err != nil {
		return 0, mongoErr(err, coll.Name())
	}
	switch v := out[field].(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", coll.Name())
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", coll.Name())
	}
	return out, nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}}
}

func page(skip, limit int64) *options.FindOptions {
	return options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst())
}
