package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestLikesEqual(t *testing.T) {
	empty := bson.M{"$in": bson.A{nil, bson.A{}}}
	assert.Equal(t, empty, likesEqual(nil))
	assert.Equal(t, empty, likesEqual([]uint{}))
	assert.Equal(t, []uint{3, 1}, likesEqual([]uint{3, 1}), "non-empty arrays match exactly, order included")
}

func TestCounterUpdate(t *testing.T) {
	assert.Equal(t, bson.M{"$inc": bson.M{"comment_count": 1}}, counterUpdate("comment_count", 1))

	floored := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"comment_count": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$comment_count", 0}}, -1,
			}}}},
		}}},
	}
	assert.Equal(t, floored, counterUpdate("comment_count", -1))
}
