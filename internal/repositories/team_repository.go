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

type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	ListByMember(ctx context.Context, userID uint) ([]models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	DeleteTeam(ctx context.Context, id primitive.ObjectID) error
	AddMember(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Team, error)
	RemoveMember(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Team, error)
	SetHackathon(ctx context.Context, id primitive.ObjectID, hackathonID *primitive.ObjectID) error
	ClearHackathon(ctx context.Context, teamIDs []primitive.ObjectID) error
}

type MongoTeamRepository struct {
	collection *mongo.Collection
}

func NewMongoTeamRepository(db *mongo.Database) *MongoTeamRepository {
	return &MongoTeamRepository{collection: db.Collection("teams")}
}

func (r *MongoTeamRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	now := time.Now().UTC()
	team.ID = primitive.NewObjectID()
	team.CreatedAt = now
	team.UpdatedAt = now
	if team.Members == nil {
		team.Members = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, team)
	return errors.Wrap(err, "insert team")
}

func (r *MongoTeamRepository) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var team models.Team
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&team); err != nil {
		return nil, mongoErr(err, "team")
	}
	return &team, nil
}

func (r *MongoTeamRepository) ListByMember(ctx context.Context, userID uint) ([]models.Team, error) {
	opts := options.Find().SetSort(newestFirst())
	return findMany[models.Team](ctx, r.collection, bson.M{"members": userID}, opts)
}

// UpdateTeam writes the editable profile fields.
func (r *MongoTeamRepository) UpdateTeam(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"name":        team.Name,
		"description": team.Description,
		"logo":        team.Logo,
		"updated_at":  team.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": team.ID}, update)
	if err != nil {
		return errors.Wrap(err, "update team")
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "team")
	}
	return nil
}

func (r *MongoTeamRepository) DeleteTeam(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete team")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "team")
	}
	return nil
}

// AddMember adds userID to the member set; adding an existing member is a no-op.
func (r *MongoTeamRepository) AddMember(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Team, error) {
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findAndUpdate(ctx, id, update)
}

func (r *MongoTeamRepository) RemoveMember(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Team, error) {
	update := bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findAndUpdate(ctx, id, update)
}

// SetHackathon records which hackathon the team entered; nil clears it.
func (r *MongoTeamRepository) SetHackathon(ctx context.Context, id primitive.ObjectID, hackathonID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"hackathon_id": hackathonID, "updated_at": time.Now().UTC()}}
	if hackathonID == nil {
		update = bson.M{
			"$unset": bson.M{"hackathon_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return errors.Wrap(err, "set team hackathon")
}

// ClearHackathon removes the hackathon back-reference from teamIDs.
func (r *MongoTeamRepository) ClearHackathon(ctx context.Context, teamIDs []primitive.ObjectID) error {
	if len(teamIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": teamIDs}},
		bson.M{"$unset": bson.M{"hackathon_id": ""}},
	)
	return errors.Wrap(err, "clear team hackathons")
}

func (r *MongoTeamRepository) findAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Team, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var team models.Team
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&team); err != nil {
		return nil, mongoErr(err, "team")
	}
	return &team, nil
}
