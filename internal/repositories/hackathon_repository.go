package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HackathonFilter narrows the hackathon listing.
type HackathonFilter struct {
	Search   string
	IsOnline *bool
	Status   models.HackathonStatus
}

type HackathonRepository interface {
	CreateHackathon(ctx context.Context, hackathon *models.Hackathon) error
	GetHackathonByID(ctx context.Context, id string) (*models.Hackathon, error)
	ListHackathons(ctx context.Context, filter HackathonFilter) ([]models.Hackathon, error)
	ListByHost(ctx context.Context, hostID uint) ([]models.Hackathon, error)
	UpdateHackathon(ctx context.Context, hackathon *models.Hackathon) error
	DeleteHackathon(ctx context.Context, id primitive.ObjectID) error
	// AddTeam registers teamID if it is not registered yet and capacity remains.
	// It returns ErrConflict when either precondition fails at write time.
	AddTeam(ctx context.Context, id, teamID primitive.ObjectID) (*models.Hackathon, error)
	RemoveTeam(ctx context.Context, id, teamID primitive.ObjectID) error
}

type MongoHackathonRepository struct {
	collection *mongo.Collection
}

func NewMongoHackathonRepository(db *mongo.Database) *MongoHackathonRepository {
	return &MongoHackathonRepository{collection: db.Collection("hackathons")}
}

func (r *MongoHackathonRepository) CreateHackathon(ctx context.Context, hackathon *models.Hackathon) error {
	now := time.Now().UTC()
	hackathon.ID = primitive.NewObjectID()
	hackathon.CreatedAt = now
	hackathon.UpdatedAt = now
	if hackathon.ParticipatingTeams == nil {
		hackathon.ParticipatingTeams = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, hackathon)
	return errors.Wrap(err, "insert hackathon")
}

func (r *MongoHackathonRepository) GetHackathonByID(ctx context.Context, id string) (*models.Hackathon, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var hackathon models.Hackathon
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&hackathon); err != nil {
		return nil, mongoErr(err, "hackathon")
	}
	return &hackathon, nil
}

// ListHackathons returns matching hackathons ordered by start date.
func (r *MongoHackathonRepository) ListHackathons(ctx context.Context, filter HackathonFilter) ([]models.Hackathon, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"theme": pattern},
			bson.M{"organizer": pattern},
		}
	}
	if filter.IsOnline != nil {
		query["is_online"] = *filter.IsOnline
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return findMany[models.Hackathon](ctx, r.collection, query, opts)
}

func (r *MongoHackathonRepository) ListByHost(ctx context.Context, hostID uint) ([]models.Hackathon, error) {
	opts := options.Find().SetSort(newestFirst())
	return findMany[models.Hackathon](ctx, r.collection, bson.M{"hosted_by": hostID}, opts)
}

// UpdateHackathon replaces the editable fields; participants and host are kept.
func (r *MongoHackathonRepository) UpdateHackathon(ctx context.Context, h *models.Hackathon) error {
	h.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":                 h.Title,
		"logo":                  h.Logo,
		"banner":                h.Banner,
		"organizer":             h.Organizer,
		"start_date":            h.StartDate,
		"end_date":              h.EndDate,
		"registration_deadline": h.RegistrationDeadline,
		"description":           h.Description,
		"theme":                 h.Theme,
		"objective":             h.Objective,
		"is_online":             h.IsOnline,
		"location":              h.Location,
		"whatsapp_link":         h.WhatsappLink,
		"rules":                 h.Rules,
		"prizes":                h.Prizes,
		"eligibility":           h.Eligibility,
		"schedule":              h.Schedule,
		"sponsors":              h.Sponsors,
		"faq":                   h.FAQ,
		"contact_email":         h.ContactEmail,
		"contact_phone":         h.ContactPhone,
		"max_teams":             h.MaxTeams,
		"status":                h.Status,
		"updated_at":            h.UpdatedAt,
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": h.ID}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "update hackathon")
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "hackathon")
	}
	return nil
}

func (r *MongoHackathonRepository) DeleteHackathon(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete hackathon")
	}
	if res.DeletedCount == 0 {
		return errors.Wrap(ErrNotFound, "hackathon")
	}
	return nil
}

func (r *MongoHackathonRepository) AddTeam(ctx context.Context, id, teamID primitive.ObjectID) (*models.Hackathon, error) {
	filter := bson.M{
		"_id":                 id,
		"participating_teams": bson.M{"$ne": teamID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$participating_teams", bson.A{}}}},
			"$max_teams",
		}},
	}
	update := bson.M{
		"$push": bson.M{"participating_teams": teamID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var hackathon models.Hackathon
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&hackathon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.Wrap(ErrConflict, "hackathon registration")
	}
	if err != nil {
		return nil, errors.Wrap(err, "register team")
	}
	return &hackathon, nil
}

func (r *MongoHackathonRepository) RemoveTeam(ctx context.Context, id, teamID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"participating_teams": teamID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.Wrap(err, "unregister team")
	}
	if res.MatchedCount == 0 {
		return errors.Wrap(ErrNotFound, "hackathon")
	}
	return nil
}
