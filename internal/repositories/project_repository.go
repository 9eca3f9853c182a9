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

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	// ViewProject loads a project and counts the view in one round trip.
	ViewProject(ctx context.Context, id string) (*models.Project, error)
	ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error)
	IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter, skip, limit int64) ([]models.Project, error)
	ListByCreator(ctx context.Context, creatorID uint) ([]models.Project, error)
}

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(db *mongo.Database) *MongoProjectRepository {
	return &MongoProjectRepository{collection: db.Collection("projects")}
}

func (r *MongoProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now
	for _, s := range []*[]string{&project.TechStack, &project.Images, &project.Tags} {
		if *s == nil {
			*s = []string{}
		}
	}
	if project.TeamMembers == nil {
		project.TeamMembers = []uint{}
	}
	if project.Likes == nil {
		project.Likes = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, project)
	return errors.Wrap(err, "insert project")
}

func (r *MongoProjectRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&project); err != nil {
		return nil, mongoErr(err, "project")
	}
	return &project, nil
}

func (r *MongoProjectRepository) ViewProject(ctx context.Context, id string) (*models.Project, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var project models.Project
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&project)
	if err != nil {
		return nil, mongoErr(err, "project")
	}
	return &project, nil
}

func (r *MongoProjectRepository) ToggleLike(ctx context.Context, id string, actor uint) (*LikeOutcome, error) {
	return toggleLike(ctx, r.collection, id, actor)
}

func (r *MongoProjectRepository) IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error) {
	return incrementField(ctx, r.collection, id, "comment_count", delta)
}

// ListProjects pages through projects matching filter, newest first.
func (r *MongoProjectRepository) ListProjects(ctx context.Context, filter models.ProjectFilter, skip, limit int64) ([]models.Project, error) {
	query := bson.M{}
	if filter.TechStack != "" {
		query["tech_stack"] = filter.TechStack
	}
	if filter.HackathonID != nil {
		query["hackathon_id"] = *filter.HackathonID
	}
	if filter.Featured {
		query["featured"] = true
	}
	return findMany[models.Project](ctx, r.collection, query, page(skip, limit))
}

func (r *MongoProjectRepository) ListByCreator(ctx context.Context, creatorID uint) ([]models.Project, error) {
	opts := options.Find().SetSort(newestFirst())
	return findMany[models.Project](ctx, r.collection, bson.M{"creator_id": creatorID}, opts)
}
