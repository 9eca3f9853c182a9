package repositories

import (
	"context"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the PostgreSQL tables.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Notification{},
		&models.TeamInvitation{},
		&models.SkillXP{},
		&models.Achievement{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	logrus.Info("PostgreSQL auto-migrations completed for all models.")
	return nil
}

// EnsureMongoIndexes creates the indexes the feed and listing queries rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	desc := func(field string) bson.E { return bson.E{Key: field, Value: -1} }
	asc := func(field string) bson.E { return bson.E{Key: field, Value: 1} }

	indexes := map[string][]mongo.IndexModel{
		"posts": {
			{Keys: bson.D{desc("created_at")}},
			{Keys: bson.D{asc("author_id"), desc("created_at")}},
		},
		"reels": {
			{Keys: bson.D{desc("created_at")}},
			{Keys: bson.D{desc("views")}},
			{Keys: bson.D{asc("creator_id"), desc("created_at")}},
		},
		"projects": {
			{Keys: bson.D{desc("created_at")}},
			{Keys: bson.D{desc("views")}},
			{Keys: bson.D{asc("featured")}},
			{Keys: bson.D{asc("creator_id"), desc("created_at")}},
		},
		"comments": {
			{Keys: bson.D{asc("target_type"), asc("target_id"), desc("created_at")}},
		},
		"teams": {
			{Keys: bson.D{asc("members")}},
		},
		"tasks": {
			{Keys: bson.D{asc("team_id"), desc("created_at")}},
		},
		"hackathons": {
			{Keys: bson.D{asc("start_date")}},
			{Keys: bson.D{asc("hosted_by"), desc("created_at")}},
		},
	}

	for name, idx := range indexes {
		opts := options.CreateIndexes()
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx, opts); err != nil {
			return errors.Wrapf(err, "create indexes on %s", name)
		}
	}
	logrus.Info("MongoDB indexes ensured.")
	return nil
}
