package repositories

import (
	"context"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepository interface {
	AddXP(ctx context.Context, userID uint, category models.SkillCategory, amount int64) (*models.SkillXP, error)
	ListByUser(ctx context.Context, userID uint) ([]models.SkillXP, error)
}

type PostgresSkillRepository struct {
	db *gorm.DB
}

func NewPostgresSkillRepository(db *gorm.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

// AddXP inserts or increments the (user, category) row in a single statement
// and recomputes the level from the new total with the same formula as
// gamification.Level.
func (r *PostgresSkillRepository) AddXP(ctx context.Context, userID uint, category models.SkillCategory, amount int64) (*models.SkillXP, error) {
	row := models.SkillXP{
		UserID:   userID,
		Category: category,
		XP:       amount,
		Level:    gamification.Level(amount),
	}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"xp":         gorm.Expr("skill_xps.xp + ?", amount),
				"level":      gorm.Expr("CAST(FLOOR(SQRT((skill_xps.xp + ?) / 100.0)) AS INTEGER) + 1", amount),
				"updated_at": gorm.Expr("NOW()"),
			}),
		},
		clause.Returning{},
	).Create(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "add xp")
	}
	return &row, nil
}

func (r *PostgresSkillRepository) ListByUser(ctx context.Context, userID uint) ([]models.SkillXP, error) {
	var skills []models.SkillXP
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("xp DESC").Find(&skills).Error
	return skills, errors.Wrap(err, "list skills")
}
