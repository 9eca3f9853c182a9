package repositories

import (
	"context"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AchievementRepository interface {
	Unlock(ctx context.Context, achievement *models.Achievement) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Achievement, error)
}

type PostgresAchievementRepository struct {
	db *gorm.DB
}

func NewPostgresAchievementRepository(db *gorm.DB) *PostgresAchievementRepository {
	return &PostgresAchievementRepository{db: db}
}

// Unlock inserts the achievement. The (user_id, key) unique index makes a
// second unlock report false instead of creating a duplicate.
func (r *PostgresAchievementRepository) Unlock(ctx context.Context, achievement *models.Achievement) (bool, error) {
	err := r.db.WithContext(ctx).Create(achievement).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "unlock achievement")
	}
	return true, nil
}

func (r *PostgresAchievementRepository) ListByUser(ctx context.Context, userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&achievements).Error
	return achievements, errors.Wrap(err, "list achievements")
}
