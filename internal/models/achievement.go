package models

import "time"

type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
)

// Achievement is unlocked at most once per (user, key).
type Achievement struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"uniqueIndex:idx_user_achievement"`
	Key             string          `json:"key" gorm:"size:40;uniqueIndex:idx_user_achievement"`
	Type            string          `json:"type" gorm:"size:40"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Icon            string          `json:"icon"`
	Tier            AchievementTier `json:"tier" gorm:"size:10;default:bronze"`
	ProgressCurrent int             `json:"progress_current"`
	ProgressTarget  int             `json:"progress_target" gorm:"default:1"`
	Unlocked        bool            `json:"unlocked"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
