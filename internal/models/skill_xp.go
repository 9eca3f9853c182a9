package models

import "time"

type SkillCategory string

const (
	SkillWebDev        SkillCategory = "web_dev"
	SkillMobileDev     SkillCategory = "mobile_dev"
	SkillAIML          SkillCategory = "ai_ml"
	SkillDesign        SkillCategory = "design"
	SkillCloud         SkillCategory = "cloud"
	SkillBlockchain    SkillCategory = "blockchain"
	SkillCybersecurity SkillCategory = "cybersecurity"
	SkillGeneral       SkillCategory = "general"
)

// SkillXP accumulates experience per (user, category).
type SkillXP struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	UserID    uint          `json:"user_id" gorm:"uniqueIndex:idx_user_category"`
	Category  SkillCategory `json:"category" gorm:"size:20;uniqueIndex:idx_user_category"`
	XP        int64         `json:"xp" gorm:"default:0"`
	Level     int           `json:"level" gorm:"default:1"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
