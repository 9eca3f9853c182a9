package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reel is a short video stored in MongoDB.
type Reel struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	CreatorID    uint                `json:"creator_id" bson:"creator_id"`
	VideoURL     string              `json:"video_url" bson:"video_url"`
	Thumbnail    string              `json:"thumbnail" bson:"thumbnail"`
	Caption      string              `json:"caption" bson:"caption"`
	Duration     float64             `json:"duration" bson:"duration"` // seconds
	Views        int64               `json:"views" bson:"views"`
	Likes        []uint              `json:"likes" bson:"likes"`
	CommentCount int                 `json:"comment_count" bson:"comment_count"`
	Tags         []string            `json:"tags" bson:"tags"`
	HackathonID  *primitive.ObjectID `json:"hackathon_id,omitempty" bson:"hackathon_id,omitempty"`
	ProjectID    *primitive.ObjectID `json:"project_id,omitempty" bson:"project_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

type ReelView struct {
	Reel    `bson:",inline"`
	Creator *UserCompact `json:"creator,omitempty" bson:"-"`
}

type CreateReelRequest struct {
	VideoURL    string        `json:"video_url" validate:"required,url"`
	Thumbnail   string        `json:"thumbnail,omitempty" validate:"omitempty,url"`
	Caption     string        `json:"caption,omitempty" validate:"max=500"`
	Duration    float64       `json:"duration,omitempty" validate:"gte=0"`
	Tags        []string      `json:"tags,omitempty"`
	HackathonID string        `json:"hackathon_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	ProjectID   string        `json:"project_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	Category    SkillCategory `json:"category,omitempty" validate:"omitempty,oneof=web_dev mobile_dev ai_ml design cloud blockchain cybersecurity general"`
}
