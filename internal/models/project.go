package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string              `json:"title" bson:"title"`
	Description  string              `json:"description" bson:"description"`
	TeamID       *primitive.ObjectID `json:"team_id,omitempty" bson:"team_id,omitempty"`
	CreatorID    uint                `json:"creator_id" bson:"creator_id"`
	TechStack    []string            `json:"tech_stack" bson:"tech_stack"`
	Images       []string            `json:"images" bson:"images"`
	VideoURL     string              `json:"video_url" bson:"video_url"`
	RepoLink     string              `json:"repo_link" bson:"repo_link"`
	LiveLink     string              `json:"live_link" bson:"live_link"`
	HackathonID  *primitive.ObjectID `json:"hackathon_id,omitempty" bson:"hackathon_id,omitempty"`
	TeamMembers  []uint              `json:"team_members" bson:"team_members"`
	Likes        []uint              `json:"likes" bson:"likes"`
	CommentCount int                 `json:"comment_count" bson:"comment_count"`
	Views        int64               `json:"views" bson:"views"`
	Featured     bool                `json:"featured" bson:"featured"`
	Tags         []string            `json:"tags" bson:"tags"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

type ProjectView struct {
	Project `bson:",inline"`
	Creator *UserCompact `json:"creator,omitempty" bson:"-"`
}

type CreateProjectRequest struct {
	Title       string        `json:"title" validate:"required,min=1,max=200"`
	Description string        `json:"description" validate:"required"`
	TeamID      string        `json:"team_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	TechStack   []string      `json:"tech_stack,omitempty"`
	Images      []string      `json:"images,omitempty" validate:"omitempty,dive,url"`
	VideoURL    string        `json:"video_url,omitempty" validate:"omitempty,url"`
	RepoLink    string        `json:"repo_link,omitempty" validate:"omitempty,url"`
	LiveLink    string        `json:"live_link,omitempty" validate:"omitempty,url"`
	HackathonID string        `json:"hackathon_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	TeamMembers []uint        `json:"team_members,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Category    SkillCategory `json:"category,omitempty" validate:"omitempty,oneof=web_dev mobile_dev ai_ml design cloud blockchain cybersecurity general"`
}

// ProjectFilter narrows project discovery.
type ProjectFilter struct {
	TechStack   string
	HackathonID *primitive.ObjectID
	Featured    bool
}
