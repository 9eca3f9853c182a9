package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType names the kind of content a comment is attached to.
type TargetType string

const (
	TargetPost    TargetType = "Post"
	TargetReel    TargetType = "Reel"
	TargetProject TargetType = "Project"
)

// Comment represents a comment on a post, reel or project
type Comment struct {
	ID         primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID   uint                `json:"author_id" bson:"author_id"`
	Content    string              `json:"content" bson:"content"`
	TargetType TargetType          `json:"target_type" bson:"target_type"`
	TargetID   primitive.ObjectID  `json:"target_id" bson:"target_id"`
	ParentID   *primitive.ObjectID `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Mentions   []uint              `json:"mentions" bson:"mentions"`
	Likes      []uint              `json:"likes" bson:"likes"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

type CommentView struct {
	Comment `bson:",inline"`
	Author  *UserCompact `json:"author,omitempty" bson:"-"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=2000"`
	ParentID string `json:"parent_id,omitempty" validate:"omitempty,len=24,hexadecimal"`
	Mentions []uint `json:"mentions,omitempty"`
}
