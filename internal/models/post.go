package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID     uint               `json:"author_id" bson:"author_id"` // Postgres ID of the user who created the post
	Content      string             `json:"content" bson:"content"`
	Images       []string           `json:"images" bson:"images"`
	Tags         []string           `json:"tags" bson:"tags"`
	Mentions     []uint             `json:"mentions" bson:"mentions"`
	Likes        []uint             `json:"likes" bson:"likes"`
	CommentCount int                `json:"comment_count" bson:"comment_count"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// PostView is a post with its author resolved, as served by feeds.
type PostView struct {
	Post   `bson:",inline"`
	Author *UserCompact `json:"author,omitempty" bson:"-"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,min=1,max=5000"`
	Images   []string `json:"images,omitempty" validate:"omitempty,max=10,dive,url"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Mentions []uint   `json:"mentions,omitempty"`
}
