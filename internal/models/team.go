package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a hackathon team stored in MongoDB.
type Team struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description" bson:"description"`
	Logo        string              `json:"logo" bson:"logo"`
	OwnerID     uint                `json:"owner_id" bson:"owner_id"`
	CreatedBy   uint                `json:"created_by" bson:"created_by"`
	Members     []uint              `json:"members" bson:"members"`
	HackathonID *primitive.ObjectID `json:"hackathon_id,omitempty" bson:"hackathon_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

// HasMember reports whether userID belongs to the team.
func (t *Team) HasMember(userID uint) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

type TeamView struct {
	Team           `bson:",inline"`
	Owner          *UserCompact  `json:"owner,omitempty" bson:"-"`
	MemberProfiles []UserCompact `json:"member_profiles,omitempty" bson:"-"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Logo        string `json:"logo,omitempty" validate:"omitempty,url"`
}

type UpdateTeamRequest struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Logo        *string `json:"logo,omitempty"`
}

// InviteByEmailRequest adds a registered user straight into a team.
type InviteByEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}
