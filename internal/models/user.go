package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// SocialLinks groups the public profile links of a user.
type SocialLinks struct {
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`
	Devpost   string `json:"devpost"`
}

type User struct {
	ID                 uint        `json:"id" gorm:"primaryKey"`
	Name               string      `json:"name"`
	Email              string      `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password           string      `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Avatar             string      `json:"avatar"`
	Bio                string      `json:"bio"`
	Country            string      `json:"country"`
	Education          string      `json:"education"`
	Skills             []string    `json:"skills" gorm:"serializer:json"`
	SocialLinks        SocialLinks `json:"social_links" gorm:"embedded;embeddedPrefix:social_"`
	OnboardingComplete bool        `json:"onboarding_complete" gorm:"default:false"`
	FirebaseUID        *string     `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// UserCompact is the author/sender shape embedded in other resources.
type UserCompact struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ToCompact strips a user down to the fields embedded in feeds and notifications.
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name               string       `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar             string       `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio                string       `json:"bio,omitempty" validate:"omitempty,max=500"`
	Country            string       `json:"country,omitempty"`
	Education          string       `json:"education,omitempty"`
	Skills             []string     `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
	SocialLinks        *SocialLinks `json:"social_links,omitempty"`
	OnboardingComplete *bool        `json:"onboarding_complete,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
