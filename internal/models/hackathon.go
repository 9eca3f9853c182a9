package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HackathonStatus string

const (
	HackathonUpcoming  HackathonStatus = "upcoming"
	HackathonOngoing   HackathonStatus = "ongoing"
	HackathonCompleted HackathonStatus = "completed"
)

// DefaultMaxTeams applies when a hackathon is created without a capacity.
const DefaultMaxTeams = 100

type Prize struct {
	Place       string `json:"place" bson:"place"`
	Reward      string `json:"reward" bson:"reward"`
	Description string `json:"description" bson:"description"`
}

type ScheduleItem struct {
	Time        string `json:"time" bson:"time"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

type Sponsor struct {
	Name    string `json:"name" bson:"name"`
	Logo    string `json:"logo" bson:"logo"`
	Website string `json:"website" bson:"website"`
}

type FAQ struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

type Hackathon struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title                string               `json:"title" bson:"title"`
	Logo                 string               `json:"logo" bson:"logo"`
	Banner               string               `json:"banner" bson:"banner"`
	Organizer            string               `json:"organizer" bson:"organizer"`
	HostedBy             uint                 `json:"hosted_by" bson:"hosted_by"`
	StartDate            time.Time            `json:"start_date" bson:"start_date"`
	EndDate              time.Time            `json:"end_date" bson:"end_date"`
	RegistrationDeadline time.Time            `json:"registration_deadline" bson:"registration_deadline"`
	Description          string               `json:"description" bson:"description"`
	Theme                string               `json:"theme" bson:"theme"`
	Objective            string               `json:"objective" bson:"objective"`
	IsOnline             bool                 `json:"is_online" bson:"is_online"`
	Location             string               `json:"location" bson:"location"`
	WhatsappLink         string               `json:"whatsapp_link" bson:"whatsapp_link"`
	Rules                []string             `json:"rules" bson:"rules"`
	Prizes               []Prize              `json:"prizes" bson:"prizes"`
	Eligibility          string               `json:"eligibility" bson:"eligibility"`
	Schedule             []ScheduleItem       `json:"schedule" bson:"schedule"`
	Sponsors             []Sponsor            `json:"sponsors" bson:"sponsors"`
	FAQ                  []FAQ                `json:"faq" bson:"faq"`
	ContactEmail         string               `json:"contact_email" bson:"contact_email"`
	ContactPhone         string               `json:"contact_phone" bson:"contact_phone"`
	MaxTeams             int                  `json:"max_teams" bson:"max_teams"`
	ParticipatingTeams   []primitive.ObjectID `json:"participating_teams" bson:"participating_teams"`
	Status               HackathonStatus      `json:"status" bson:"status"`
	CreatedAt            time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasTeam reports whether teamID is registered for the hackathon.
func (h *Hackathon) HasTeam(teamID primitive.ObjectID) bool {
	for _, t := range h.ParticipatingTeams {
		if t == teamID {
			return true
		}
	}
	return false
}

// HackathonView is a hackathon with its host resolved.
type HackathonView struct {
	Hackathon `bson:",inline"`
	Host      *UserCompact `json:"host,omitempty" bson:"-"`
}

type HackathonRequest struct {
	Title                string          `json:"title" validate:"required,min=1,max=200"`
	Logo                 string          `json:"logo,omitempty"`
	Banner               string          `json:"banner,omitempty"`
	Organizer            string          `json:"organizer" validate:"required"`
	StartDate            time.Time       `json:"start_date" validate:"required"`
	EndDate              time.Time       `json:"end_date" validate:"required,gtefield=StartDate"`
	RegistrationDeadline time.Time       `json:"registration_deadline" validate:"required"`
	Description          string          `json:"description" validate:"required"`
	Theme                string          `json:"theme" validate:"required"`
	Objective            string          `json:"objective,omitempty"`
	IsOnline             *bool           `json:"is_online,omitempty"`
	Location             string          `json:"location,omitempty"`
	WhatsappLink         string          `json:"whatsapp_link,omitempty"`
	Rules                []string        `json:"rules,omitempty"`
	Prizes               []Prize         `json:"prizes,omitempty"`
	Eligibility          string          `json:"eligibility" validate:"required"`
	Schedule             []ScheduleItem  `json:"schedule,omitempty"`
	Sponsors             []Sponsor       `json:"sponsors,omitempty"`
	FAQ                  []FAQ           `json:"faq,omitempty"`
	ContactEmail         string          `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone         string          `json:"contact_phone,omitempty"`
	MaxTeams             int             `json:"max_teams,omitempty" validate:"gte=0"`
	Status               HackathonStatus `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed"`
}

// Apply copies the request onto h, filling defaults for unset fields.
func (r *HackathonRequest) Apply(h *Hackathon) {
	h.Title = r.Title
	h.Logo = r.Logo
	h.Banner = r.Banner
	h.Organizer = r.Organizer
	h.StartDate = r.StartDate
	h.EndDate = r.EndDate
	h.RegistrationDeadline = r.RegistrationDeadline
	h.Description = r.Description
	h.Theme = r.Theme
	h.Objective = r.Objective
	h.IsOnline = true
	if r.IsOnline != nil {
		h.IsOnline = *r.IsOnline
	}
	h.Location = r.Location
	if h.Location == "" {
		h.Location = "Online"
	}
	h.WhatsappLink = r.WhatsappLink
	h.Rules = r.Rules
	h.Prizes = r.Prizes
	h.Eligibility = r.Eligibility
	h.Schedule = r.Schedule
	h.Sponsors = r.Sponsors
	h.FAQ = r.FAQ
	h.ContactEmail = r.ContactEmail
	h.ContactPhone = r.ContactPhone
	h.MaxTeams = r.MaxTeams
	if h.MaxTeams == 0 {
		h.MaxTeams = DefaultMaxTeams
	}
	h.Status = r.Status
	if h.Status == "" {
		h.Status = HackathonUpcoming
	}
}

type JoinHackathonRequest struct {
	TeamID string `json:"team_id" validate:"required,len=24,hexadecimal"`
}
