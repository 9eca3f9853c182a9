package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// TeamInvitation is stored in PostgreSQL; TeamID holds the hex ObjectID of the Mongo team.
type TeamInvitation struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	TeamID     string           `json:"team_id" gorm:"size:24;index:idx_invitation_team_status,priority:1"`
	SenderID   uint             `json:"sender_id"`
	ReceiverID uint             `json:"receiver_id" gorm:"index:idx_invitation_receiver_status,priority:1"`
	Status     InvitationStatus `json:"status" gorm:"size:10;default:pending;index:idx_invitation_receiver_status,priority:2;index:idx_invitation_team_status,priority:2"`
	Message    string           `json:"message" gorm:"size:500"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type TeamInvitationView struct {
	TeamInvitation
	Team   *Team        `json:"team,omitempty"`
	Sender *UserCompact `json:"sender,omitempty"`
}

type SendInvitationRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Message    string `json:"message,omitempty" validate:"max=500"`
}
