package models

import "time"

// NotificationType is the closed set of notification tags.
type NotificationType string

const (
	NotificationFollow         NotificationType = "follow"
	NotificationLikePost       NotificationType = "like_post"
	NotificationLikeReel       NotificationType = "like_reel"
	NotificationLikeProject    NotificationType = "like_project"
	NotificationCommentPost    NotificationType = "comment_post"
	NotificationCommentReel    NotificationType = "comment_reel"
	NotificationCommentProject NotificationType = "comment_project"
	NotificationMention        NotificationType = "mention"
	NotificationAchievement    NotificationType = "achievement"
	NotificationTeamInvitation NotificationType = "team_invitation"
	NotificationTeamJoin       NotificationType = "team_join"
)

// Valid reports whether t belongs to the closed enumeration.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFollow, NotificationLikePost, NotificationLikeReel, NotificationLikeProject,
		NotificationCommentPost, NotificationCommentReel, NotificationCommentProject,
		NotificationMention, NotificationAchievement, NotificationTeamInvitation, NotificationTeamJoin:
		return true
	}
	return false
}

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index:idx_recipient_created,priority:1;index:idx_recipient_read,priority:1"`
	SenderID    *uint            `json:"sender_id,omitempty"`
	Type        NotificationType `json:"type" gorm:"size:30"`
	Message     string           `json:"message"`
	Link        string           `json:"link"`
	Read        bool             `json:"read" gorm:"default:false;index:idx_recipient_read,priority:2"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index:idx_recipient_created,priority:2,sort:desc"`
}

// SelfAddressed reports whether the actor and the recipient are the same user.
func (n *Notification) SelfAddressed() bool {
	return n.SenderID != nil && *n.SenderID == n.RecipientID
}
