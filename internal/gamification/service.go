package gamification

import (
	"context"
	"fmt"

	"github.com/anonto42/hackmate/backend/internal/metrics"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// XPStore accumulates XP atomically per (user, category).
type XPStore interface {
	AddXP(ctx context.Context, userID uint, category models.SkillCategory, amount int64) (*models.SkillXP, error)
}

// AchievementStore persists unlocked achievements. Unlock reports false when
// the user already holds the achievement.
type AchievementStore interface {
	Unlock(ctx context.Context, achievement *models.Achievement) (bool, error)
}

// Notifier receives achievement notifications.
type Notifier interface {
	Notify(n models.Notification) bool
}

// Service awards XP and achievements. Failures are logged and never returned
// to the caller.
type Service struct {
	xp           XPStore
	achievements AchievementStore
	notifier     Notifier
	log          *logrus.Entry
}

// NewService creates a gamification Service.
func NewService(xp XPStore, achievements AchievementStore, notifier Notifier) *Service {
	return &Service{
		xp:           xp,
		achievements: achievements,
		notifier:     notifier,
		log:          logrus.WithField("component", "gamification"),
	}
}

// Record awards the XP for event and unlocks the "first" achievement tied to it.
func (s *Service) Record(ctx context.Context, userID uint, event Event, category models.SkillCategory) {
	s.AwardXP(ctx, userID, event, category)
	if key, ok := firstAchievement[event]; ok {
		s.Unlock(ctx, userID, key)
	}
}

// AwardXP adds the XP for event to the user's category and returns the updated row.
func (s *Service) AwardXP(ctx context.Context, userID uint, event Event, category models.SkillCategory) *models.SkillXP {
	amount := XPFor(event)
	if amount == 0 {
		return nil
	}
	category = CategoryFor(event, category)

	skill, err := s.xp.AddXP(ctx, userID, category, amount)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"event":    event,
			"category": category,
		}).Error("failed to award XP")
		return nil
	}
	metrics.XPAwardedTotal.WithLabelValues(string(event)).Add(float64(amount))
	return skill
}

// Unlock grants key to the user once and notifies them on first unlock.
func (s *Service) Unlock(ctx context.Context, userID uint, key AchievementKey) bool {
	def, ok := Lookup(key)
	if !ok {
		return false
	}
	created, err := s.achievements.Unlock(ctx, def.build(userID, key))
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"key":     key,
		}).Error("failed to unlock achievement")
		return false
	}
	if !created {
		return false
	}

	metrics.AchievementsUnlockedTotal.WithLabelValues(string(key)).Inc()
	if s.notifier != nil {
		s.notifier.Notify(models.Notification{
			RecipientID: userID,
			Type:        models.NotificationAchievement,
			Message:     fmt.Sprintf("Achievement unlocked: %s!", def.Name),
			Link:        "/achievements",
		})
	}
	return true
}

// CheckFollowers unlocks the follower-count achievement once the threshold is met.
func (s *Service) CheckFollowers(ctx context.Context, userID uint, followers int64) {
	if followers >= SocialFollowerThreshold {
		s.Unlock(ctx, userID, AchievementSocial10)
	}
}

// CheckReelViews unlocks the viral-reel achievement once the threshold is met.
func (s *Service) CheckReelViews(ctx context.Context, creatorID uint, views int64) {
	if views >= ViralReelViewThreshold {
		s.Unlock(ctx, creatorID, AchievementViralReel)
	}
}
