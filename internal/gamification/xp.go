// Package gamification awards skill XP and unlocks achievements.
package gamification

import (
	"math"

	"github.com/anonto42/hackmate/backend/internal/models"
)

// Event is a user action that earns XP.
type Event string

const (
	EventPostCreated           Event = "POST_CREATED"
	EventReelUploaded          Event = "REEL_UPLOADED"
	EventProjectPublished      Event = "PROJECT_PUBLISHED"
	EventTeamCreated           Event = "TEAM_CREATED"
	EventTaskCompleted         Event = "TASK_COMPLETED"
	EventHackathonParticipated Event = "HACKATHON_PARTICIPATED"
)

var xpTable = map[Event]int64{
	EventPostCreated:           10,
	EventReelUploaded:          20,
	EventProjectPublished:      50,
	EventTeamCreated:           30,
	EventTaskCompleted:         10,
	EventHackathonParticipated: 100,
}

// XPFor returns the award for e, or 0 for unknown events.
func XPFor(e Event) int64 {
	return xpTable[e]
}

// CategoryFor resolves the skill category an award lands in.
// Post and team creation always count towards general.
func CategoryFor(e Event, requested models.SkillCategory) models.SkillCategory {
	switch e {
	case EventPostCreated, EventTeamCreated:
		return models.SkillGeneral
	}
	if requested == "" {
		return models.SkillGeneral
	}
	return requested
}

// Level maps accumulated XP to a level: floor(sqrt(xp/100)) + 1.
func Level(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}
