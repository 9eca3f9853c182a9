package gamification

import "github.com/anonto42/hackmate/backend/internal/models"

// AchievementKey identifies an achievement definition.
type AchievementKey string

const (
	AchievementFirstPost    AchievementKey = "FIRST_POST"
	AchievementFirstReel    AchievementKey = "FIRST_REEL"
	AchievementFirstProject AchievementKey = "FIRST_PROJECT"
	AchievementFirstTeam    AchievementKey = "FIRST_TEAM"
	AchievementSocial10     AchievementKey = "SOCIAL_10"
	AchievementViralReel    AchievementKey = "VIRAL_REEL"
)

// Thresholds for the progress-based achievements.
const (
	SocialFollowerThreshold = 10
	ViralReelViewThreshold  = 10000
)

// Definition describes how an unlocked achievement is presented.
type Definition struct {
	Type        string
	Name        string
	Description string
	Icon        string
	Tier        models.AchievementTier
	Target      int
}

var definitions = map[AchievementKey]Definition{
	AchievementFirstPost: {
		Type: "content_creator", Name: "First Post", Description: "Created your first post",
		Icon: "📝", Tier: models.TierBronze, Target: 1,
	},
	AchievementFirstReel: {
		Type: "content_creator", Name: "Video Creator", Description: "Uploaded your first reel",
		Icon: "🎥", Tier: models.TierBronze, Target: 1,
	},
	AchievementFirstProject: {
		Type: "project_showcase", Name: "Project Publisher", Description: "Published your first project",
		Icon: "🚀", Tier: models.TierBronze, Target: 1,
	},
	AchievementFirstTeam: {
		Type: "team_leader", Name: "Team Founder", Description: "Created your first team",
		Icon: "👥", Tier: models.TierBronze, Target: 1,
	},
	AchievementSocial10: {
		Type: "social_butterfly", Name: "Social Butterfly", Description: "Got 10 followers",
		Icon: "🦋", Tier: models.TierSilver, Target: SocialFollowerThreshold,
	},
	AchievementViralReel: {
		Type: "content_creator", Name: "Viral Creator", Description: "Got 10K views on a reel",
		Icon: "🔥", Tier: models.TierGold, Target: ViralReelViewThreshold,
	},
}

// firstAchievement maps an XP event to the achievement its first occurrence unlocks.
var firstAchievement = map[Event]AchievementKey{
	EventPostCreated:      AchievementFirstPost,
	EventReelUploaded:     AchievementFirstReel,
	EventProjectPublished: AchievementFirstProject,
	EventTeamCreated:      AchievementFirstTeam,
}

// Lookup returns the definition for key.
func Lookup(key AchievementKey) (Definition, bool) {
	d, ok := definitions[key]
	return d, ok
}

func (d Definition) build(userID uint, key AchievementKey) *models.Achievement {
	return &models.Achievement{
		UserID:          userID,
		Key:             string(key),
		Type:            d.Type,
		Name:            d.Name,
		Description:     d.Description,
		Icon:            d.Icon,
		Tier:            d.Tier,
		ProgressCurrent: d.Target,
		ProgressTarget:  d.Target,
		Unlocked:        true,
	}
}
