package handlers

import (
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GamificationHandler serves a user's achievements and skill XP
type GamificationHandler struct {
	achievementRepository repositories.AchievementRepository
	skillRepository       repositories.SkillRepository
}

// NewGamificationHandler creates a new GamificationHandler
func NewGamificationHandler(achievementRepo repositories.AchievementRepository, skillRepo repositories.SkillRepository) *GamificationHandler {
	return &GamificationHandler{
		achievementRepository: achievementRepo,
		skillRepository:       skillRepo,
	}
}

func (h *GamificationHandler) RegisterAchievementRoutes(g *echo.Group) {
	g.GET("/:userId", h.GetUserAchievements)
}

func (h *GamificationHandler) RegisterSkillRoutes(g *echo.Group) {
	g.GET("/:userId", h.GetUserSkills)
}

// GetUserAchievements lists a user's unlocked achievements, newest first
func (h *GamificationHandler) GetUserAchievements(c echo.Context) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}
	achievements, err := h.achievementRepository.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "")
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	return c.JSON(http.StatusOK, achievements)
}

// GetUserSkills lists a user's skill categories, highest XP first
func (h *GamificationHandler) GetUserSkills(c echo.Context) error {
	userID, err := parseUserIDParam(c, "userId")
	if err != nil {
		return err
	}
	skills, err := h.skillRepository.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "")
	}
	if skills == nil {
		skills = []models.SkillXP{}
	}
	return c.JSON(http.StatusOK, skills)
}
