package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HackathonHandler handles hackathon listing, hosting and team registration
type HackathonHandler struct {
	hackathonRepository repositories.HackathonRepository
	teamRepository      repositories.TeamRepository
	users               CompactUserSource
	rewards             Rewards
	now                 func() time.Time
}

// NewHackathonHandler creates a new HackathonHandler
func NewHackathonHandler(hackathonRepo repositories.HackathonRepository, teamRepo repositories.TeamRepository, users CompactUserSource, rewards Rewards) *HackathonHandler {
	return &HackathonHandler{
		hackathonRepository: hackathonRepo,
		teamRepository:      teamRepo,
		users:               users,
		rewards:             rewards,
		now:                 time.Now,
	}
}

// RegisterHackathonRoutes registers hackathon routes
func (h *HackathonHandler) RegisterHackathonRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("", h.GetHackathons)
	g.POST("", h.CreateHackathon, protect)
	g.GET("/my-hosted", h.GetMyHostedHackathons, protect)
	g.GET("/:id", h.GetHackathon)
	g.PUT("/:id", h.UpdateHackathon, protect)
	g.DELETE("/:id", h.DeleteHackathon, protect)
	g.POST("/:id/join", h.JoinHackathon, protect)
	g.POST("/:id/leave", h.LeaveHackathon, protect)
}

func (h *HackathonHandler) hackathonViews(ctx context.Context, hackathons []models.Hackathon) []models.HackathonView {
	ids := make([]uint, 0, len(hackathons))
	for _, hk := range hackathons {
		ids = append(ids, hk.HostedBy)
	}
	profiles := compactUsers(ctx, h.users, ids)

	views := make([]models.HackathonView, 0, len(hackathons))
	for _, hk := range hackathons {
		views = append(views, models.HackathonView{Hackathon: hk, Host: compactPtr(profiles, hk.HostedBy)})
	}
	return views
}

func (h *HackathonHandler) hackathonView(ctx context.Context, hackathon *models.Hackathon) models.HackathonView {
	return h.hackathonViews(ctx, []models.Hackathon{*hackathon})[0]
}

// loadHosted fetches :id and checks that userID hosts it.
func (h *HackathonHandler) loadHosted(c echo.Context, userID uint, denied string) (*models.Hackathon, error) {
	hackathon, err := h.hackathonRepository.GetHackathonByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, storeError(c, err, "Hackathon not found")
	}
	if hackathon.HostedBy != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, denied)
	}
	return hackathon, nil
}

// GetHackathons lists hackathons by start date, filterable by search text, format and status
func (h *HackathonHandler) GetHackathons(c echo.Context) error {
	filter := repositories.HackathonFilter{
		Search: c.QueryParam("search"),
		Status: models.HackathonStatus(c.QueryParam("status")),
	}
	if raw := c.QueryParam("isOnline"); raw != "" {
		online, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid isOnline filter")
		}
		filter.IsOnline = &online
	}

	ctx := c.Request().Context()
	hackathons, err := h.hackathonRepository.ListHackathons(ctx, filter)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.hackathonViews(ctx, hackathons))
}

func (h *HackathonHandler) GetHackathon(c echo.Context) error {
	ctx := c.Request().Context()
	hackathon, err := h.hackathonRepository.GetHackathonByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	return c.JSON(http.StatusOK, h.hackathonView(ctx, hackathon))
}

// CreateHackathon hosts a new hackathon
func (h *HackathonHandler) CreateHackathon(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.HackathonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	hackathon := &models.Hackathon{HostedBy: userID}
	req.Apply(hackathon)
	if err := h.hackathonRepository.CreateHackathon(ctx, hackathon); err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusCreated, h.hackathonView(ctx, hackathon))
}

// GetMyHostedHackathons lists the hackathons the caller hosts
func (h *HackathonHandler) GetMyHostedHackathons(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	hackathons, err := h.hackathonRepository.ListByHost(ctx, userID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.hackathonViews(ctx, hackathons))
}

// UpdateHackathon replaces the editable fields; host only
func (h *HackathonHandler) UpdateHackathon(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.HackathonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hackathon, err := h.loadHosted(c, userID, "Not authorized to update this hackathon")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	req.Apply(hackathon)
	if err := h.hackathonRepository.UpdateHackathon(ctx, hackathon); err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	return c.JSON(http.StatusOK, h.hackathonView(ctx, hackathon))
}

// DeleteHackathon removes a hackathon and clears the team back-references; host only
func (h *HackathonHandler) DeleteHackathon(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	hackathon, err := h.loadHosted(c, userID, "Not authorized to delete this hackathon")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.teamRepository.ClearHackathon(ctx, hackathon.ParticipatingTeams); err != nil {
		return storeError(c, err, "")
	}
	if err := h.hackathonRepository.DeleteHackathon(ctx, hackathon.ID); err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Hackathon deleted successfully"})
}

// JoinHackathon registers one of the caller's teams. Every team member earns
// participation XP.
func (h *HackathonHandler) JoinHackathon(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.JoinHackathonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	hackathon, err := h.hackathonRepository.GetHackathonByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	if h.now().After(hackathon.RegistrationDeadline) {
		return echo.NewHTTPError(http.StatusBadRequest, "Registration deadline has passed")
	}
	if len(hackathon.ParticipatingTeams) >= hackathon.MaxTeams {
		return echo.NewHTTPError(http.StatusBadRequest, "Hackathon is full")
	}

	team, err := h.teamRepository.GetTeamByID(ctx, req.TeamID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if !team.HasMember(userID) && team.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this team")
	}
	if hackathon.HasTeam(team.ID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Team already joined this hackathon")
	}

	updated, err := h.hackathonRepository.AddTeam(ctx, hackathon.ID, team.ID)
	if err != nil {
		if errors.Cause(err) == repositories.ErrConflict {
			// Lost a race for the last slot or the team registered concurrently
			return echo.NewHTTPError(http.StatusBadRequest, "Hackathon is full")
		}
		return storeError(c, err, "Hackathon not found")
	}
	if err := h.teamRepository.SetHackathon(ctx, team.ID, &updated.ID); err != nil {
		logrus.WithError(err).WithField("team_id", team.ID.Hex()).Warn("failed to record team hackathon")
	}

	for _, member := range team.Members {
		h.rewards.Record(ctx, member, gamification.EventHackathonParticipated, models.SkillGeneral)
	}

	var whatsapp interface{}
	if updated.IsOnline {
		whatsapp = updated.WhatsappLink
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Successfully joined hackathon",
		"hackathon":    h.hackathonView(ctx, updated),
		"whatsappLink": whatsapp,
	})
}

// LeaveHackathon withdraws a team; team owner only
func (h *HackathonHandler) LeaveHackathon(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.JoinHackathonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	hackathon, err := h.hackathonRepository.GetHackathonByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	team, err := h.teamRepository.GetTeamByID(ctx, req.TeamID)
	if err != nil {
		return storeError(c, err, "Team not found")
	}
	if team.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Only team owner can leave hackathon")
	}

	if err := h.hackathonRepository.RemoveTeam(ctx, hackathon.ID, team.ID); err != nil {
		return storeError(c, err, "Hackathon not found")
	}
	if team.HackathonID != nil && *team.HackathonID == hackathon.ID {
		if err := h.teamRepository.SetHackathon(ctx, team.ID, nil); err != nil {
			logrus.WithError(err).WithField("team_id", team.ID.Hex()).Warn("failed to clear team hackathon")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully left hackathon"})
}
